package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/dynkarken/pattern-language-extract/internal/config"
	"github.com/dynkarken/pattern-language-extract/internal/logger"
	"github.com/dynkarken/pattern-language-extract/internal/segment"
	"github.com/dynkarken/pattern-language-extract/internal/source"
	"github.com/dynkarken/pattern-language-extract/internal/system"
)

// PageResult lists the artifacts extracted from one page, in reading order.
type PageResult struct {
	Page      int                `json:"page"`
	Label     string             `json:"label"`
	Artifacts []segment.Artifact `json:"artifacts"`
}

// Manifest is the run output handed to downstream linking: every page in
// order with its extracted visuals. It is also written to the output
// directory as manifest.json.
type Manifest struct {
	Label string       `json:"label"`
	Pages []PageResult `json:"pages"`
}

// Runner processes all pages of a source through one shared Segmenter.
type Runner struct {
	cfg config.Config
	seg *segment.Segmenter
}

func New(cfg config.Config) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seg, err := segment.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Runner{cfg: cfg, seg: seg}, nil
}

// Run extracts visuals from every page of src into outputDir. Pages are
// independent and processed in parallel, one worker per page up to the
// configured limit.
//
// An undecodable page contributes zero artifacts and is logged, not failed:
// most pure-text pages legitimately contain no visuals, and callers must
// treat empty results as a valid outcome. Write failures are collected and
// returned once after all pages finish.
func (r *Runner) Run(ctx context.Context, src source.Source, baseLabel, outputDir string) (*Manifest, error) {
	start := time.Now()
	pageCount := src.PageCount()

	manifest := &Manifest{Label: baseLabel, Pages: make([]PageResult, pageCount)}
	if pageCount == 0 {
		logger.Warnf("source contains no pages")
		return manifest, writeManifest(outputDir, manifest)
	}

	workers := system.WorkerCount(r.cfg.Workers)
	logger.WithFields(logrus.Fields{
		"pages":   pageCount,
		"workers": workers,
		"label":   baseLabel,
	}).Infof("extraction started")

	pageErrs := make([]error, pageCount)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < pageCount; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			label := fmt.Sprintf("%s_p%d", baseLabel, i+1)
			manifest.Pages[i] = PageResult{Page: i + 1, Label: label, Artifacts: []segment.Artifact{}}

			img, err := src.RenderPage(i, r.cfg.DPI)
			if err != nil {
				logger.WithFields(logrus.Fields{
					"page": i + 1,
					"name": src.PageName(i),
				}).Warnf("could not read page image: %v", err)
				return nil
			}

			artifacts, err := r.seg.ExtractPage(img, label, outputDir)
			if err != nil {
				pageErrs[i] = fmt.Errorf("page %d: %w", i+1, err)
			}
			if artifacts != nil {
				manifest.Pages[i].Artifacts = artifacts
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return manifest, err
	}

	if err := writeManifest(outputDir, manifest); err != nil {
		pageErrs = append(pageErrs, err)
	}

	photos, diagrams := 0, 0
	for _, p := range manifest.Pages {
		for _, a := range p.Artifacts {
			if a.Kind == segment.KindPhoto {
				photos++
			} else {
				diagrams++
			}
		}
	}
	logger.WithFields(logrus.Fields{
		"pages":    pageCount,
		"photos":   photos,
		"diagrams": diagrams,
		"elapsed":  time.Since(start).Round(time.Millisecond).String(),
	}).Infof("extraction finished")

	return manifest, errors.Join(pageErrs...)
}
