package source

import (
	"image"
	"strconv"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// Source yields scanned page images one at a time. Implementations cover a
// directory of page scans, a single scan file, and a PDF of scans.
type Source interface {
	PageCount() int
	// PageName returns a short identifier for the page (file stem or page
	// number), used in diagnostics.
	PageName(index int) string
	RenderPage(index int, dpi int) (image.Image, error)
	Close() error
}

// Open picks a source implementation from the path: a .pdf file is rendered
// through go-fitz, anything else is treated as an image file or a directory
// of image files.
func Open(path string) (Source, error) {
	if strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return NewFitzPDFSource(path)
	}
	return NewImageSource(path)
}

type FitzPDFSource struct {
	doc  *fitz.Document
	path string
}

func NewFitzPDFSource(path string) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return &FitzPDFSource{doc: doc, path: path}, nil
}

func (f *FitzPDFSource) PageCount() int {
	return f.doc.NumPage()
}

func (f *FitzPDFSource) PageName(index int) string {
	return "page_" + strconv.Itoa(index+1)
}

// RenderPage opens a private document handle so that concurrent page workers
// never share fitz state.
func (f *FitzPDFSource) RenderPage(index int, dpi int) (image.Image, error) {
	workerDoc, err := fitz.New(f.path)
	if err != nil {
		return nil, err
	}
	defer workerDoc.Close()
	return workerDoc.ImageDPI(index, float64(dpi))
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}
