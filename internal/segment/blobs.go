package segment

import (
	"image"

	"github.com/dynkarken/pattern-language-extract/internal/system"
)

// closeMask performs morphological closing (dilate then erode) with a square
// structuring element, merging fragments of one figure that the flattening
// step split across caption gaps. The caller owns the returned buffer.
func closeMask(mask *image.Gray, kernel int) *image.Gray {
	radius := kernel / 2
	dilated := dilate(mask, radius)
	defer system.PutGray(dilated)
	return erode(dilated, radius)
}

// dilate grows foreground by radius in every direction. Both morphological
// operators run as two separable passes (rows, then columns), so cost stays
// linear in the kernel size rather than quadratic.
func dilate(src *image.Gray, radius int) *image.Gray {
	rows := spanRows(src, radius, 255)
	defer system.PutGray(rows)
	return spanCols(rows, radius, 255)
}

// erode shrinks foreground by radius in every direction.
func erode(src *image.Gray, radius int) *image.Gray {
	rows := spanRows(src, radius, 0)
	defer system.PutGray(rows)
	return spanCols(rows, radius, 0)
}

// spanRows sets each pixel to hit if any pixel within radius on its row has
// the hit value, otherwise to the opposite value.
func spanRows(src *image.Gray, radius int, hit uint8) *image.Gray {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := system.GetGray(bounds)
	miss := 255 - hit

	for y := 0; y < h; y++ {
		srcRow := src.Pix[y*src.Stride : y*src.Stride+w]
		dstRow := dst.Pix[y*dst.Stride : y*dst.Stride+w]
		for x := 0; x < w; x++ {
			lo, hi := x-radius, x+radius
			if lo < 0 {
				lo = 0
			}
			if hi > w-1 {
				hi = w - 1
			}
			dstRow[x] = miss
			for i := lo; i <= hi; i++ {
				if srcRow[i] == hit {
					dstRow[x] = hit
					break
				}
			}
		}
	}
	return dst
}

// spanCols is the column pass of the separable morphological operators.
func spanCols(src *image.Gray, radius int, hit uint8) *image.Gray {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := system.GetGray(bounds)
	miss := 255 - hit

	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			lo, hi := y-radius, y+radius
			if lo < 0 {
				lo = 0
			}
			if hi > h-1 {
				hi = h - 1
			}
			dst.Pix[y*dst.Stride+x] = miss
			for i := lo; i <= hi; i++ {
				if src.Pix[i*src.Stride+x] == hit {
					dst.Pix[y*dst.Stride+x] = hit
					break
				}
			}
		}
	}
	return dst
}

// extractComponents finds the bounding rectangle of every 4-connected
// foreground component in the mask and keeps those whose box area lies
// within [minArea, maxArea]. Components are reported in row-major discovery
// order, which downstream ordering relies on for tie-breaks.
func extractComponents(mask *image.Gray, minArea, maxArea int) []image.Rectangle {
	bounds := mask.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	visited := make([]bool, w*h)

	var boxes []image.Rectangle
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if visited[y*w+x] || mask.Pix[y*mask.Stride+x] == 0 {
				continue
			}
			rect := traceComponent(mask, visited, x, y)
			area := rect.Dx() * rect.Dy()
			if area >= minArea && area <= maxArea {
				boxes = append(boxes, rect)
			}
		}
	}
	return boxes
}

// traceComponent flood-fills one component and returns its bounding box.
func traceComponent(mask *image.Gray, visited []bool, startX, startY int) image.Rectangle {
	w, h := mask.Bounds().Dx(), mask.Bounds().Dy()
	minX, minY := startX, startY
	maxX, maxY := startX, startY

	stack := []int{startY*w + startX}
	visited[startY*w+startX] = true

	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := idx%w, idx/w

		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}

		for _, n := range [4][2]int{{x + 1, y}, {x - 1, y}, {x, y + 1}, {x, y - 1}} {
			nx, ny := n[0], n[1]
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			nidx := ny*w + nx
			if visited[nidx] || mask.Pix[ny*mask.Stride+nx] == 0 {
				continue
			}
			visited[nidx] = true
			stack = append(stack, nidx)
		}
	}

	return image.Rect(minX, minY, maxX+1, maxY+1)
}
