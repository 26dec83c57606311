package cheques

import (
	"bankdocs-backend/internal/layout"
)

// detectSignature scans the first page's geometry for text in the
// bottom-right signature region: any polygon vertex with y beyond 75% of the
// page height and any vertex with x beyond 50% of the width. Missing page
// dimensions fall back to 1000 units so a polygon-bearing line can still
// qualify.
func detectSignature(result *layout.Result) bool {
	if result == nil || len(result.Pages) == 0 {
		return false
	}
	page := result.Pages[0]
	height := page.Height
	if height == 0 {
		height = 1000
	}
	width := page.Width
	if width == 0 {
		width = 1000
	}
	for _, line := range page.Lines {
		if len(line.Polygon) < 2 {
			continue
		}
		var inY, inX bool
		for i := 1; i < len(line.Polygon); i += 2 {
			if line.Polygon[i] > height*0.75 {
				inY = true
				break
			}
		}
		for i := 0; i < len(line.Polygon); i += 2 {
			if line.Polygon[i] > width*0.5 {
				inX = true
				break
			}
		}
		if inY && inX {
			return true
		}
	}
	return false
}
