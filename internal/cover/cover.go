// Package cover computes center crops that fill a destination box.
package cover

import (
	"fmt"

	"github.com/koios/mockup-renderer/pkg/models"
)

// Fit returns the largest source rectangle with the destination's aspect
// ratio, centered in the source. Drawing it into the destination fills the
// box and crops the overflow, like CSS object-fit: cover.
//
// Fit panics on non-positive dimensions.
func Fit(srcW, srcH, dstW, dstH float64) models.Rect {
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		panic(fmt.Sprintf("cover.Fit: non-positive size %vx%v -> %vx%v", srcW, srcH, dstW, dstH))
	}

	if srcW/srcH > dstW/dstH {
		// wider source: crop the sides
		sw := srcH * dstW / dstH
		return models.Rect{X: (srcW - sw) / 2, Y: 0, Width: sw, Height: srcH}
	}

	sh := srcW * dstH / dstW
	return models.Rect{X: 0, Y: (srcH - sh) / 2, Width: srcW, Height: sh}
}
