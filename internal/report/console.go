// Package report renders enhancement reports for humans.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/anime-shed/image-enhancer-go/pkg/models"
)

// Separator ends every image block.
var Separator = strings.Repeat("_", 37)

// ConsoleWriter prints one block per enhanced image
type ConsoleWriter struct {
	w io.Writer
}

// NewConsoleWriter creates a writer printing to w
func NewConsoleWriter(w io.Writer) *ConsoleWriter {
	return &ConsoleWriter{w: w}
}

// Write prints the report in pipeline order: each metric followed by the
// filter it triggered, if any.
func (cw *ConsoleWriter) Write(r models.EnhancementReport) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Input: %s\n", r.Input)
	fmt.Fprintf(&b, "Noisy pixels: %.2f%%\n", r.Metrics.NoisePercent)
	if r.Filters.Median {
		b.WriteString("Median filter applied\n")
	}

	fmt.Fprintf(&b, "Blurry pixels: %.2f%%\n", r.Metrics.BlurPercent)
	if r.Filters.Unsharp {
		b.WriteString("Unsharp filter applied\n")
	}

	fmt.Fprintf(&b, "Intensity range (%d-%d): %.2f%%\n", r.Metrics.LowBound, r.Metrics.HighBound, r.Metrics.RangePercent)
	switch {
	case r.Filters.Stretch:
		b.WriteString("Contrast stretch applied\n")
	case r.Filters.DegenerateHistogram:
		b.WriteString("Contrast stretch skipped: degenerate histogram\n")
	}

	if r.Output != "" {
		fmt.Fprintf(&b, "Output: %s\n", r.Output)
	}
	b.WriteString(Separator)
	b.WriteString("\n")

	_, err := io.WriteString(cw.w, b.String())
	return err
}

// WriteFailure prints a block for an image that could not be enhanced.
func (cw *ConsoleWriter) WriteFailure(input string, err error) error {
	_, werr := fmt.Fprintf(cw.w, "Input: %s\nFailed: %v\n%s\n", input, err, Separator)
	return werr
}
