package models

import "time"

// EnhancementReport is the outcome of running one image through the
// enhancement pipeline
type EnhancementReport struct {
	Input             string    `json:"input"`
	Output            string    `json:"output,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
	ProcessingTimeSec float64   `json:"processing_time_sec"`

	Width  int `json:"width"`
	Height int `json:"height"`

	// Metrics
	Metrics EnhancementMetrics `json:"metrics"`

	// Applied filters
	Filters AppliedFilters `json:"filters"`

	// Warnings carries non-fatal conditions such as a degenerate histogram
	Warnings []string `json:"warnings,omitempty"`
}

// EnhancementMetrics holds the percentages that drove the filter decisions.
// Noise is measured on the input, blur on the edge gradient of the denoised
// image and range on the sharpened image.
type EnhancementMetrics struct {
	NoisePercent float64 `json:"noise_percent"`
	BlurPercent  float64 `json:"blur_percent"`
	RangePercent float64 `json:"range_percent"`
	LowBound     int     `json:"low_bound"`
	HighBound    int     `json:"high_bound"`
}

// AppliedFilters records which corrective filters fired
type AppliedFilters struct {
	Median              bool `json:"median"`
	Unsharp             bool `json:"unsharp"`
	Stretch             bool `json:"stretch"`
	DegenerateHistogram bool `json:"degenerate_histogram,omitempty"`
}

// BatchItem is one entry of a batch run. Exactly one of Report and Error is set.
type BatchItem struct {
	Input  string             `json:"input"`
	Report *EnhancementReport `json:"report,omitempty"`
	Error  string             `json:"error,omitempty"`
}

// BatchResult aggregates a batch run in input order
type BatchResult struct {
	Items     []BatchItem `json:"items"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

// Add appends an item and updates the counters
func (b *BatchResult) Add(item BatchItem) {
	b.Items = append(b.Items, item)
	if item.Error != "" {
		b.Failed++
		return
	}
	b.Succeeded++
}

// ImageMetadata contains metadata about a fetched image
type ImageMetadata struct {
	Location      string `json:"location"`
	ContentType   string `json:"content_type,omitempty"`
	ContentLength int64  `json:"content_length,omitempty"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Format        string `json:"format"`
}
