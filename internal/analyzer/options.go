package analyzer

// Reference thresholds for the quality metrics.
const (
	// NoiseVarianceThreshold is the local variance (intensity² units) above
	// which a pixel counts as noisy.
	NoiseVarianceThreshold = 150.0

	// BlurVarianceThreshold is the local variance of the gradient image
	// (intensity² units) at or below which a pixel counts as blurred.
	BlurVarianceThreshold = 50.0

	// OccupancyThreshold is the pixel count a histogram bin must exceed to
	// bound the dynamic range.
	OccupancyThreshold = 5000
)

// Normalization selects the denominator of the noise and blur percentages.
type Normalization int

const (
	// FullFrame divides by rows*cols even though border pixels are never
	// tested. This is the reference behavior.
	FullFrame Normalization = iota
	// InteriorOnly divides by the number of pixels actually tested.
	InteriorOnly
)

// String implements fmt.Stringer.
func (n Normalization) String() string {
	switch n {
	case InteriorOnly:
		return "interior"
	default:
		return "full"
	}
}

// ParseNormalization maps a config value to a Normalization, defaulting to FullFrame.
func ParseNormalization(s string) Normalization {
	if s == "interior" {
		return InteriorOnly
	}
	return FullFrame
}

// AnalysisOptions configures the quality metrics
type AnalysisOptions struct {
	NoiseVarianceThreshold float64
	BlurVarianceThreshold  float64
	OccupancyThreshold     int
	Normalization          Normalization
}

// DefaultOptions returns the reference thresholds with full-frame normalization
func DefaultOptions() AnalysisOptions {
	return AnalysisOptions{
		NoiseVarianceThreshold: NoiseVarianceThreshold,
		BlurVarianceThreshold:  BlurVarianceThreshold,
		OccupancyThreshold:     OccupancyThreshold,
		Normalization:          FullFrame,
	}
}

// WithNormalization returns options using the given percentage denominator
func (opts AnalysisOptions) WithNormalization(n Normalization) AnalysisOptions {
	opts.Normalization = n
	return opts
}

// WithCustomThresholds allows setting custom variance and occupancy thresholds
func (opts AnalysisOptions) WithCustomThresholds(noiseVariance, blurVariance float64, occupancy int) AnalysisOptions {
	opts.NoiseVarianceThreshold = noiseVariance
	opts.BlurVarianceThreshold = blurVariance
	opts.OccupancyThreshold = occupancy
	return opts
}
