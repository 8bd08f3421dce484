package enhancer

// Reference decision thresholds, in percent.
const (
	DenoiseThreshold = 50.0
	SharpenThreshold = 75.0
	StretchThreshold = 50.0
)

// DecisionThresholds holds the percentages at which each corrective filter fires
type DecisionThresholds struct {
	Denoise float64
	Sharpen float64
	Stretch float64
}

// DefaultThresholds returns the reference thresholds
func DefaultThresholds() DecisionThresholds {
	return DecisionThresholds{
		Denoise: DenoiseThreshold,
		Sharpen: SharpenThreshold,
		Stretch: StretchThreshold,
	}
}

// ShouldDenoise reports whether the noise percentage calls for a median filter.
// The boundary is inclusive.
func (d DecisionThresholds) ShouldDenoise(noise float64) bool {
	return noise >= d.Denoise
}

// ShouldSharpen reports whether the blur percentage calls for an unsharp mask.
func (d DecisionThresholds) ShouldSharpen(blur float64) bool {
	return blur > d.Sharpen
}

// ShouldStretch reports whether the range percentage calls for a contrast stretch.
func (d DecisionThresholds) ShouldStretch(rng float64) bool {
	return rng < d.Stretch
}
