package service

// DescribeStrain buckets a masking-strain scalar ([0,1], as returned by
// engine.Presentation.GetMaskingStrain) into a short human-readable
// label for HTTP responses and report output.
func DescribeStrain(strain float64) string {
	switch {
	case strain < 0.15:
		return "relaxed"
	case strain < 0.4:
		return "composed"
	case strain < 0.65:
		return "straining"
	case strain < 0.85:
		return "overextended"
	default:
		return "breaking"
	}
}
