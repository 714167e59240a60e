package design

// Indicator returns a face summarizing how well a structure fits its target
// shape, given the final SDF loss. Lower is better. Each boundary value
// belongs to the bucket above it, so a loss of exactly 1 is not the best.
func Indicator(sdfLoss float64) string {
	switch {
	case sdfLoss < 1:
		return "\U0001F618" // face throwing a kiss
	case sdfLoss < 2:
		return "\U0001F642" // slightly smiling
	case sdfLoss < 3:
		return "\U0001F636" // no mouth
	}
	return "\U0001F641" // slightly frowning
}
