package vehicle

import "math"

const degPerRad = 180 / math.Pi

func abs(v float64) float64 { return math.Abs(v) }
