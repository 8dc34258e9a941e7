package crowd

import "math"

// Defaults reported when nobody has moved a slider yet.
const (
	DefaultTempo  = 120
	DefaultEnergy = 5.0
)

// Summary condenses every participant's slider positions into the numbers
// shown on the dashboard.
type Summary struct {
	AvgTempo   int     `json:"avgTempo"`
	AvgEnergy  float64 `json:"avgEnergy"`
	VoterCount int     `json:"voterCount"`
}

// Summarize averages the collected tempo and energy values. Tempo rounds to
// a whole BPM, energy to one decimal place.
func Summarize(tempos, energies []float64) Summary {
	avgTempo := float64(DefaultTempo)
	if len(tempos) > 0 {
		avgTempo = mean(tempos)
	}

	avgEnergy := DefaultEnergy
	if len(energies) > 0 {
		avgEnergy = mean(energies)
	}

	voterCount := len(tempos)
	if len(energies) > voterCount {
		voterCount = len(energies)
	}

	return Summary{
		AvgTempo:   int(math.Round(avgTempo)),
		AvgEnergy:  math.Round(avgEnergy*10) / 10,
		VoterCount: voterCount,
	}
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
