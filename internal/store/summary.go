package store

import "gonum.org/v1/gonum/stat"

type Stat struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

type Summary struct {
	Episodes   int            `json:"episodes"`
	Outcomes   map[string]int `json:"outcomes"`
	BlueReward Stat           `json:"blue_reward"`
	RedReward  Stat           `json:"red_reward"`
	Steps      Stat           `json:"steps"`
}

func Summarize(recs []EpisodeRecord) Summary {
	s := Summary{
		Episodes: len(recs),
		Outcomes: make(map[string]int),
	}
	if len(recs) == 0 {
		return s
	}

	blue := make([]float64, len(recs))
	red := make([]float64, len(recs))
	steps := make([]float64, len(recs))
	for i, r := range recs {
		s.Outcomes[r.Outcome]++
		blue[i] = r.BlueReward
		red[i] = r.RedReward
		steps[i] = float64(r.Steps)
	}
	s.BlueReward = describe(blue)
	s.RedReward = describe(red)
	s.Steps = describe(steps)
	return s
}

// stat.StdDev is NaN for a single sample, which JSON can't carry.
func describe(x []float64) Stat {
	if len(x) < 2 {
		return Stat{Mean: stat.Mean(x, nil)}
	}
	mean, std := stat.MeanStdDev(x, nil)
	return Stat{Mean: mean, StdDev: std}
}
