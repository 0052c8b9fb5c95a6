package arena

import "gonum.org/v1/gonum/spatial/r3"

const (
	DefaultMaxSelfVolley       = 3
	DefaultSelfVolleyIncentive = 0.1

	ReturnReward = 0.5 // first touch after the other side
	AreaReward   = 0.5 // ball landed deep in the opponent's half
	GoalReward   = 1.0
	LossPenalty  = -1.0
)

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Box is an axis aligned volume. Min and Max are inclusive corners.
type Box struct {
	Min r3.Vec `json:"min"`
	Max r3.Vec `json:"max"`
}

type Config struct {
	// MaxEnvironmentSteps interrupts an episode once reached. <= 0 disables it.
	MaxEnvironmentSteps int     `json:"max_environment_steps"`
	MaxSelfVolley       int     `json:"max_self_volley"`
	SelfVolleyIncentive float64 `json:"self_volley_incentive"`

	AgentSpawn Box   `json:"agent_spawn"`
	AgentYaw   Range `json:"agent_yaw"`
	// BallSpawn is given for the blue half (positive z). Red side spawns mirror z.
	BallSpawn Box `json:"ball_spawn"`
}

func DefaultConfig() Config {
	return Config{
		MaxEnvironmentSteps: 5000,
		MaxSelfVolley:       DefaultMaxSelfVolley,
		SelfVolleyIncentive: DefaultSelfVolleyIncentive,
		AgentSpawn: Box{
			Min: r3.Vec{X: -2, Y: 0.5, Z: -2},
			Max: r3.Vec{X: 2, Y: 3.75, Z: 2},
		},
		AgentYaw: Range{Min: -45, Max: 45},
		BallSpawn: Box{
			Min: r3.Vec{X: -2, Y: 6, Z: 6},
			Max: r3.Vec{X: 2, Y: 8, Z: 10},
		},
	}
}

func (r Range) sample(rng Sampler) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

func (b Box) sample(rng Sampler) r3.Vec {
	return r3.Vec{
		X: Range{b.Min.X, b.Max.X}.sample(rng),
		Y: Range{b.Min.Y, b.Max.Y}.sample(rng),
		Z: Range{b.Min.Z, b.Max.Z}.sample(rng),
	}
}

// Contains is inclusive on both corners.
func (b Box) Contains(v r3.Vec) bool {
	return v.X >= b.Min.X && v.X <= b.Max.X &&
		v.Y >= b.Min.Y && v.Y <= b.Max.Y &&
		v.Z >= b.Min.Z && v.Z <= b.Max.Z
}
