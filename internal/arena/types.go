package arena

import "gonum.org/v1/gonum/spatial/r3"

type Team string

const (
	TeamBlue    Team = "blue"
	TeamRed     Team = "red"
	TeamDefault Team = "default" // nobody has touched the ball this episode
)

type Event string

const (
	HitRedGoal      Event = "HitRedGoal"
	HitBlueGoal     Event = "HitBlueGoal"
	HitOutOfBounds  Event = "HitOutOfBounds"
	HitIntoBlueArea Event = "HitIntoBlueArea"
	HitIntoRedArea  Event = "HitIntoRedArea"
)

type Outcome string

const (
	OutcomeNone        Outcome = ""
	OutcomeBlueWin     Outcome = "blue_win"
	OutcomeRedWin      Outcome = "red_win"
	OutcomeOutOfBounds Outcome = "out_of_bounds"
	OutcomeInterrupted Outcome = "interrupted"
)

type Material string

const (
	MaterialDefault  Material = "default"
	MaterialBlueGoal Material = "blue_goal"
	MaterialRedGoal  Material = "red_goal"
)

// Spawn side of the ball: -1 is the blue half, +1 the red half.
const (
	SideBlue = -1
	SideRed  = 1
)

type EpisodeState struct {
	LastHitter      Team `json:"last_hitter"`
	SelfVolleyCount int  `json:"self_volley_count"`
	StepCounter     int  `json:"step_counter"`
	BallSpawnSide   int  `json:"ball_spawn_side"`
}

// Pose is a local position plus a rotation around the vertical axis.
// Pitch and roll are always zero.
type Pose struct {
	Position r3.Vec  `json:"position"`
	Yaw      float64 `json:"yaw"`
}

type Ball struct {
	Position        r3.Vec `json:"position"`
	Velocity        r3.Vec `json:"velocity"`
	AngularVelocity r3.Vec `json:"angular_velocity"`
}

// Agent is what the arbiter needs from a player. Rewards set through
// SetReward replace whatever was accumulated during the current step.
type Agent interface {
	AddReward(delta float64)
	SetReward(value float64)
	EndEpisode()
	EpisodeInterrupted()
	SetPose(p Pose)
}

// Ground is a surface that can be repainted to show who scored.
type Ground interface {
	Paint(m Material)
}

type Flasher interface {
	Flash(m Material)
}

// Sampler is the randomness the arbiter draws from. *rand.Rand from
// math/rand/v2 satisfies it.
type Sampler interface {
	Float64() float64
	IntN(n int) int
}

// Result reports an episode boundary caused by an operation.
type Result struct {
	Ended   bool    `json:"ended"`
	Outcome Outcome `json:"outcome,omitempty"`
	Episode int     `json:"episode"`
	Steps   int     `json:"steps"`
}

func ParseTeam(s string) (Team, bool) {
	switch Team(s) {
	case TeamBlue:
		return TeamBlue, true
	case TeamRed:
		return TeamRed, true
	default:
		return "", false
	}
}

func ParseEvent(s string) (Event, bool) {
	switch e := Event(s); e {
	case HitRedGoal, HitBlueGoal, HitOutOfBounds, HitIntoBlueArea, HitIntoRedArea:
		return e, true
	default:
		return "", false
	}
}
