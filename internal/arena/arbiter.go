package arena

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
)

// Scene holds the collaborators an Arbiter drives.
type Scene struct {
	Blue Agent
	Red  Agent
	// Extra agents repositioned on reset, alongside Blue and Red.
	Others []Agent
	Ball   *Ball
	Flash  Flasher
	Rand   Sampler
}

// Arbiter decides rewards and episode boundaries for one court.
// It is not safe for concurrent use; hosts serialise calls onto one goroutine.
type Arbiter struct {
	cfg     Config
	blue    Agent
	red     Agent
	agents  []Agent
	ball    *Ball
	flash   Flasher
	rng     Sampler
	state   EpisodeState
	episode int
}

func NewArbiter(cfg Config, scene Scene) *Arbiter {
	a := &Arbiter{
		cfg:   cfg,
		blue:  scene.Blue,
		red:   scene.Red,
		ball:  scene.Ball,
		flash: scene.Flash,
		rng:   scene.Rand,
	}
	a.agents = append([]Agent{scene.Blue, scene.Red}, scene.Others...)
	if a.ball == nil {
		a.ball = &Ball{}
	}
	if a.rng == nil {
		a.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	// Starting side is random, then it alternates every reset.
	sides := []int{SideBlue, SideRed}
	a.state.BallSpawnSide = sides[a.rng.IntN(len(sides))]

	a.ResetScene()
	return a
}

func (a *Arbiter) State() EpisodeState { return a.state }

// Episode is the number of episodes finished so far.
func (a *Arbiter) Episode() int { return a.episode }

func (a *Arbiter) Ball() Ball { return *a.ball }

func (a *Arbiter) agentFor(team Team) Agent {
	switch team {
	case TeamBlue:
		return a.blue
	case TeamRed:
		return a.red
	default:
		return nil
	}
}

// UpdateLastHitter tracks which side last had control of the ball.
func (a *Arbiter) UpdateLastHitter(team Team) {
	if agent := a.agentFor(team); agent != nil {
		if team == a.state.LastHitter {
			// Below the threshold tanh is negative so this is a small bonus,
			// above it the bonus turns into a penalty.
			agent.AddReward(-a.cfg.SelfVolleyIncentive * math.Tanh(float64(a.state.SelfVolleyCount-a.cfg.MaxSelfVolley)))
			a.state.SelfVolleyCount++
		} else {
			// the other side's shot was defended
			agent.AddReward(ReturnReward)
			a.state.SelfVolleyCount = 0
		}
	}
	a.state.LastHitter = team
}

// ResolveEvent assigns rewards for the ball entering a trigger volume.
// Goals and out of bounds end the episode and reset the scene before returning.
func (a *Arbiter) ResolveEvent(ev Event) Result {
	switch ev {
	case HitOutOfBounds:
		if agent := a.agentFor(a.state.LastHitter); agent != nil {
			agent.SetReward(LossPenalty)
		}
		return a.endEpisode(OutcomeOutOfBounds)

	case HitBlueGoal:
		a.blue.AddReward(GoalReward)
		a.red.SetReward(LossPenalty)
		a.flashGround(MaterialBlueGoal)
		return a.endEpisode(OutcomeBlueWin)

	case HitRedGoal:
		a.red.AddReward(GoalReward)
		a.blue.SetReward(LossPenalty)
		a.flashGround(MaterialRedGoal)
		return a.endEpisode(OutcomeRedWin)

	case HitIntoBlueArea:
		if a.state.LastHitter == TeamRed {
			a.red.AddReward(AreaReward)
		}

	case HitIntoRedArea:
		if a.state.LastHitter == TeamBlue {
			a.blue.AddReward(AreaReward)
		}
	}
	return Result{Episode: a.episode, Steps: a.state.StepCounter}
}

// Tick runs once per fixed simulation step and enforces MaxEnvironmentSteps.
func (a *Arbiter) Tick() Result {
	a.state.StepCounter++
	if a.cfg.MaxEnvironmentSteps > 0 && a.state.StepCounter >= a.cfg.MaxEnvironmentSteps {
		return a.endEpisode(OutcomeInterrupted)
	}
	return Result{Episode: a.episode, Steps: a.state.StepCounter}
}

func (a *Arbiter) endEpisode(outcome Outcome) Result {
	res := Result{
		Ended:   true,
		Outcome: outcome,
		Episode: a.episode,
		Steps:   a.state.StepCounter,
	}
	if outcome == OutcomeInterrupted {
		a.blue.EpisodeInterrupted()
		a.red.EpisodeInterrupted()
	} else {
		a.blue.EndEpisode()
		a.red.EndEpisode()
	}
	a.episode++
	a.ResetScene()
	return res
}

func (a *Arbiter) flashGround(m Material) {
	if a.flash != nil {
		a.flash.Flash(m)
	}
}

// ResetScene puts agents and the ball back at random spawn points.
func (a *Arbiter) ResetScene() {
	a.state.StepCounter = 0
	a.state.LastHitter = TeamDefault
	a.state.SelfVolleyCount = 0

	for _, agent := range a.agents {
		agent.SetPose(Pose{
			Position: a.cfg.AgentSpawn.sample(a.rng),
			Yaw:      a.cfg.AgentYaw.sample(a.rng),
		})
	}
	a.resetBall()
}

func (a *Arbiter) resetBall() {
	pos := a.cfg.BallSpawn.sample(a.rng)

	a.state.BallSpawnSide = -a.state.BallSpawnSide
	if a.state.BallSpawnSide == SideRed {
		pos.Z = -pos.Z
	}

	a.ball.Position = pos
	a.ball.Velocity = r3.Vec{}
	a.ball.AngularVelocity = r3.Vec{}
}
