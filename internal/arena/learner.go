package arena

type EpisodeSummary struct {
	Reward      float64 `json:"reward"`
	Interrupted bool    `json:"interrupted"`
}

// Learner is an in-process Agent that keeps rewards the way a trainer
// sees them: a per-step reward collected at each decision, and the
// cumulative reward of the running episode.
type Learner struct {
	team       Team
	pose       Pose
	stepReward float64
	cumulative float64
	episodes   []EpisodeSummary
}

func NewLearner(team Team) *Learner {
	return &Learner{team: team}
}

func (l *Learner) Team() Team { return l.team }

func (l *Learner) AddReward(delta float64) {
	l.stepReward += delta
	l.cumulative += delta
}

func (l *Learner) SetReward(value float64) {
	l.cumulative += value - l.stepReward
	l.stepReward = value
}

func (l *Learner) EndEpisode() { l.closeEpisode(false) }

func (l *Learner) EpisodeInterrupted() { l.closeEpisode(true) }

func (l *Learner) closeEpisode(interrupted bool) {
	l.episodes = append(l.episodes, EpisodeSummary{Reward: l.cumulative, Interrupted: interrupted})
	l.stepReward = 0
	l.cumulative = 0
}

func (l *Learner) SetPose(p Pose) { l.pose = p }

func (l *Learner) Pose() Pose { return l.pose }

// EndStep hands back the reward earned since the previous decision.
func (l *Learner) EndStep() float64 {
	r := l.stepReward
	l.stepReward = 0
	return r
}

func (l *Learner) StepReward() float64 { return l.stepReward }

func (l *Learner) CumulativeReward() float64 { return l.cumulative }

func (l *Learner) Episodes() []EpisodeSummary {
	out := make([]EpisodeSummary, len(l.episodes))
	copy(out, l.episodes)
	return out
}

// LastEpisode returns the most recently closed episode, if any.
func (l *Learner) LastEpisode() (EpisodeSummary, bool) {
	if len(l.episodes) == 0 {
		return EpisodeSummary{}, false
	}
	return l.episodes[len(l.episodes)-1], true
}
