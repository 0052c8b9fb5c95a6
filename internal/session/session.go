package session

import (
	"context"
	"hash/fnv"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/volleyball-arena/internal/arena"
	"github.com/DoyleJ11/volleyball-arena/internal/store"
)

// MaxStepsPerMsg bounds how many ticks one Step message may run.
const MaxStepsPerMsg = 10_000

type Msg interface{ isSessionMsg() }

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Join) isSessionMsg() {}

type Leave struct{ ClientID string }

func (Leave) isSessionMsg() {}

// Step advances the simulation by N fixed steps (at least one).
type Step struct{ N int }

func (Step) isSessionMsg() {}

// Contact reports the ball touching a team's agent.
type Contact struct{ Team arena.Team }

func (Contact) isSessionMsg() {}

// Trigger reports the ball entering a trigger volume.
type Trigger struct{ Event arena.Event }

func (Trigger) isSessionMsg() {}

type Reset struct{}

func (Reset) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isSessionMsg() {}

type Snapshot struct {
	Version int
	State   View
}

type AgentView struct {
	Team             arena.Team            `json:"team"`
	Pose             arena.Pose            `json:"pose"`
	LastStepReward   float64               `json:"last_step_reward"`
	StepReward       float64               `json:"step_reward"`
	CumulativeReward float64               `json:"cumulative_reward"`
	Episodes         int                   `json:"episodes"`
	LastEpisode      *arena.EpisodeSummary `json:"last_episode,omitempty"`
}

type View struct {
	Code       string             `json:"code"`
	Version    int                `json:"version"`
	NumClients int                `json:"num_clients"`
	Episode    int                `json:"episode"`
	State      arena.EpisodeState `json:"state"`
	Ball       arena.Ball         `json:"ball"`
	Ground     arena.Material     `json:"ground"`
	Blue       AgentView          `json:"blue"`
	Red        AgentView          `json:"red"`
	LastResult *arena.Result      `json:"last_result,omitempty"`
}

type Options struct {
	Logger    *zap.Logger
	Store     store.EpisodeStore // optional
	Rand      arena.Sampler      // optional
	Seed      uint64             // seeds a per-arena generator when Rand is nil; 0 means random
	FlashHold time.Duration      // defaults to arena.DefaultFlashHold
}

type Session struct {
	code    string
	inbox   chan Msg
	arbiter *arena.Arbiter
	blue    *arena.Learner
	red     *arena.Learner
	floor   *arena.Floor
	flash   *arena.GoalFlash
	store   store.EpisodeStore
	log     *zap.Logger

	version    int
	lastStep   map[arena.Team]float64
	lastResult *arena.Result
	clients    map[string]chan Snapshot
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewSession(parent context.Context, code string, cfg arena.Config, opts Options) *Session {
	ctx, cancel := context.WithCancel(parent)

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.FlashHold <= 0 {
		opts.FlashHold = arena.DefaultFlashHold
	}

	if opts.Rand == nil && opts.Seed != 0 {
		h := fnv.New64a()
		h.Write([]byte(code))
		opts.Rand = rand.New(rand.NewPCG(opts.Seed, h.Sum64()))
	}

	blue, red := arena.NewLearner(arena.TeamBlue), arena.NewLearner(arena.TeamRed)
	floor := arena.NewFloor()
	flash := arena.NewGoalFlash(opts.FlashHold, floor)

	s := &Session{
		code:  code,
		inbox: make(chan Msg, 64), // Small buffer
		arbiter: arena.NewArbiter(cfg, arena.Scene{
			Blue:  blue,
			Red:   red,
			Flash: flash,
			Rand:  opts.Rand,
		}),
		blue:     blue,
		red:      red,
		floor:    floor,
		flash:    flash,
		store:    opts.Store,
		log:      opts.Logger.With(zap.String("arena", code)),
		lastStep: make(map[arena.Team]float64),
		clients:  make(map[string]chan Snapshot),
		ctx:      ctx,
		cancel:   cancel,
	}

	go s.loop()
	return s
}

func (s *Session) Code() string { return s.code }

// Expose the inbox so tests or WS layer can send messages.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

// Done is closed once the session has shut down.
func (s *Session) Done() <-chan struct{} { return s.ctx.Done() }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				// Register client + send current snapshot immediately
				s.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- Snapshot{Version: s.version, State: s.view()}

			case Leave:
				delete(s.clients, msg.ClientID)

			case Step:
				n := min(max(msg.N, 1), MaxStepsPerMsg)
				for i := 0; i < n; i++ {
					s.lastStep[arena.TeamBlue] = s.blue.EndStep()
					s.lastStep[arena.TeamRed] = s.red.EndStep()
					s.record(s.arbiter.Tick())
				}
				s.publish()

			case Contact:
				s.arbiter.UpdateLastHitter(msg.Team)
				s.publish()

			case Trigger:
				s.record(s.arbiter.ResolveEvent(msg.Event))
				s.publish()

			case Reset:
				s.arbiter.ResetScene()
				s.publish()

			case GetState:
				msg.Reply <- s.view()

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

// record persists an episode that just ended. Store failures are logged
// and otherwise ignored; training keeps going without history.
func (s *Session) record(res arena.Result) {
	if !res.Ended {
		return
	}
	s.lastResult = &res

	rec := &store.EpisodeRecord{
		ArenaCode: s.code,
		Episode:   res.Episode,
		Outcome:   string(res.Outcome),
		Steps:     res.Steps,
		EndedAt:   time.Now().UTC(),
	}
	if ep, ok := s.blue.LastEpisode(); ok {
		rec.BlueReward = ep.Reward
	}
	if ep, ok := s.red.LastEpisode(); ok {
		rec.RedReward = ep.Reward
	}
	s.log.Debug("episode ended",
		zap.Int("episode", res.Episode),
		zap.String("outcome", string(res.Outcome)),
		zap.Int("steps", res.Steps),
		zap.Float64("blue_reward", rec.BlueReward),
		zap.Float64("red_reward", rec.RedReward),
	)

	if s.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(s.ctx, 2*time.Second)
	defer cancel()
	if err := s.store.SaveEpisode(ctx, rec); err != nil {
		s.log.Warn("failed to save episode", zap.Int("episode", res.Episode), zap.Error(err))
	}
}

func (s *Session) publish() {
	s.version++
	s.broadcast(Snapshot{Version: s.version, State: s.view()})
}

func (s *Session) view() View {
	v := View{
		Code:       s.code,
		Version:    s.version,
		NumClients: len(s.clients),
		Episode:    s.arbiter.Episode(),
		State:      s.arbiter.State(),
		Ball:       s.arbiter.Ball(),
		Ground:     s.floor.Material(),
		Blue:       s.agentView(s.blue),
		Red:        s.agentView(s.red),
	}
	if s.lastResult != nil {
		res := *s.lastResult
		v.LastResult = &res
	}
	return v
}

func (s *Session) agentView(l *arena.Learner) AgentView {
	av := AgentView{
		Team:             l.Team(),
		Pose:             l.Pose(),
		LastStepReward:   s.lastStep[l.Team()],
		StepReward:       l.StepReward(),
		CumulativeReward: l.CumulativeReward(),
		Episodes:         len(l.Episodes()),
	}
	if ep, ok := l.LastEpisode(); ok {
		av.LastEpisode = &ep
	}
	return av
}

func (s *Session) shutdown() {
	s.flash.Stop()
	for id, ch := range s.clients {
		close(ch) // Tell client no more snapshots
		delete(s.clients, id)
	}
	s.cancel()
}

func (s *Session) broadcast(snap Snapshot) {
	for id, ch := range s.clients {
		select {
		case ch <- snap:
			//ok
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(s.clients, id)
		}
	}
}
