// Package sim drives an arbiter with a scripted stand-in for the physics
// engine, so reward shaping can be exercised without a game client.
package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/DoyleJ11/volleyball-arena/internal/arena"
	"github.com/DoyleJ11/volleyball-arena/internal/store"
)

var ErrNoTermination = errors.New("episodes can never end: no step limit and no terminal events")

// Script holds per-tick probabilities of each kind of ball event.
type Script struct {
	ContactProb  float64
	AreaProb     float64
	TerminalProb float64
}

func DefaultScript() Script {
	return Script{ContactProb: 0.08, AreaProb: 0.03, TerminalProb: 0.01}
}

type Options struct {
	Config    arena.Config
	Script    Script
	Episodes  int
	Seed      uint64 // 0 picks one at random
	ArenaCode string
	Store     store.EpisodeStore // optional
	Progress  io.Writer          // optional
}

type Report struct {
	Episodes int           `json:"episodes"`
	Ticks    int           `json:"ticks"`
	Elapsed  time.Duration `json:"elapsed"`
	Summary  store.Summary `json:"summary"`
}

type runner struct {
	opts    Options
	rng     *rand.Rand
	blue    *arena.Learner
	red     *arena.Learner
	arbiter *arena.Arbiter
	records []store.EpisodeRecord
}

func Run(ctx context.Context, opts Options) (Report, error) {
	if opts.Config.MaxEnvironmentSteps <= 0 && opts.Script.TerminalProb <= 0 {
		return Report{}, ErrNoTermination
	}
	if opts.ArenaCode == "" {
		opts.ArenaCode = "SIM"
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	r := &runner{
		opts: opts,
		rng:  rand.New(rand.NewPCG(seed, seed>>1|1)),
		blue: arena.NewLearner(arena.TeamBlue),
		red:  arena.NewLearner(arena.TeamRed),
	}
	r.arbiter = arena.NewArbiter(opts.Config, arena.Scene{Blue: r.blue, Red: r.red, Rand: r.rng})

	start := time.Now()
	ticks := 0
	for r.arbiter.Episode() < opts.Episodes {
		if err := ctx.Err(); err != nil {
			return r.report(ticks, start), err
		}
		if err := r.tick(ctx); err != nil {
			return r.report(ticks, start), err
		}
		ticks++
	}
	return r.report(ticks, start), nil
}

func (r *runner) report(ticks int, start time.Time) Report {
	return Report{
		Episodes: len(r.records),
		Ticks:    ticks,
		Elapsed:  time.Since(start),
		Summary:  store.Summarize(r.records),
	}
}

// tick plays one fixed step: maybe a ball event, then the step itself.
func (r *runner) tick(ctx context.Context) error {
	s := r.opts.Script
	if r.rng.Float64() < s.ContactProb {
		r.arbiter.UpdateLastHitter(r.pick(arena.TeamBlue, arena.TeamRed))
	}
	if r.rng.Float64() < s.AreaProb {
		r.arbiter.ResolveEvent(r.pickEvent(arena.HitIntoBlueArea, arena.HitIntoRedArea))
	}
	if r.rng.Float64() < s.TerminalProb {
		res := r.arbiter.ResolveEvent(r.pickEvent(arena.HitBlueGoal, arena.HitRedGoal, arena.HitOutOfBounds))
		return r.finish(ctx, res)
	}

	r.blue.EndStep()
	r.red.EndStep()
	return r.finish(ctx, r.arbiter.Tick())
}

func (r *runner) pick(teams ...arena.Team) arena.Team { return teams[r.rng.IntN(len(teams))] }

func (r *runner) pickEvent(evs ...arena.Event) arena.Event { return evs[r.rng.IntN(len(evs))] }

func (r *runner) finish(ctx context.Context, res arena.Result) error {
	if !res.Ended {
		return nil
	}
	rec := store.EpisodeRecord{
		ArenaCode: r.opts.ArenaCode,
		Episode:   res.Episode,
		Outcome:   string(res.Outcome),
		Steps:     res.Steps,
		EndedAt:   time.Now().UTC(),
	}
	if ep, ok := r.blue.LastEpisode(); ok {
		rec.BlueReward = ep.Reward
	}
	if ep, ok := r.red.LastEpisode(); ok {
		rec.RedReward = ep.Reward
	}
	r.records = append(r.records, rec)

	if r.opts.Store != nil {
		if err := r.opts.Store.SaveEpisode(ctx, &rec); err != nil {
			return fmt.Errorf("episode %d: %w", res.Episode, err)
		}
	}
	if r.opts.Progress != nil {
		fmt.Fprintf(r.opts.Progress, "Episode %d/%d, Outcome: %s, Steps: %d, Blue: %.3f, Red: %.3f\n",
			res.Episode+1, r.opts.Episodes, res.Outcome, res.Steps, rec.BlueReward, rec.RedReward)
	}
	return nil
}
