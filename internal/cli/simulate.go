package cli

import (
	"encoding/json"
	"os"
	"os/signal"

	"github.com/gosuri/uilive"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/DoyleJ11/volleyball-arena/internal/sim"
)

func SimulateCommand() *cobra.Command {
	var (
		episodes  int
		seed      uint64
		maxSteps  int
		arenaCode string
		script    = sim.DefaultScript()
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play scripted episodes headless and print reward statistics",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			st, err := openStore(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, st.Close()) }()

			arenaCfg := cfg.Arena()
			if cmd.Flags().Changed("max-steps") {
				arenaCfg.MaxEnvironmentSteps = maxSteps
			}
			if !cmd.Flags().Changed("seed") {
				seed = cfg.Seed
			}

			writer := uilive.New()
			writer.Start()
			rep, err := sim.Run(ctx, sim.Options{
				Config:    arenaCfg,
				Script:    script,
				Episodes:  episodes,
				Seed:      seed,
				ArenaCode: arenaCode,
				Store:     st,
				Progress:  writer,
			})
			writer.Stop()
			if err != nil {
				log.Error("simulation stopped", zap.Error(err), zap.Int("episodes", rep.Episodes))
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		},
	}

	cmd.Flags().IntVar(&episodes, "episodes", 100, "Number of episodes to play")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "RNG seed, overrides SEED (0 picks one)")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "Step limit per episode, overrides MAX_ENVIRONMENT_STEPS")
	cmd.Flags().StringVar(&arenaCode, "arena", "SIM", "Arena code the episodes are stored under")
	cmd.Flags().Float64Var(&script.ContactProb, "contact-prob", script.ContactProb, "Per-step probability of a ball contact")
	cmd.Flags().Float64Var(&script.AreaProb, "area-prob", script.AreaProb, "Per-step probability of the ball landing in an area")
	cmd.Flags().Float64Var(&script.TerminalProb, "terminal-prob", script.TerminalProb, "Per-step probability of a goal or out of bounds")
	return cmd
}
