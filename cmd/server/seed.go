package main

import (
	"context"
	"fmt"
	"time"

	"gymbros/fitness-tracker/internal/jobs"
	"gymbros/fitness-tracker/internal/seed"
	"gymbros/fitness-tracker/internal/service"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var (
	seedUsername string
	seedProgram  string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate the demo workout history for one user",
	Long: `Runs the same setup a new account gets, synchronously.
Fails when the user already completed setup.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cfg.Database)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, store.Close(context.Background()))
		}()

		ctx := cmd.Context()
		user, err := store.Users.GetByUsername(ctx, seedUsername)
		if err != nil {
			return fmt.Errorf("find user %q: %w", seedUsername, err)
		}
		if user.SetupComplete {
			return fmt.Errorf("user %q: %w", seedUsername, service.ErrSetupAlreadyComplete)
		}

		// the queue is never started, RunSetup does not need it
		tracker := jobs.NewTracker(jobs.NewMemoryStore(cfg.Jobs.CacheBytes), cfg.Jobs.CompletedTTL)
		queue := jobs.NewQueue(tracker, 1, 0, nil)
		defer queue.Stop()
		setup := service.NewSetupService(store.Users, seed.NewGenerator(store.Workouts, store.Stats), tracker, queue)

		begin := time.Now()
		res, err := setup.RunSetup(ctx, user.ID, seedProgram, func(pct int) {
			log.Debugf("seed %s: %d%%", user.Username, pct)
		})
		if err != nil {
			return err
		}
		log.Infof("seeded %d workouts for %s in %s (%d sets, %d exercises completed)",
			res.Workouts, user.Username, time.Since(begin).Round(time.Millisecond), res.SetsCompleted, res.ExercisesCompleted)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedUsername, "user", "", "username to seed")
	seedCmd.Flags().StringVar(&seedProgram, "program", "", "strength or foundation (default picks by rehab flag)")
	_ = seedCmd.MarkFlagRequired("user")
}
