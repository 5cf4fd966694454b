package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "gymbros",
	Short: "Gymbros workout tracker server",
	Long: `Gymbros tracks workouts, rehab exercises, habits and friends.

  $ gymbros serve                              # run the HTTP API
  $ gymbros migrate                            # create tables or indexes
  $ gymbros seed --user jo_lifts --program strength

Configuration comes from config.yaml in --config and from environment
variables (server.address -> SERVER_ADDRESS).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory holding config.yaml")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

// @title Gymbros API
// @version 1.0
// @description Workout tracking with rehab, habits, friends and gym plans.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name gymbros_session
func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Errorf("%s", err)
		os.Exit(1)
	}
}
