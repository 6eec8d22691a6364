package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kerbaras/mangaverse/pkg/app"
	"github.com/spf13/cobra"
)

var (
	envFile  string
	dbPath   string
	apiURL   string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:           "mangaverse",
	Short:         "Browse the MyAnimeList manga catalog from your terminal",
	Long:          "Browse, search and collect manga from the Jikan catalog with a TUI and a CLI",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer env.Close()

		a := app.NewApp(env.coord,
			app.WithLogger(env.logger),
			app.WithExporter(env.exporter(env.exportDir())),
		)
		return a.Run(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "environment file to load")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (overrides MANGAVERSE_DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "catalog API base URL (overrides MANGAVERSE_API_URL)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}
