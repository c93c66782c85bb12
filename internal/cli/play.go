package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"guess-the-flag/internal/terminal"
)

// NewPlayCmd plays a game in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var (
		catalog   string
		questions int
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play guess the flag in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			if questions > 0 {
				cfg.Game.MaxQuestions = questions
			}
			if catalog == "" {
				catalog = cfg.Game.Catalog
			}

			if cfg.Postgres.URL != "" {
				if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
					return err
				}
			}

			service, cleanup, err := buildService(ctx, cfg, log, true)
			if err != nil {
				return err
			}
			defer cleanup()

			return terminal.New(service, cmd.InOrStdin(), cmd.OutOrStdout(), log).Run(ctx, catalog)
		},
	}
	cmd.Flags().StringVar(&catalog, "catalog", "", "catalog to draw countries from")
	cmd.Flags().IntVar(&questions, "questions", 0, "questions per round (overrides config)")
	return cmd
}
