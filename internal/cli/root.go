package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"marketplace/internal/config"
	"marketplace/internal/handler"
	"marketplace/internal/infra/db"
	"marketplace/internal/server"
)

// NewRootCmd builds the command tree. The bare command runs the interactive
// terminal shell; serve and migrate are the non-interactive entry points.
func NewRootCmd() *cobra.Command {
	var debug bool

	root := &cobra.Command{
		Use:   "marketplace",
		Short: "Regional marketplace for customers and merchants",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Missing .env is fine, the environment may be set directly.
			_ = godotenv.Load()

			level := zerolog.InfoLevel
			if debug {
				level = zerolog.DebugLevel
			}
			log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).
				With().Timestamp().Logger()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp()
			if err != nil {
				return err
			}
			return NewShell(app, os.Stdin, os.Stdout).Run()
		},
	}

	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(newServeCmd())
	root.AddCommand(newMigrateCmd())

	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp()
			if err != nil {
				return err
			}

			h := server.Handlers{
				Auth:     handler.NewAuthHandler(app.Register, app.Login, app.Password, app.Users),
				Product:  handler.NewProductHandler(app.Products),
				Cart:     handler.NewCartHandler(app.Cart, app.Users),
				Order:    handler.NewOrderHandler(app.Orders, app.Users),
				Merchant: handler.NewMerchantHandler(app.Businesses, app.Products, app.Orders, app.Users),
			}

			log.Info().Str("port", app.Cfg.Port).Msg("http server starting")
			return server.Start(app.Cfg, h)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			gormDB, err := db.Connect(cfg)
			if err != nil {
				return err
			}

			if err := db.Migrate(gormDB); err != nil {
				return err
			}

			log.Info().Msg("schema migrated")
			return nil
		},
	}
}

func buildApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	gormDB, err := db.Connect(cfg)
	if err != nil {
		return nil, err
	}

	return NewApp(cfg, gormDB), nil
}
