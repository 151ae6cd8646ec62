package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"artigen/internal/api"
	"artigen/internal/config"
	"artigen/internal/store"
	"artigen/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir     string
	APIBase string
	Config  string
	Verbose bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "artigen",
		Short:        "Trình tạo bài viết SEO (TUI + CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive wizard
  artigen

  # Headless generation run
  artigen generate --query "máy in laser" --type "Blog SEO" --bot "GPT-4.1"

  # Show the effective configuration
  artigen config
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("ARTIGEN_DIR", ""), "Path to the state dir (default: discovered .artigen or ~/.artigen)")
	cmd.PersistentFlags().StringVar(&app.APIBase, "api", "", "Backend base URL (overrides config and ARTIGEN_API_BASE)")
	cmd.PersistentFlags().StringVar(&app.Config, "config", "", "Path to "+config.FileName)
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Debug logging")

	cmd.AddCommand(newGenerateCmd(app))
	cmd.AddCommand(newSuggestCmd(app))
	cmd.AddCommand(newPayloadCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

func runTUI(app *App) error {
	cfg, st, err := loadEnv(app)
	if err != nil {
		return err
	}
	return tui.Run(cfg, st, logger(app))
}

// loadEnv resolves the effective config and state dir from flags, env and
// discovery, in that order.
func loadEnv(app *App) (*config.Config, store.Store, error) {
	cfgPath := app.Config
	if cfgPath == "" {
		cfgPath = config.FileName
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, store.Store{}, err
	}
	if app.APIBase != "" {
		cfg.API.BaseURL = app.APIBase
	}

	dir := app.Dir
	if dir == "" {
		cwd, _ := os.Getwd()
		if d, ok := store.DiscoverDir(cwd); ok {
			dir = d
		} else if d, err := store.DefaultDir(); err == nil {
			dir = d
		} else {
			return nil, store.Store{}, fmt.Errorf("cannot resolve state dir: %w", err)
		}
	}
	app.Dir = dir
	return cfg, store.Store{Dir: dir}, nil
}

func newClient(app *App, cfg *config.Config) *api.Client {
	return api.NewClient(cfg.API.BaseURL, cfg.Timeout(), cfg.API.RatePerMinute, logger(app))
}

func logger(app *App) *slog.Logger {
	level := slog.LevelInfo
	if app.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
