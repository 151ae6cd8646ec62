package cli

import (
	"encoding/json"
	"fmt"

	"artigen/internal/notify"
	"artigen/internal/pipeline"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func newGenerateCmd(app *App) *cobra.Command {
	var (
		query       string
		title       string
		contentType string
		tone        string
		language    string
		bot         string
		length      string
		tags        []string
		ctxText     string
		website     string
		printOut    bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run the generation pipeline without the TUI",
		Long: "Runs the three pipeline stages (news search, article crawl, AI\n" +
			"filtering) and stores the resulting payload for the next run of the\n" +
			"outline screen. Intended for scripts and cron jobs.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := loadEnv(app)
			if err != nil {
				return err
			}
			log := logger(app)
			runner := pipeline.NewRunner(newClient(app, cfg), st, notify.Logger{Log: log}, log)

			bar := progressbar.NewOptions(3,
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionSetDescription("Đang tạo dàn ý"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
			runner.OnStage = func(s pipeline.Stage, done bool) {
				if done {
					_ = bar.Add(1)
				} else {
					bar.Describe(s.String())
				}
			}

			payload, err := runner.Run(cmd.Context(), pipeline.Input{
				SourceType:  "internet",
				Query:       query,
				Title:       title,
				ContentType: contentType,
				Tone:        tone,
				Language:    language,
				Bot:         bot,
				Length:      length,
				Tags:        tags,
				Context:     ctxText,
				Website:     website,
			})
			if err != nil {
				return err
			}

			if printOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(payload)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "run %s: payload stored in %s\n", payload.RunID, app.Dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Main keyword (required)")
	cmd.Flags().StringVar(&title, "title", "", "Article title")
	cmd.Flags().StringVar(&contentType, "type", "Blog SEO", "Content type")
	cmd.Flags().StringVar(&tone, "tone", "Chuyên nghiệp", "Writing tone")
	cmd.Flags().StringVar(&language, "lang", "Tiếng Việt", "Output language")
	cmd.Flags().StringVar(&bot, "bot", "", "AI model (required)")
	cmd.Flags().StringVar(&length, "length", "1500", "Target word count")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag (repeatable)")
	cmd.Flags().StringVar(&ctxText, "context", "", "Extra context for the writer")
	cmd.Flags().StringVar(&website, "website", "", "Target website")
	cmd.Flags().BoolVar(&printOut, "json", false, "Print the payload to stdout as JSON")
	_ = cmd.MarkFlagRequired("query")
	_ = cmd.MarkFlagRequired("bot")

	return cmd
}
