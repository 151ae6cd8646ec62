package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSuggestCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <keyword>",
		Short: "Print keyword suggestions for a main keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadEnv(app)
			if err != nil {
				return err
			}
			client := newClient(app, cfg)
			suggestions, degraded := client.SuggestKeywords(cmd.Context(), args[0])
			if degraded {
				fmt.Fprintln(cmd.ErrOrStderr(), "backend unreachable, showing offline suggestions")
			}
			for _, s := range suggestions {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
}
