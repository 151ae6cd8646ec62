package cli

import (
	"fmt"

	"artigen/internal/export"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		toDir     string
		title     string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the current outline as a markdown brief",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := loadEnv(app)
			if err != nil {
				return err
			}
			res, err := export.WriteOutline(st, toDir, export.WriteOptions{
				Title:     title,
				Overwrite: overwrite,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Written)
			return nil
		},
	}

	cmd.Flags().StringVar(&toDir, "to", ".", "Output directory")
	cmd.Flags().StringVar(&title, "title", "", "Document heading (default: saved draft title)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing outline.md")
	return cmd
}
