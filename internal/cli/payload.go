package cli

import (
	"errors"
	"fmt"

	"artigen/internal/store"

	"github.com/spf13/cobra"
)

func newPayloadCmd(app *App) *cobra.Command {
	var peek bool

	cmd := &cobra.Command{
		Use:   "payload",
		Short: "Print the pending pipeline payload",
		Long: "Prints the payload stored by the last successful generation run.\n" +
			"Reading consumes the payload unless --peek is given; the outline\n" +
			"screen will no longer pick it up afterwards.",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := loadEnv(app)
			if err != nil {
				return err
			}
			if peek {
				if !st.PeekHandoff(store.HandoffPipelinePayload) {
					return errors.New("no pending payload")
				}
				fmt.Fprintln(cmd.OutOrStdout(), "payload pending")
				return nil
			}
			raw, ok := st.TakeHandoff(store.HandoffPipelinePayload)
			if !ok {
				return errors.New("no pending payload")
			}
			fmt.Fprintln(cmd.OutOrStdout(), raw)
			return nil
		},
	}

	cmd.Flags().BoolVar(&peek, "peek", false, "Only report whether a payload is pending")
	return cmd
}
