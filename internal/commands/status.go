package commands

import (
	"github.com/spf13/cobra"

	"github.com/arcana-app/arcana-go/internal/models"
	"github.com/arcana-app/arcana-go/internal/output"
)

// NewStatusCmd fetches the current subscription snapshot.
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current subscription state",
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("refresh")

			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			snap, err := rt.subs.Refresh(cmd.Context(), force)
			if err != nil {
				return output.PrintError(err)
			}

			type resp struct {
				Subscription *models.SubscriptionSnapshot `json:"subscription"`
				Entitled     bool                         `json:"entitled"`
			}
			return output.PrintSuccess(resp{
				Subscription: snap,
				Entitled:     snap.Status.IsEntitled(),
			})
		},
	}
	cmd.Flags().Bool("refresh", false, "Bypass server-side caching")
	return cmd
}
