package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/arcana-app/arcana-go/internal/models"
	"github.com/arcana-app/arcana-go/internal/output"
	"github.com/arcana-app/arcana-go/internal/timer"
)

// NewLimitsCmd shows the daily readings quota countdown.
func NewLimitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "limits",
		Short: "Show the countdown to the next daily quota reset",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			td, err := rt.api.DailyLimit(cmd.Context())
			if err != nil {
				return output.PrintError(err)
			}

			now := time.Now()
			type resp struct {
				Timer     *models.TimerData `json:"timer"`
				Remaining string            `json:"remaining"`
				Expired   bool              `json:"expired"`
			}
			return output.PrintSuccess(resp{
				Timer:     td,
				Remaining: timer.FormatRemaining(*td, now),
				Expired:   timer.Expired(*td, now),
			})
		},
	}
}
