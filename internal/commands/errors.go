package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/arcana-app/arcana-go/internal/apperr"
	"github.com/arcana-app/arcana-go/internal/models"
	"github.com/arcana-app/arcana-go/internal/output"
)

// NewErrorsCmd probes the backend surface and dumps every failure the
// diagnostics ring captured during the run, paired with the notice a UI
// would render for it.
func NewErrorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "errors",
		Short: "Probe the backend and dump captured error diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			// Each call classifies and records its own failure in the
			// ring; the responses themselves are not the point here.
			ctx := cmd.Context()
			_, _ = rt.subs.Refresh(ctx, true)
			_, _ = rt.api.DailyLimit(ctx)

			entries := rt.errLog.Errors()
			notices := make([]apperr.Notice, len(entries))
			for i, e := range entries {
				notices[i] = apperr.NoticeFor(e.AppError)
			}

			// Active overrides change what the probe talked to; record
			// them so a dump is interpretable on its own.
			overrides := map[string]string{}
			cmd.InheritedFlags().VisitAll(func(f *pflag.Flag) {
				if f.Changed {
					overrides[f.Name] = f.Value.String()
				}
			})

			type resp struct {
				Errors    []models.LoggedError `json:"errors"`
				Notices   []apperr.Notice      `json:"notices"`
				Overrides map[string]string    `json:"overrides,omitempty"`
			}
			return output.PrintSuccess(resp{Errors: entries, Notices: notices, Overrides: overrides})
		},
	}
}
