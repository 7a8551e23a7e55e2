package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/arcana-app/arcana-go/internal/app"
	"github.com/arcana-app/arcana-go/internal/models"
	"github.com/arcana-app/arcana-go/internal/output"
)

// NewDoctorCmd probes the local stack and backend, reporting every check
// plus the classified diagnostics captured along the way.
func NewDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check connectivity, session, and credential storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			type check struct {
				Name   string `json:"name"`
				OK     bool   `json:"ok"`
				Detail string `json:"detail,omitempty"`
			}
			var checks []check

			rt, err := newRuntime()
			if err != nil {
				checks = append(checks, check{Name: "credential_store", OK: false, Detail: err.Error()})
				return output.Print(output.Response{SchemaVersion: "v1", Success: false, Data: checks})
			}
			defer func() { _ = rt.Close() }()
			checks = append(checks, check{Name: "credential_store", OK: true})

			ctx := cmd.Context()

			token := rt.session.Token(ctx)
			switch {
			case token == "":
				checks = append(checks, check{Name: "session", OK: false, Detail: "no stored token"})
			case rt.session.TokenExpired(ctx, time.Now()):
				checks = append(checks, check{Name: "session", OK: false, Detail: "token expired"})
			default:
				checks = append(checks, check{Name: "session", OK: true})
			}

			if _, err := rt.subs.Refresh(ctx, false); err != nil {
				checks = append(checks, check{Name: "backend", OK: false, Detail: err.Error()})
			} else {
				checks = append(checks, check{Name: "backend", OK: true, Detail: app.EffectiveAPIURL()})
			}

			type resp struct {
				Checks      []check              `json:"checks"`
				Diagnostics []models.LoggedError `json:"diagnostics,omitempty"`
			}
			return output.PrintSuccess(resp{Checks: checks, Diagnostics: rt.errLog.Errors()})
		},
	}
}
