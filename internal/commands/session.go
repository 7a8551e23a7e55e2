package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/arcana-app/arcana-go/internal/output"
)

// NewLoginCmd stores a bearer token in the local credential store.
func NewLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a bearer token for subsequent commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, _ := cmd.Flags().GetString("token")
			if token == "" {
				return fmt.Errorf("--token is required")
			}

			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			ctx := cmd.Context()
			if err := rt.session.SetToken(ctx, token); err != nil {
				return output.PrintError(err)
			}

			type resp struct {
				LoggedIn bool `json:"logged_in"`
				Expired  bool `json:"token_expired"`
			}
			return output.PrintSuccess(resp{
				LoggedIn: true,
				Expired:  rt.session.TokenExpired(ctx, time.Now()),
			})
		},
	}
	cmd.Flags().String("token", "", "Bearer token issued by the backend")
	return cmd
}

// NewLogoutCmd clears the local session.
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session (token, login flag, cached user)",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			if err := rt.session.Clear(cmd.Context()); err != nil {
				return output.PrintError(err)
			}
			type resp struct {
				LoggedIn bool `json:"logged_in"`
			}
			return output.PrintSuccess(resp{LoggedIn: false})
		},
	}
}
