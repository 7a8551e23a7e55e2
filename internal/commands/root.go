package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/arcana-app/arcana-go/internal/app"
	"github.com/arcana-app/arcana-go/internal/i18n"
	"github.com/arcana-app/arcana-go/internal/output"
)

// Execute runs the CLI application.
func Execute(version string) error {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	root := &cobra.Command{
		Use:           "arcana",
		Short:         "Arcana client diagnostics (session, subscription, checkout)",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			showVersion, _ := cmd.Flags().GetBool("version")
			if showVersion {
				type resp struct {
					Version string `json:"version"`
				}
				return output.PrintSuccess(resp{Version: version})
			}
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.EnsureConfigDir(); err != nil {
				return err
			}

			if apiURL, err := cmd.Flags().GetString("api-url"); err == nil && apiURL != "" {
				app.SetAPIURLOverride(apiURL)
			}
			if credDB, err := cmd.Flags().GetString("cred-db"); err == nil && credDB != "" {
				app.SetCredDBOverride(credDB)
			}
			if s, err := app.LoadSettings(); err == nil && s.Locale != "" {
				i18n.SetLocale(s.Locale)
			}
			return nil
		},
	}

	root.PersistentFlags().String("api-url", "", "Override backend base URL")
	root.PersistentFlags().String("cred-db", "", "Override credential database path")
	root.Flags().BoolP("version", "v", false, "version for arcana")

	root.AddCommand(NewLoginCmd())
	root.AddCommand(NewLogoutCmd())
	root.AddCommand(NewStatusCmd())
	root.AddCommand(NewCheckoutCmd())
	root.AddCommand(NewLimitsCmd())
	root.AddCommand(NewErrorsCmd())
	root.AddCommand(NewDoctorCmd())

	err := root.Execute()
	if err != nil {
		slog.Error("command failed", "error", err.Error())
	}
	return err
}
