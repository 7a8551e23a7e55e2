package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/arcana-app/arcana-go/internal/app"
	"github.com/arcana-app/arcana-go/internal/apperr"
	"github.com/arcana-app/arcana-go/internal/models"
	"github.com/arcana-app/arcana-go/internal/output"
	"github.com/arcana-app/arcana-go/internal/payment"
)

// NewCheckoutCmd runs the full checkout workflow against the configured
// backend with the headless Stripe capture adapter. Test mode only.
func NewCheckoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Run a test-mode checkout for a package",
		RunE: func(cmd *cobra.Command, args []string) error {
			packageID, _ := cmd.Flags().GetString("package")
			priceID, _ := cmd.Flags().GetString("price")
			if packageID == "" || priceID == "" {
				return fmt.Errorf("--package and --price are required")
			}

			stripeKey, paymentMethod := app.StripeConfig()
			if stripeKey == "" {
				return fmt.Errorf("stripe key not configured (set ARCANA_STRIPE_KEY or stripe_key in config.yaml)")
			}

			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			capture := payment.NewStripeCapture(stripeKey, paymentMethod)
			processor := payment.NewProcessor(rt.api, capture, rt.poller, rt.errLog, slog.Default())
			processor.OnProcessing = func() {
				slog.Info("payment captured, waiting for subscription to activate")
			}

			outcome := processor.Process(cmd.Context(), packageID, priceID)

			type resp struct {
				Outcome     models.PaymentOutcome `json:"outcome"`
				Notice      *apperr.Notice        `json:"notice,omitempty"`
				Diagnostics []models.LoggedError  `json:"diagnostics,omitempty"`
			}
			r := resp{Outcome: outcome}
			if verbose, _ := cmd.Flags().GetBool("diagnostics"); verbose {
				r.Diagnostics = rt.errLog.Errors()
			}
			if outcome.State == models.PaymentStateFailed {
				// The notice is what a UI surface would render for this
				// failure: toast or blocking alert, retry offered or not.
				notice := apperr.NoticeFor(outcome.Err)
				r.Notice = &notice
				return output.Print(output.Response{
					SchemaVersion: "v1",
					Success:       false,
					Data:          r,
					Error:         outcome.Message,
				})
			}
			return output.PrintSuccess(r)
		},
	}
	cmd.Flags().String("package", "", "Package id to purchase (e.g. pkg_yearly)")
	cmd.Flags().String("price", "", "Price id for the package")
	cmd.Flags().Bool("diagnostics", false, "Include captured error diagnostics in output")
	return cmd
}
