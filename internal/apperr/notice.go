package apperr

import (
	"github.com/arcana-app/arcana-go/internal/i18n"
	"github.com/arcana-app/arcana-go/internal/models"
)

// Notice is the title+message pair a UI surface renders for a handled
// error. Blocking selects an alert over a toast; Retryable tells the
// surface whether to offer a retry action wired to the original operation.
type Notice struct {
	Title     string `json:"title"`
	Message   string `json:"message"`
	Blocking  bool   `json:"blocking"`
	Retryable bool   `json:"retryable"`
}

// NoticeFor maps a normalized error to its presentation. Low/Medium
// severity renders as a toast, High/Critical as a blocking alert.
func NoticeFor(app *models.AppError) Notice {
	if app == nil {
		return Notice{
			Title:   i18n.T("alerts.error_title", nil),
			Message: i18n.T("errors.unknown", nil),
		}
	}
	return Notice{
		Title:     i18n.T("alerts.error_title", nil),
		Message:   app.Message,
		Blocking:  app.Severity.IsBlocking(),
		Retryable: app.Retryable,
	}
}
