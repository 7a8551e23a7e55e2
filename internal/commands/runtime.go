package commands

import (
	"log/slog"

	"github.com/arcana-app/arcana-go/internal/api"
	"github.com/arcana-app/arcana-go/internal/app"
	"github.com/arcana-app/arcana-go/internal/apperr"
	"github.com/arcana-app/arcana-go/internal/credstore"
	"github.com/arcana-app/arcana-go/internal/httpclient"
	"github.com/arcana-app/arcana-go/internal/subscription"
)

// runtime bundles the client stack a command needs. Everything is
// constructed here once per invocation and passed by reference; nothing
// is a package-level singleton.
type runtime struct {
	creds   *credstore.SQLiteStore
	session *credstore.Session
	errLog  *apperr.ErrorLog
	api     *api.Client
	subs    *subscription.Store
	poller  *subscription.Poller
}

// newRuntime opens the credential store and wires the HTTP, API, and
// subscription layers on top of it.
func newRuntime() (*runtime, error) {
	dbPath, err := app.GetCredDBPath()
	if err != nil {
		return nil, err
	}
	creds, err := credstore.Open(dbPath)
	if err != nil {
		return nil, err
	}

	session := credstore.NewSession(creds)
	errLog := apperr.NewErrorLog(apperr.DefaultLogCapacity)
	if app.DevMode() {
		errLog = errLog.WithEcho(slog.Default())
	}

	httpClient := httpclient.New(httpclient.Options{
		BaseURL: app.EffectiveAPIURL(),
		Session: session,
		Log:     errLog,
		DevMode: app.DevMode(),
		Timeout: app.EffectiveTimeout(),
	})
	apiClient := api.NewClient(httpClient)
	subs := subscription.NewStore(apiClient)

	return &runtime{
		creds:   creds,
		session: session,
		errLog:  errLog,
		api:     apiClient,
		subs:    subs,
		poller:  subscription.NewPoller(subs, slog.Default()),
	}, nil
}

// Close releases the credential store handle.
func (r *runtime) Close() error { return r.creds.Close() }
