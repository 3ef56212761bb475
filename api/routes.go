package api

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/account"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/budget"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/events"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/party"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/rolloverapi"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/status"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/transaction"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/notify"
	"github.com/carson-networks/ledger-server/internal/operator"
	"github.com/carson-networks/ledger-server/internal/service"
)

type Rest struct {
	Logger   *logrus.Logger
	Port     string
	Service  *service.Service
	Operator *operator.OperatorDelegator
	Notify   *notify.Manager
}

// registrar is anything that can attach itself to the Huma API.
type registrar interface {
	Register(api huma.API)
}

func (r *Rest) Serve() {
	mux := http.NewServeMux()

	humaAPI := humago.New(mux, huma.DefaultConfig("Ledger Server", "1.0.0"))
	humaAPI.UseMiddleware(r.logDataMiddleware)

	handlers := []registrar{
		party.NewCreatePartyHandler(r.Service.Registry),
		party.NewGetPartyHandler(r.Service.Registry),
		account.NewCreateAccountHandler(r.Service.Registry),
		account.NewGetAccountHandler(r.Service.Registry),
		account.NewListAccountsHandler(r.Service.Registry),
		transaction.NewRecordTransactionHandler(r.Service.Ledger),
		transaction.NewGetTransactionHandler(r.Service.Ledger),
		transaction.NewListTransactionsHandler(r.Service.Ledger),
		transaction.NewUpdateTransactionHandler(r.Service.Ledger),
		transaction.NewDeleteTransactionHandler(r.Service.Ledger),
		budget.NewCreateBudgetHandler(r.Service.Budget),
		budget.NewCopyBudgetHandler(r.Service.Budget),
		budget.NewGetBudgetStatusHandler(r.Service.Budget),
		budget.NewUpdateCategoryBudgetHandler(r.Service.Budget),
		rolloverapi.NewRecalculateHandler(r.Service.Budget),
		rolloverapi.NewGetRolloverStatusHandler(r.Service.Budget),
		rolloverapi.NewListCalculationsHandler(r.Service.Budget),
	}
	for _, h := range handlers {
		h.Register(humaAPI)
	}

	statusHandler := status.NewHandler(r.Operator)
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	eventsHandler := events.NewHandler(r.Notify)
	mux.HandleFunc("/v1/events", logging.LoggingWrapper("Events", r.Logger, eventsHandler.Handler))

	server := http.Server{
		Addr:    ":" + r.Port,
		Handler: mux,
		// No WriteTimeout: the events endpoint holds SSE streams open.
		ReadTimeout:       time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	r.Logger.Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
}

// logDataMiddleware gives each request its own LogData and emits one summary
// line when the handler completes.
func (r *Rest) logDataMiddleware(ctx huma.Context, next func(huma.Context)) {
	logData := logging.NewLogData(r.Logger)
	r.Logger.Infof("Handler.%v.Start", ctx.Operation().OperationID)

	endTimer := logData.AddTiming("duration")
	next(huma.WithValue(ctx, logging.LogDataKey{}, logData))
	endTimer()

	logData.Log().Infof("Handler.%v.Complete", ctx.Operation().OperationID)
}
