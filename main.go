package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/carson-networks/ledger-server/api"
	"github.com/carson-networks/ledger-server/internal/config"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/notify"
	"github.com/carson-networks/ledger-server/internal/operator"
	"github.com/carson-networks/ledger-server/internal/rollover"
	"github.com/carson-networks/ledger-server/internal/service"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/memstore"
)

func main() {
	logger := logging.SetupLogging()
	logger.Info("ledger-server starting")

	_ = godotenv.Load()

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logger.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	var store storage.Store
	switch envConfig.StorageBackend {
	case "memory":
		store = memstore.New()
		logger.Info("storage.memory backend selected")
	default:
		sqlStore, err := storage.NewStorage(envConfig)
		if err != nil {
			logger.WithError(err).Fatal("storage.NewStorage")
			return
		}
		store = sqlStore
	}

	manager := notify.NewManager(logger)
	broadcaster := notify.Multi{manager}
	if envConfig.AMQPAddress != "" {
		publisher, err := notify.NewPublisher(envConfig.AMQPAddress, envConfig.AMQPExchange, envConfig.AMQPQueue, logger)
		if err != nil {
			logger.WithError(err).Fatal("notify.NewPublisher")
			return
		}
		defer publisher.Close()
		broadcaster = append(broadcaster, publisher)
	}

	engine := rollover.NewEngine(store, broadcaster, logger)

	// One worker: mutations and chain walks must not interleave.
	delegator := operator.NewOperatorDelegator(store, 1)
	delegator.Start()
	defer delegator.Stop()

	svc := service.NewService(store, delegator, engine, logger)

	go func() {
		httpRest := api.Rest{
			Logger:   logger,
			Port:     envConfig.Port,
			Service:  svc,
			Operator: delegator,
			Notify:   manager,
		}
		httpRest.Serve()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("ledger-server shutting down")
}
