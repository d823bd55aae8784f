package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/udhaar-ledger/api"
	"github.com/carson-networks/udhaar-ledger/internal/cloudsync"
	"github.com/carson-networks/udhaar-ledger/internal/config"
	"github.com/carson-networks/udhaar-ledger/internal/jobs"
	"github.com/carson-networks/udhaar-ledger/internal/logging"
	"github.com/carson-networks/udhaar-ledger/internal/operator"
	"github.com/carson-networks/udhaar-ledger/internal/service"
	"github.com/carson-networks/udhaar-ledger/internal/storage"
)

func main() {
	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	logger := logging.SetupLogging(envConfig.LogLevel)
	logrus.WithField("storage", envConfig.StorageBackend).Info("udhaar-ledger starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := storage.OpenBackend(ctx, envConfig)
	if err != nil {
		logrus.WithError(err).Fatal("storage.OpenBackend")
		return
	}
	dbStorage := storage.NewStorage(backend)
	defer dbStorage.Close()

	delegator := operator.NewOperatorDelegator(dbStorage, 1)
	delegator.Start()
	defer delegator.Stop()

	svc := service.NewService(dbStorage, delegator, service.Options{
		ImportRecompute: envConfig.ImportRecompute,
	})

	var syncer *cloudsync.Syncer
	if envConfig.MongoURI != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		remote, err := cloudsync.ConnectMongo(connectCtx, envConfig.MongoURI, envConfig.MongoDB, envConfig.SyncKey)
		cancel()
		if err != nil {
			logrus.WithError(err).Fatal("cloudsync.ConnectMongo")
			return
		}
		defer remote.Close(context.Background())

		syncer = cloudsync.NewSyncer(remote, svc.Snapshots, svc.Snapshots, envConfig.SyncDebounce, logger)
		if err := syncer.PullAndRestore(ctx); err != nil {
			logrus.WithError(err).Error("cloudsync.PullAndRestore")
		}
		svc.Subscribe(syncer)
	}

	overdueAfter := time.Duration(envConfig.OverdueDays) * 24 * time.Hour

	var notifier jobs.Notifier = jobs.LogNotifier{}
	if envConfig.TwilioEnabled() {
		notifier = jobs.NewTwilioNotifier(
			envConfig.TwilioAccountSID,
			envConfig.TwilioAuthToken,
			envConfig.TwilioPhoneNumber,
			envConfig.TwilioWhatsAppNumber,
		)
	}

	scheduler := jobs.NewScheduler(logger)
	if err := scheduler.Add(envConfig.BackupSchedule, &jobs.BackupJob{Exporter: svc.Snapshots, Dir: envConfig.BackupDir}); err != nil {
		logrus.WithError(err).Fatal("scheduler.Add.Backup")
		return
	}
	reminders := &jobs.ReminderJob{Customers: svc.Customers, Notifier: notifier, OverdueAfter: overdueAfter}
	if err := scheduler.Add(envConfig.ReminderSchedule, reminders); err != nil {
		logrus.WithError(err).Fatal("scheduler.Add.Reminder")
		return
	}
	scheduler.Start()

	httpRest := &api.Rest{
		Logger:         logger,
		Port:           envConfig.HTTPPort,
		AllowedOrigins: envConfig.AllowedOrigins,
		OverdueAfter:   overdueAfter,
		Storage:        dbStorage,
		Service:        svc,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		httpRest.Serve()
	}()

	select {
	case <-ctx.Done():
	case <-done:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpRest.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("HttpServer.Shutdown")
	}
	<-done
	scheduler.Stop()
	if syncer != nil {
		if err := syncer.Flush(shutdownCtx); err != nil {
			logrus.WithError(err).Error("cloudsync.Flush")
		}
	}
	logrus.Info("udhaar-ledger stopped")
}
