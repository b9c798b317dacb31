package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ddmtrv/booklibrary-service/booklibrary/config"
	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/event"
	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/handler"
	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/repository"
	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/server"
	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/service"
	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/worker"
	"github.com/ddmtrv/booklibrary-service/booklibrary/migrations"
	"github.com/ddmtrv/booklibrary-service/pkg/kafka"
	"github.com/ddmtrv/booklibrary-service/pkg/logger"
	"github.com/ddmtrv/booklibrary-service/pkg/postgres"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "booklibrary")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}
	statsRepo, err := repository.NewStats(db, log)
	if err != nil {
		log.Fatal("stats repo", zap.Error(err))
	}
	outbox := repository.NewOutbox(log)

	dispatcher := event.NewDispatcher(log)
	service.NewStatChangeWatcher(outbox, log).Register(dispatcher)

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		log.Fatal("kafka.NewProducer", zap.Error(err))
	}
	statsLog := handler.NewStatsLog(producer, kafka.StatsTopic)

	svc := service.NewService(repo, statsRepo, dispatcher, statsLog, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.StatsConsumerGroup)
	if err != nil {
		log.Fatal("kafka.NewConsumer", zap.Error(err))
	}
	go func() {
		if err := kafka.Consume(ctx, consumer, handler.NewConsumer(svc.RecordStatsEvent, log), kafka.StatsTopic); err != nil && ctx.Err() == nil {
			log.Error("kafka consume", zap.Error(err))
		}
	}()

	statsWorker := worker.NewProcessor(
		repo, outbox, statsRepo, statsLog,
		cfg.Worker.BatchSize, cfg.Worker.Interval, log)
	go statsWorker.Run(ctx)

	h := handler.New(svc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, closeCancel := context.WithTimeout(context.Background(), time.Second*5)
	defer closeCancel()

	cancel()
	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	if err = consumer.Close(); err != nil {
		log.Error("consumer close", zap.Error(err))
	}
	if err = producer.Close(); err != nil {
		log.Error("producer close", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}
