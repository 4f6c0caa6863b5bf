package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	mqcontracts "github.com/coffeeassessoria/sparkboard-automation/contracts/mq"
	"github.com/coffeeassessoria/sparkboard-automation/internal/automation"
	"github.com/coffeeassessoria/sparkboard-automation/internal/config"
	"github.com/coffeeassessoria/sparkboard-automation/internal/effects"
	"github.com/coffeeassessoria/sparkboard-automation/internal/handler"
	"github.com/coffeeassessoria/sparkboard-automation/internal/httpserver"
	"github.com/coffeeassessoria/sparkboard-automation/internal/model"
	"github.com/coffeeassessoria/sparkboard-automation/internal/mqhandler"
	"github.com/coffeeassessoria/sparkboard-automation/internal/repository"
	"github.com/coffeeassessoria/sparkboard-automation/internal/scheduler"
	"github.com/coffeeassessoria/sparkboard-automation/internal/service"
	"github.com/coffeeassessoria/sparkboard-automation/internal/store"
	"github.com/coffeeassessoria/sparkboard-automation/pkg/db"
	"github.com/coffeeassessoria/sparkboard-automation/pkg/logger"
	"github.com/coffeeassessoria/sparkboard-automation/pkg/mq"
	"github.com/coffeeassessoria/sparkboard-automation/pkg/redis"
	"github.com/coffeeassessoria/sparkboard-automation/pkg/util"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting automation-service...",
		zap.String("db_host", cfg.DB.Host),
		zap.String("mq_url", cfg.MQ.URL),
		zap.String("redis_addr", cfg.Redis.Addr),
	)

	// Persistence is optional: without a configured db host the service runs
	// on in-memory stores, which is how it embeds into local dev setups.
	var (
		dbConn *pgxpool.Pool
		rules  store.RuleStore
		sink   store.NotificationSink
	)
	if cfg.DB.Host != "" {
		conn, err := db.NewConnection(cfg.DB, log)
		if err != nil {
			log.Fatal("Failed to init DB", zap.Error(err))
		}
		dbConn = conn
		defer dbConn.Close()

		rules = repository.NewRuleRepository(dbConn, log)
		sink = repository.NewNotificationRepository(dbConn, log)
	} else {
		log.Info("No db host configured, using in-memory stores")
		rules = store.NewMemoryRuleStore()
		sink = store.NewMemoryNotificationSink()
	}

	if cfg.Automation.SeedDefaultRules {
		seedDefaultRules(rules, log)
	}

	// MQ Publisher (effect events + notification fan-out)
	var publisher *mq.Publisher
	var fx effects.Effects
	if cfg.MQ.URL != "" {
		p, err := mq.NewPublisher(cfg.MQ.URL)
		if err != nil {
			log.Fatal("Failed to init MQ publisher", zap.Error(err))
		}
		publisher = p
		defer publisher.Close()
		fx = effects.NewMQEffects(publisher, log)
	} else {
		log.Info("No MQ url configured, task effects will only be logged")
		fx = effects.NewLogEffects(log)
	}

	// Redis (event dedup + retry counting)
	var deduper mqhandler.EventDeduper
	var retryCounter *util.RetryCounter
	if cfg.Redis.Addr != "" {
		rdb := redis.NewRedisClient(cfg.Redis)
		defer rdb.Close()
		deduper = util.NewDeduper(rdb, cfg.Automation.DedupTTL, log)
		retryCounter = util.NewRetryCounter(rdb, cfg.Automation.RetryTTL)
	} else {
		log.Info("No redis addr configured, event dedup disabled")
	}

	// Engine
	opts := []automation.Option{}
	if cfg.TaskService.URL != "" {
		opts = append(opts, automation.WithTaskSource(service.NewTaskClient(cfg.TaskService.URL)))
	} else {
		log.Info("No task service url configured, due-date checks disabled")
	}
	engine := automation.NewEngine(rules, sink, fx, log, opts...)

	// Fan notifications out to the rest of the system.
	if publisher != nil {
		engine.Subscribe(func(n model.Notification) {
			payload := mqcontracts.NotificationCreatedPayload{
				NotificationID: n.ID,
				Type:           string(n.Type),
				Title:          n.Title,
				Message:        n.Message,
				TaskID:         n.TaskID,
				RuleID:         n.RuleID,
				CreatedAt:      n.CreatedAt,
			}
			if err := publisher.Publish(mqcontracts.RoutingKeyNotificationCreated, payload); err != nil {
				log.Error("Failed to publish notification.created",
					zap.String("notification_id", n.ID),
					zap.Error(err),
				)
			}
		})
	}

	// MQ Consumers for task lifecycle events
	var consumers []*mq.Consumer
	if cfg.MQ.URL != "" {
		var dlq mqhandler.DLQPublisher
		if publisher != nil {
			dlq = publisher
		}

		createdHandler := mqhandler.NewTaskCreatedHandler(engine, deduper, retryCounter, dlq, log)
		updatedHandler := mqhandler.NewTaskUpdatedHandler(engine, deduper, retryCounter, dlq, log)

		for _, c := range []struct {
			queue      string
			routingKey string
			handler    mq.MessageHandler
		}{
			{"task.created.q", mqcontracts.RoutingKeyTaskCreated, createdHandler.Handle},
			{"task.updated.q", mqcontracts.RoutingKeyTaskUpdated, updatedHandler.Handle},
		} {
			consumer, err := mq.NewConsumer(cfg.MQ.URL, c.queue, c.routingKey, log)
			if err != nil {
				log.Fatal("Failed to init consumer",
					zap.String("queue", c.queue),
					zap.Error(err),
				)
			}
			consumer.SetHandler(c.handler)
			consumers = append(consumers, consumer)

			go func(consumer *mq.Consumer, queue string) {
				if err := consumer.StartConsuming(); err != nil {
					log.Fatal("Consumer failed", zap.String("queue", queue), zap.Error(err))
				}
			}(consumer, c.queue)
		}
	}

	// Due-date scheduler
	sched := scheduler.New(engine, cfg.Automation.DueDateCheckInterval, log)
	if err := sched.Start(); err != nil {
		log.Fatal("Failed to start scheduler", zap.Error(err))
	}

	// HTTP Server
	ruleHandler := handler.NewRuleHandler(rules, log)
	notificationHandler := handler.NewNotificationHandler(sink, log)
	var readyConsumer *mq.Consumer
	if len(consumers) > 0 {
		readyConsumer = consumers[0]
	}
	router := httpserver.NewRouter(ruleHandler, notificationHandler, log, dbConn, readyConsumer)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	log.Info("automation-service is fully initialized and running")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down automation-service gracefully...")

	for _, consumer := range consumers {
		consumer.Close()
	}
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	log.Info("automation-service shutdown complete")
}

// seedDefaultRules installs the stock rules on a first run. An already
// populated store is left alone so operator edits survive restarts.
func seedDefaultRules(rules store.RuleStore, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	existing, err := rules.List(ctx)
	if err != nil {
		log.Error("Failed to check rule store before seeding", zap.Error(err))
		return
	}
	if len(existing) > 0 {
		return
	}

	for _, rule := range automation.DefaultRules() {
		if _, err := rules.Add(ctx, rule); err != nil {
			log.Error("Failed to seed default rule",
				zap.String("rule_name", rule.Name),
				zap.Error(err),
			)
		}
	}
	log.Info("Seeded default automation rules", zap.Int("count", len(automation.DefaultRules())))
}
