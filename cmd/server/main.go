package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"bankbuddy/internal/assistant"
	"bankbuddy/internal/audit"
	"bankbuddy/internal/auth/pin"
	"bankbuddy/internal/auth/token"
	"bankbuddy/internal/bank/ledger"
	"bankbuddy/internal/bank/ports"
	"bankbuddy/internal/bank/service"
	accountstore "bankbuddy/internal/bank/store/account"
	fraudstore "bankbuddy/internal/bank/store/fraud"
	"bankbuddy/internal/notify"
	"bankbuddy/internal/platform/config"
	"bankbuddy/internal/platform/httpserver"
	"bankbuddy/internal/platform/logger"
	"bankbuddy/internal/platform/metrics"
	"bankbuddy/internal/platform/middleware"
	"bankbuddy/internal/platform/postgres"
	platformredis "bankbuddy/internal/platform/redis"
	httptransport "bankbuddy/internal/transport/http"
)

const (
	shutdownTimeout = 10 * time.Second
	auditBuffer     = 256
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	m := metrics.New()

	// Stores: Postgres when configured, in-memory otherwise. Memory mode is
	// seeded with demo accounts so the chat flow works out of the box.
	var accounts ports.AccountStore
	var registry ports.FraudRegistry
	var health func() error
	if cfg.DatabaseURL != "" {
		pool, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		accounts = accountstore.NewPostgres(pool)
		registry = fraudstore.NewPostgres(pool)
		health = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Ping(pingCtx)
		}
		log.Info("using postgres stores")
	} else {
		mem := accountstore.NewInMemoryStore()
		fraudMem := fraudstore.NewInMemoryStore()
		if err := seedDemoAccounts(ctx, mem, fraudMem); err != nil {
			return err
		}
		accounts = mem
		registry = fraudMem
		log.Warn("DATABASE_URL not set, using in-memory stores with demo accounts")
	}

	if cfg.Redis.URL != "" {
		cache, err := platformredis.New(cfg.Redis)
		if err != nil {
			return err
		}
		defer func() { _ = cache.Close() }()
		registry = fraudstore.NewCachedStore(registry, cache.Client, cfg.FraudCacheTTL, log)
		log.Info("fraud registry cache enabled")
	}

	// Audit trail: Kafka-backed when brokers are configured, in-memory
	// otherwise. Events flow through a buffered publisher so request paths
	// never block on the sink.
	var auditStore audit.Store
	if len(cfg.KafkaBrokers) > 0 {
		kafkaStore, err := audit.NewKafkaStore(ctx, cfg.KafkaBrokers, cfg.AuditTopic, log)
		if err != nil {
			return err
		}
		defer kafkaStore.Close()
		auditStore = kafkaStore
		log.Info("audit events publishing to kafka", "topic", cfg.AuditTopic)
	} else {
		auditStore = audit.NewInMemoryStore()
		log.Warn("KAFKA_BROKERS not set, audit events stay in process")
	}
	publisher := audit.NewChannelPublisher(auditBuffer)
	auditWorker := audit.NewWorker(auditStore, publisher.Inbox(), log)

	// Services.
	recorder := ledger.New()
	pins := pin.NewVerifier()

	transferSvc, err := service.NewTransferService(accounts, registry, pins, recorder,
		service.WithTransferLogger(log),
		service.WithTransferMetrics(m),
		service.WithTransferAudit(publisher),
	)
	if err != nil {
		return err
	}

	fraudSvc, err := service.NewFraudService(registry,
		service.WithFraudLogger(log),
		service.WithFraudMetrics(m),
		service.WithFraudAudit(publisher),
	)
	if err != nil {
		return err
	}

	accountOpts := []service.AccountOption{
		service.WithAccountLogger(log),
		service.WithAccountAudit(publisher),
	}
	if cfg.SMTPAddr != "" {
		accountOpts = append(accountOpts, service.WithAccountMailer(
			notify.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPFrom, cfg.SMTPPassword)))
	} else {
		log.Warn("SMTP_ADDR not set, statement email disabled")
	}
	accountSvc, err := service.NewAccountService(accounts, accountOpts...)
	if err != nil {
		return err
	}

	chat, err := assistant.New(assistant.NewRuleClassifier(), []assistant.Capability{
		assistant.NewTransferCapability(transferSvc),
		assistant.NewReportFraudCapability(fraudSvc),
		assistant.NewBalanceCapability(accountSvc),
		assistant.NewHistoryCapability(accountSvc),
		assistant.NewStatementCapability(accountSvc),
		assistant.NewStaticCapability(assistant.IntentLoan,
			"For loan products, please visit your nearest branch or apply on the website."),
		assistant.NewStaticCapability(assistant.IntentSupport,
			"You can reach support at 1800-000-000, any day between 9am and 9pm."),
	}, assistant.WithLogger(log))
	if err != nil {
		return err
	}

	tokens := token.NewService(cfg.JWTSigningKey, cfg.JWTIssuer)

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Logger:    log,
		Metrics:   m,
		Validator: tokenValidator{tokens: tokens},
		Handlers: []httptransport.Registrar{
			httptransport.NewChatHandler(chat, log),
			httptransport.NewTransferHandler(transferSvc, fraudSvc, log),
			httptransport.NewAccountHandler(accountSvc, log),
		},
		Health: health,
	})

	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return auditWorker.Run(groupCtx)
	})
	group.Go(func() error {
		log.Info("starting bankbuddy", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// tokenValidator adapts the token service to the middleware contract.
type tokenValidator struct {
	tokens *token.Service
}

func (v tokenValidator) Validate(tokenString string) (*middleware.IdentityClaims, error) {
	claims, err := v.tokens.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.IdentityClaims{AccountID: claims.AccountID}, nil
}
