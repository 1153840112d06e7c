// Command achbook-server starts the achievements book gRPC server.
package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/and161185/achbook/internal/book"
	"github.com/and161185/achbook/internal/config"
	"github.com/and161185/achbook/internal/cooldown"
	"github.com/and161185/achbook/internal/effects"
	"github.com/and161185/achbook/internal/lang"
	"github.com/and161185/achbook/internal/migrate"
	"github.com/and161185/achbook/internal/repository/postgres"
	grpcserver "github.com/and161185/achbook/internal/server/grpc"
	"github.com/and161185/achbook/internal/service"
	"github.com/and161185/achbook/internal/storage/cooldownbolt"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, runs migrations, and starts the gRPC server.
func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	// Flags override the environment.
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	flag.StringVar(&cfg.DSN, "dsn", cfg.DSN, "PostgreSQL DSN")
	flag.StringVar(&cfg.JWTKey, "jwt-key", cfg.JWTKey, "HS256 verification key (required)")
	flag.StringVar(&cfg.TLSCert, "tls-cert", cfg.TLSCert, "TLS certificate (PEM); empty serves plaintext")
	flag.StringVar(&cfg.TLSKey, "tls-key", cfg.TLSKey, "TLS private key (PEM)")
	flag.BoolVar(&cfg.Dev, "dev", cfg.Dev, "enable server reflection (dev only)")
	flag.Parse()

	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
		zap.String("cooldownStorage", cfg.Storage),
		zap.Duration("cooldown", cfg.Cooldown()),
	)

	if cfg.JWTKey == "" {
		logger.Fatal("missing jwt signing key (--jwt-key)")
	}

	strs, err := lang.Load(cfg.LangFile)
	if err != nil {
		logger.Fatal("load lang", zap.Error(err))
	}
	fx, err := effects.NewCatalog(cfg.ServerVersion, cfg.Sound, cfg.AdditionalEffects)
	if err != nil {
		logger.Fatal("effects", zap.Error(err))
	}

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.DSN, logger); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	// DB pool
	db, err := postgres.New(ctx, cfg.DSN)
	if err != nil {
		logger.Fatal("postgres.New", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	achRepo := postgres.NewAchievementRepo(db, cfg.DateLayout)

	var store interface {
		cooldown.Store
		cooldown.Evicter
	}
	switch cfg.Storage {
	case config.StoragePostgres:
		store = cooldown.NewPGWithQuerier(db.Pool)
	case config.StorageBolt:
		bs, err := cooldownbolt.Open(cfg.BoltPath)
		if err != nil {
			logger.Fatal("open bolt", zap.Error(err))
		}
		defer bs.Close()
		store = bs
	default:
		store = cooldown.NewMemoryStore()
	}
	gate := cooldown.NewGate(store, cfg.Cooldown(), logger)
	janitor := cooldown.NewJanitor(store, gate, cfg.CooldownRetention, cfg.JanitorInterval, logger)

	// Services
	compiler := book.NewCompiler(cfg.BookSeparator, strs.BookDate)
	bookSvc := service.NewBookService(gate, achRepo, compiler, strs, fx, cfg.DateLayout, logger)

	opts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			grpcserver.RecoverUnary(logger),
			grpcserver.AuthUnary([]byte(cfg.JWTKey), logger),
			grpcserver.LoggingUnary(logger),
		),
	}
	if cfg.TLSCert != "" {
		creds, err := credentials.NewServerTLSFromFile(cfg.TLSCert, cfg.TLSKey)
		if err != nil {
			logger.Fatal("failed to load TLS cert/key", zap.Error(err))
		}
		opts = append(opts, grpc.Creds(creds))
	}
	s := grpc.NewServer(opts...)
	grpcserver.RegisterBookServiceServer(s, grpcserver.New(bookSvc))

	// Health & reflection (dev)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	if cfg.Dev {
		reflection.Register(s)
	}

	lis, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		logger.Fatal("listen", zap.Error(err))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Addr), zap.Bool("tls", cfg.TLSCert != ""))
		return s.Serve(lis)
	})
	g.Go(func() error { return janitor.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		hs.Shutdown()
		// graceful shutdown
		done := make(chan struct{})
		go func() {
			s.GracefulStop()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			s.Stop()
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
