package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/rueidis"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/Debanjan110d/DevQnA/internal/auth"
	"github.com/Debanjan110d/DevQnA/internal/blob"
	"github.com/Debanjan110d/DevQnA/internal/config"
	"github.com/Debanjan110d/DevQnA/internal/content"
	"github.com/Debanjan110d/DevQnA/internal/database"
	"github.com/Debanjan110d/DevQnA/internal/handlers"
	"github.com/Debanjan110d/DevQnA/internal/lock"
	"github.com/Debanjan110d/DevQnA/internal/logging"
	"github.com/Debanjan110d/DevQnA/internal/reputation"
	"github.com/Debanjan110d/DevQnA/internal/server"
	"github.com/Debanjan110d/DevQnA/internal/setup"
	"github.com/Debanjan110d/DevQnA/internal/store"
	"github.com/Debanjan110d/DevQnA/internal/voting"
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "devqna",
		Usage: "Developer Q&A backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: config.DefaultPath,
				Usage: "path to the TOML config file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: serve,
			},
			{
				Name:   "setup",
				Usage:  "Create the database, collections, indexes and buckets",
				Action: provision,
			},
			{
				Name:   "migrate-users",
				Usage:  "Create missing profiles for question and answer authors",
				Action: migrateUsers,
			},
		},
	}

	return app.Run(ctx, os.Args)
}

// bootstrap loads configuration and builds the root logger.
func bootstrap(c *cli.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logger, nil
}

func serve(ctx context.Context, c *cli.Command) error {
	cfg, logger, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	if err := cfg.Validate(); err != nil {
		return err
	}

	db, err := database.New(cfg.PostgreSQL, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	st := store.New(db.GetDB(), cfg.Server.PublicEndpoint, logger)

	var locker lock.Locker = lock.Noop{}
	if cfg.Redis.Addr != "" {
		client, err := rueidis.NewClient(rueidis.ClientOption{
			InitAddress: []string{cfg.Redis.Addr},
			Password:    cfg.Redis.Password,
			ClientName:  "devqna",
		})
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer client.Close()

		locker = lock.NewRedis(client, 5*time.Second, logger)
		logger.Info("Distributed locking enabled", zap.String("addr", cfg.Redis.Addr))
	}

	objects, err := blob.New(cfg.Storage)
	if err != nil {
		return err
	}

	ledger := reputation.NewLedger(st, st, locker, logger)
	policy := content.Policy{
		AnswerDelta:   cfg.Reputation.AnswerDelta,
		QuestionDelta: cfg.Reputation.QuestionDelta,
	}
	tokens := auth.NewJWT(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)

	h := handlers.NewHandler(handlers.Services{
		Store:     st,
		Questions: content.NewQuestions(st, ledger, policy, logger),
		Answers:   content.NewAnswers(st, st, ledger, policy, logger),
		Comments:  content.NewComments(st, st, logger),
		Votes:     voting.NewReconciler(st, st, ledger, locker, logger),
		Prefs:     ledger,
		Tokens:    tokens,
		Objects:   objects,
		Logger:    logger,
	})

	srv := server.New(h, tokens, db, server.Options{
		Port:        cfg.Server.Port,
		CORSOrigins: cfg.Server.CORSOrigins,
	}, logger)
	return srv.Run(ctx)
}

func provision(ctx context.Context, c *cli.Command) error {
	cfg, logger, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	if err := database.EnsureExists(ctx, cfg.PostgreSQL, logger); err != nil {
		return err
	}

	db, err := database.New(cfg.PostgreSQL, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	st := store.New(db.GetDB(), cfg.Server.PublicEndpoint, logger)
	if err := setup.New(db.GetDB(), st, logger).Run(ctx); err != nil {
		return err
	}

	objects, err := blob.New(cfg.Storage)
	if err != nil {
		return err
	}
	if err := objects.EnsureBucket(ctx); err != nil {
		return err
	}
	logger.Info("Object storage ready", zap.String("bucket", objects.BucketName()))
	return nil
}

func migrateUsers(ctx context.Context, c *cli.Command) error {
	cfg, logger, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.New(cfg.PostgreSQL, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	st := store.New(db.GetDB(), cfg.Server.PublicEndpoint, logger)
	summary, err := setup.BackfillProfiles(ctx, st, logger)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d profiles could not be created", summary.Failed, summary.Authors)
	}
	return nil
}
