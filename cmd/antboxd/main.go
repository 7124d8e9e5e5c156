// Command antboxd is Antbox's server process: it wires the repository,
// storage, event bus, config, event-store, and workflow ports together
// behind the HTTP front door: cobra command, viper-backed
// configuration, service construction, graceful shutdown on
// SIGINT/SIGTERM.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/antbox/antbox/internal/authctx"
	"github.com/antbox/antbox/internal/configrepo"
	"github.com/antbox/antbox/internal/configrepo/boltconfig"
	"github.com/antbox/antbox/internal/configrepo/memconfig"
	"github.com/antbox/antbox/internal/eventbus"
	"github.com/antbox/antbox/internal/eventbus/redisbus"
	"github.com/antbox/antbox/internal/eventstore"
	eventstorecouch "github.com/antbox/antbox/internal/eventstore/couchdb"
	eventstoremem "github.com/antbox/antbox/internal/eventstore/memstore"
	"github.com/antbox/antbox/internal/nodeservice"
	"github.com/antbox/antbox/internal/obslog"
	"github.com/antbox/antbox/internal/repository"
	"github.com/antbox/antbox/internal/repository/couchdb"
	"github.com/antbox/antbox/internal/repository/memrepo"
	repomongo "github.com/antbox/antbox/internal/repository/mongo"
	repopostgres "github.com/antbox/antbox/internal/repository/postgres"
	"github.com/antbox/antbox/internal/storage"
	"github.com/antbox/antbox/internal/storage/boltstore"
	"github.com/antbox/antbox/internal/storage/memstore"
	"github.com/antbox/antbox/internal/storage/s3store"
	"github.com/antbox/antbox/internal/svcconfig"
	httptransport "github.com/antbox/antbox/internal/transport/http"
	"github.com/antbox/antbox/internal/workflow"
	"github.com/antbox/antbox/internal/workflow/meminstances"
)

var cfgFile string

func main() {
	root := &cobra.Command{
		Use:   "antboxd",
		Short: "Antbox ECM engine server",
		Long: `antboxd serves Antbox's node graph over an HTTP/JSON API.

Configuration is read from a YAML file (--config), environment variables
prefixed ANTBOX_, and command-line flags, in increasing precedence.`,
		RunE: runServer,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (YAML)")
	svcconfig.BindFlags(root, viper.GetViper())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := svcconfig.Load(viper.GetViper(), cfgFile)
	if err != nil {
		return fmt.Errorf("antboxd: loading config: %w", err)
	}

	logger := obslog.New(obslog.Config{
		Level: obslog.Level(cfg.Logging.Level), Format: cfg.Logging.Format,
	})
	log := obslog.For(logger, "antboxd")

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	repo, err := buildRepository(ctx, cfg.Repository)
	if err != nil {
		return fmt.Errorf("antboxd: building repository: %w", err)
	}
	store, err := buildStorage(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("antboxd: building storage: %w", err)
	}
	bus, err := buildEventBus(ctx, cfg.Events, func(e error) { log.WithError(e).Error("event bus publish failed") })
	if err != nil {
		return fmt.Errorf("antboxd: building event bus: %w", err)
	}
	settings, err := buildConfigRepo(cfg.Storage)
	if err != nil {
		return fmt.Errorf("antboxd: building config repository: %w", err)
	}
	if perr := settings.Put("tenant", cfg.Tenant); perr != nil {
		return fmt.Errorf("antboxd: recording tenant setting: %w", perr)
	}

	events, err := buildEventStore(ctx, cfg.Repository)
	if err != nil {
		return fmt.Errorf("antboxd: building event store: %w", err)
	}

	nodes := nodeservice.New(repo, store, bus)

	tokens := authctx.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry)

	// Actions records every workflow action the engine runs (onEnter,
	// onExit and transition actions) in the append-only event store as an
	// audit trail.
	engine := &workflow.Engine{
		Nodes:     nodes,
		Instances: meminstances.New(),
		Actions: func(ctx context.Context, action string, inst *workflow.Instance) error {
			_, err := events.Append(ctx, inst.UUID, "workflow/action", map[string]any{"action": action})
			return err
		},
	}
	srv := httptransport.New(httptransport.Config{
		Port: cfg.Server.Port, Debug: cfg.Server.Debug, BodyLimit: cfg.Server.BodyLimit,
		AllowedOrigins: cfg.Server.AllowedOrigins, RateLimit: cfg.Server.RateLimit,
	}, nodes, tokens)
	srv.RegisterWorkflows(engine)
	log.Info("workflow engine initialized")

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Server.Port).Info("antboxd listening")
		errCh <- srv.Start(ctx, cfg.Server.Port)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Echo.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("graceful shutdown failed")
			return err
		}
		return nil
	case err := <-errCh:
		return err
	}
}

func buildRepository(ctx context.Context, cfg svcconfig.Repository) (repository.Repository, error) {
	switch cfg.Backend {
	case "", "mem":
		return memrepo.New(), nil
	case "couchdb":
		return couchdb.New(ctx, cfg.URL, cfg.Database)
	case "postgres":
		db, err := gorm.Open(gormpostgres.Open(cfg.URL), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("postgres connect: %w", err)
		}
		return repopostgres.New(db), nil
	case "mongo":
		client, err := mongodriver.Connect(ctx, mongooptions.Client().ApplyURI(cfg.URL))
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}
		coll := client.Database(cfg.Database).Collection("nodes")
		return repomongo.New(coll), nil
	default:
		return nil, fmt.Errorf("unknown repository backend %q", cfg.Backend)
	}
}

func buildStorage(ctx context.Context, cfg svcconfig.Storage) (storage.Storage, error) {
	switch cfg.Backend {
	case "", "mem":
		return memstore.New(), nil
	case "bolt":
		return boltstore.Open(cfg.Path)
	case "s3":
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("s3 storage requires a bucket")
		}
		var opts []func(*awsconfig.LoadOptions) error
		if cfg.Region != "" {
			opts = append(opts, awsconfig.WithRegion(cfg.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("s3 aws config: %w", err)
		}
		return s3store.New(awss3.NewFromConfig(awsCfg), cfg.Bucket), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// redisPublisher adapts redisbus.Bus's fallible, context-taking Publish
// to the fire-and-forget nodeservice.Publisher shape, logging failures
// since the kernel's own Publish has no error channel to report through.
type redisPublisher struct {
	bus *redisbus.Bus
	log func(err error)
}

func (p redisPublisher) Publish(env eventbus.Envelope) {
	if err := p.bus.Publish(context.Background(), env); err != nil && p.log != nil {
		p.log(err)
	}
}

func buildEventBus(ctx context.Context, cfg svcconfig.Events, onError func(error)) (nodeservice.Publisher, error) {
	local := eventbus.New()
	switch cfg.Backend {
	case "", "mem":
		return local, nil
	case "redis":
		bus, err := redisbus.New(ctx, redisbus.Config{RedisURL: cfg.Addr}, local)
		if err != nil {
			return nil, err
		}
		return redisPublisher{bus: bus, log: onError}, nil
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
}

func buildConfigRepo(cfg svcconfig.Storage) (configrepo.Repository, error) {
	if cfg.Backend == "bolt" {
		return boltconfig.Open(cfg.Path)
	}
	return memconfig.New(), nil
}

func buildEventStore(ctx context.Context, cfg svcconfig.Repository) (eventstore.Store, error) {
	if cfg.Backend == "couchdb" {
		return eventstorecouch.New(ctx, cfg.URL, cfg.Database+"_events")
	}
	return eventstoremem.New(), nil
}
