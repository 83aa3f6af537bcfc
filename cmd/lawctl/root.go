package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/advocatechambers/lawsite/internal/app/bootstrap"
	contentstore "github.com/advocatechambers/lawsite/internal/app/store/content"
	"github.com/advocatechambers/lawsite/internal/app/system/contentsync"
	"github.com/advocatechambers/lawsite/internal/app/system/normalize"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// readyTimeout bounds how long commands wait for the content tree.
const readyTimeout = 15 * time.Second

// app holds the connections a command opened. Connections are made on
// first use so commands that only need content can run against the
// memory feed without a database.
type app struct {
	cfg     bootstrap.AppConfig
	verbose bool
	logger  *zap.Logger

	client *mongo.Client
	db     *mongo.Database
	rdb    *redis.Client
	feed   contentstore.Feed
	svc    *contentsync.Service
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "lawctl",
		Short: "operator tool for the firm website",
		Example: `lawctl seed
lawctl content show hero
lawctl reset-content --yes
lawctl inquiries list --status pending
lawctl inquiries advance <id>
LAWSITE_ADMIN_PASSWORD=... lawctl admin set-password admin@firm.example`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env is fine; the environment may be set directly.
			_ = godotenv.Load()
			applyEnv(cmd.Flags())
			a.cfg.ContentFeed = normalize.Keyword(a.cfg.ContentFeed)
			if a.verbose {
				logger, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				a.logger = logger
			} else {
				a.logger = zap.NewNop()
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.cfg.MongoURI, "mongo_uri", "mongodb://localhost:27017", "MongoDB connection URI")
	f.StringVar(&a.cfg.MongoDatabase, "mongo_database", "lawsite", "MongoDB database name")
	f.StringVar(&a.cfg.ContentFeed, "content_feed", bootstrap.FeedChangeStream, "content feed: changestream, redis or memory")
	f.StringVar(&a.cfg.RedisURL, "redis_url", "", "Redis URL (required for the redis feed)")
	f.BoolVarP(&a.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(seedCmd(a))
	root.AddCommand(resetContentCmd(a))
	root.AddCommand(contentCmd(a))
	root.AddCommand(inquiriesCmd(a))
	root.AddCommand(adminCmd(a))

	root.CompletionOptions.HiddenDefaultCmd = true
	return root
}

// applyEnv fills flags the user did not pass from LAWSITE_<NAME>, the same
// variables the server reads.
func applyEnv(flags *pflag.FlagSet) {
	flags.VisitAll(func(fl *pflag.Flag) {
		if fl.Changed {
			return
		}
		if v, ok := os.LookupEnv(envName(fl.Name)); ok {
			_ = fl.Value.Set(v)
		}
	})
}

func envName(flag string) string {
	return bootstrap.EnvVarPrefix + "_" + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

func (a *app) database(ctx context.Context) (*mongo.Database, error) {
	if a.db != nil {
		return a.db, nil
	}
	client, db, err := bootstrap.ConnectMongo(ctx, a.cfg, a.logger)
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	a.client, a.db = client, db
	return db, nil
}

func (a *app) contentFeed(ctx context.Context) (contentstore.Feed, error) {
	if a.feed != nil {
		return a.feed, nil
	}
	var db *mongo.Database
	if a.cfg.ContentFeed != bootstrap.FeedMemory {
		var err error
		if db, err = a.database(ctx); err != nil {
			return nil, err
		}
	}
	if a.cfg.RedisURL != "" && a.rdb == nil {
		rdb, err := bootstrap.ConnectRedis(ctx, a.cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		a.rdb = rdb
	}
	feed, err := bootstrap.NewContentFeed(a.cfg, db, a.rdb, a.logger)
	if err != nil {
		return nil, err
	}
	a.feed = feed
	return feed, nil
}

// content starts a sync service and waits until every section has loaded.
func (a *app) content(ctx context.Context) (*contentsync.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	feed, err := a.contentFeed(ctx)
	if err != nil {
		return nil, err
	}
	svc := contentsync.New(feed, a.logger)
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	a.svc = svc

	waitCtx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()
	if err := svc.WaitReady(waitCtx); err != nil {
		return nil, fmt.Errorf("content did not load: %w", err)
	}
	return svc, nil
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if a.svc != nil {
		a.svc.Stop()
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.client != nil {
		_ = a.client.Disconnect(ctx)
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
