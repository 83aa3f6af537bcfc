// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	contentstore "github.com/advocatechambers/lawsite/internal/app/store/content"
	"github.com/advocatechambers/lawsite/internal/app/system/contentsync"
	"github.com/advocatechambers/lawsite/internal/app/system/indexes"
	"github.com/advocatechambers/lawsite/internal/app/system/mailer"
	"github.com/advocatechambers/lawsite/internal/app/system/seeding"
	"github.com/advocatechambers/lawsite/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ConnectDB connects to MongoDB and the optional backends, and builds the
// content sync service. The service is started in Startup, once the
// content collection has been seeded.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	client, db, err := ConnectMongo(ctx, appCfg, logger)
	if err != nil {
		return DBDeps{}, err
	}
	deps := DBDeps{MongoClient: client, MongoDatabase: db}

	if appCfg.RedisURL != "" {
		deps.Redis, err = ConnectRedis(ctx, appCfg.RedisURL)
		if err != nil {
			_ = client.Disconnect(ctx)
			return DBDeps{}, err
		}
		logger.Info("connected to Redis")
	}

	deps.ContentFeed, err = NewContentFeed(appCfg, db, deps.Redis, logger)
	if err != nil {
		closeDeps(ctx, deps)
		return DBDeps{}, err
	}
	deps.Content = contentsync.New(deps.ContentFeed, logger.Named("contentsync"))
	logger.Info("content feed selected", zap.String("content_feed", appCfg.ContentFeed))

	deps.FileStorage, err = newFileStorage(ctx, appCfg, logger)
	if err != nil {
		closeDeps(ctx, deps)
		return DBDeps{}, err
	}

	// Initialize email mailer
	deps.Mailer = mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		User:     appCfg.MailSMTPUser,
		Pass:     appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
		FromName: appCfg.MailFromName,
	}, logger)
	logger.Info("initialized email mailer",
		zap.String("host", appCfg.MailSMTPHost),
		zap.Int("port", appCfg.MailSMTPPort),
		zap.Bool("enabled", deps.Mailer.Enabled()),
	)

	return deps, nil
}

// ConnectMongo opens the MongoDB pool described by appCfg.
func ConnectMongo(ctx context.Context, appCfg AppConfig, logger *zap.Logger) (*mongo.Client, *mongo.Database, error) {
	poolCfg := wafflemongo.DefaultPoolConfig()
	if appCfg.MongoMaxPoolSize > 0 {
		poolCfg.MaxPoolSize = appCfg.MongoMaxPoolSize
	}
	if appCfg.MongoMinPoolSize > 0 {
		poolCfg.MinPoolSize = appCfg.MongoMinPoolSize
	}

	client, err := wafflemongo.ConnectWithPool(ctx, appCfg.MongoURI, appCfg.MongoDatabase, poolCfg)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool_size", poolCfg.MaxPoolSize),
		zap.Uint64("min_pool_size", poolCfg.MinPoolSize),
	)
	return client, client.Database(appCfg.MongoDatabase), nil
}

// ConnectRedis parses url and checks the server answers.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return rdb, nil
}

// NewContentFeed picks the content backend named by appCfg.ContentFeed.
func NewContentFeed(appCfg AppConfig, db *mongo.Database, rdb *redis.Client, logger *zap.Logger) (contentstore.Feed, error) {
	switch appCfg.ContentFeed {
	case FeedChangeStream, "":
		return contentstore.New(db), nil
	case FeedRedis:
		if rdb == nil {
			return nil, fmt.Errorf("content_feed %q requires redis_url", FeedRedis)
		}
		return contentstore.NewRedisFeed(contentstore.New(db), rdb, logger.Named("contentfeed")), nil
	case FeedMemory:
		return contentstore.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown content_feed %q", appCfg.ContentFeed)
	}
}

func newFileStorage(ctx context.Context, appCfg AppConfig, logger *zap.Logger) (storage.Store, error) {
	switch appCfg.StorageType {
	case "s3":
		store, err := storage.NewS3(ctx, storage.S3Config{
			Region:                   appCfg.StorageS3Region,
			Bucket:                   appCfg.StorageS3Bucket,
			Prefix:                   appCfg.StorageS3Prefix,
			CloudFrontURL:            appCfg.StorageCFURL,
			CloudFrontKeyPairID:      appCfg.StorageCFKeyPairID,
			CloudFrontPrivateKeyPath: appCfg.StorageCFKeyPath,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		logger.Info("initialized S3/CloudFront file storage",
			zap.String("bucket", appCfg.StorageS3Bucket),
			zap.String("prefix", appCfg.StorageS3Prefix),
		)
		return store, nil
	case "local", "":
		store, err := storage.NewLocal(storage.LocalConfig{
			BasePath: appCfg.StorageLocalPath,
			BaseURL:  appCfg.StorageLocalURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage: %w", err)
		}
		logger.Info("initialized local file storage",
			zap.String("path", appCfg.StorageLocalPath),
			zap.String("url", appCfg.StorageLocalURL),
		)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", appCfg.StorageType)
	}
}

// EnsureSchema creates collections, validators and indexes, then seeds the
// default content sections and legal pages.
//
// The context has a timeout based on coreCfg.IndexBootTimeout.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	// Ensure collections exist and attach JSON-Schema validators.
	// This runs first so indexes can be created on existing collections.
	logger.Info("ensuring collections and validators")
	if err := validators.EnsureAll(ctx, db, logger); err != nil {
		logger.Error("failed to ensure validators", zap.Error(err))
		return err
	}

	logger.Info("ensuring database indexes")
	if err := indexes.EnsureAll(ctx, db, logger); err != nil {
		logger.Error("failed to ensure indexes", zap.Error(err))
		return err
	}

	logger.Info("seeding default data")
	if err := seeding.SeedAll(ctx, db, deps.ContentFeed, logger); err != nil {
		logger.Error("failed to seed default data", zap.Error(err))
		return err
	}

	logger.Info("database schema ensured successfully")
	return nil
}
