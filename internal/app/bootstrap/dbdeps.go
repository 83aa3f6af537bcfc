// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	contentstore "github.com/advocatechambers/lawsite/internal/app/store/content"
	"github.com/advocatechambers/lawsite/internal/app/system/contentsync"
	"github.com/advocatechambers/lawsite/internal/app/system/mailer"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database and backend dependencies for this WAFFLE app.
//
// It is created in ConnectDB and passed to EnsureSchema, Startup,
// BuildHandler, and Shutdown. Shutdown closes what ConnectDB opened.
type DBDeps struct {
	// MongoDB client and database
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Redis is nil unless redis_url is set.
	Redis *redis.Client

	// ContentFeed stores content sections and pushes their changes;
	// Content is the in-memory view the handlers read.
	ContentFeed contentstore.Feed
	Content     *contentsync.Service

	// FileStorage for media uploads
	FileStorage storage.Store

	// Mailer for inquiry notifications and the digest
	Mailer *mailer.Mailer
}
