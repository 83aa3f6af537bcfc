// internal/app/system/validators/validators.go
//
// Package validators creates the site's collections and attaches
// JSON-Schema validators where the server supports them.
package validators

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/advocatechambers/lawsite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Mongo server error codes.
const (
	codeNamespaceExists = 48
	codeCommandNotFound = 59
	codeNotImplemented  = 115
)

type collectionSpec struct {
	name   string
	schema bson.M
}

func collections() []collectionSpec {
	return []collectionSpec{
		{name: models.ContentCollection},
		{name: "inquiries", schema: inquiriesSchema()},
		{name: "pages", schema: pagesSchema()},
		{name: "oauth_states"},
		{name: "audit_logs"},
		{name: "rate_limits"},
	}
}

// EnsureAll creates any missing collection and sets its validator. Servers
// without collMod support (some DocumentDB versions) keep the collection
// unvalidated. Failures for one collection do not stop the others.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		// Fall through to CreateCollection and treat "exists" as success.
		logger.Warn("listing collections failed", zap.Error(err))
	}
	have := make(map[string]bool, len(existing))
	for _, n := range existing {
		have[n] = true
	}

	var errs []error
	for _, spec := range collections() {
		log := logger.With(zap.String("collection", spec.name))
		if !have[spec.name] {
			if err := createCollection(ctx, db, spec.name); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", spec.name, err))
				continue
			}
			log.Info("created collection")
		}
		if spec.schema == nil {
			continue
		}
		if err := setValidator(ctx, db, spec.name, spec.schema); err != nil {
			if unsupported(err) {
				log.Info("validator skipped (unsupported)")
				continue
			}
			errs = append(errs, fmt.Errorf("%s validator: %w", spec.name, err))
			continue
		}
		log.Debug("validator ensured")
	}
	return errors.Join(errs...)
}

func createCollection(ctx context.Context, db *mongo.Database, name string) error {
	err := db.CreateCollection(ctx, name)
	if err != nil && isCommandError(err, []int32{codeNamespaceExists}, "already exists", "namespace exists") {
		return nil
	}
	return err
}

func setValidator(ctx context.Context, db *mongo.Database, name string, schema bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: schema},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	return db.RunCommand(ctx, cmd).Err()
}

func unsupported(err error) bool {
	return isCommandError(err,
		[]int32{codeCommandNotFound, codeNotImplemented},
		"no such command", "not implemented", "not supported")
}

// isCommandError matches err by server code, or by message for drivers and
// proxies that rewrap the error.
func isCommandError(err error, codes []int32, phrases ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		for _, c := range codes {
			if ce.Code == c {
				return true
			}
		}
	}
	msg := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

func enum[T ~string](values []T) bson.A {
	out := make(bson.A, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func inquiriesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"reference", "full_name", "email", "mobile", "category", "status", "payment_status"},
			"properties": bson.M{
				"reference":      bson.M{"bsonType": "string", "minLength": 1},
				"full_name":      bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"email":          bson.M{"bsonType": "string", "minLength": 3},
				"mobile":         bson.M{"bsonType": "string", "minLength": 1},
				"category":       bson.M{"bsonType": "string", "minLength": 1},
				"status":         bson.M{"enum": enum(models.AllInquiryStatuses())},
				"payment_status": bson.M{"enum": enum(models.AllPaymentStatuses())},
				"amount":         bson.M{"bsonType": bson.A{"int", "long", "double"}, "minimum": 0},
			},
		},
	}
}

func pagesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"slug"},
			"properties": bson.M{
				"slug":    bson.M{"enum": enum(models.AllPageSlugs())},
				"title":   bson.M{"bsonType": "string"},
				"content": bson.M{"bsonType": "string"},
			},
		},
	}
}
