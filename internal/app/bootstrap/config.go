// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/advocatechambers/lawsite/internal/app/system/authutil"
	"github.com/advocatechambers/lawsite/internal/app/system/inputval"
	"github.com/advocatechambers/lawsite/internal/app/system/normalize"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix namespaces the site's environment variables.
const EnvVarPrefix = "LAWSITE"

// Content feed backends.
const (
	FeedChangeStream = "changestream"
	FeedRedis        = "redis"
	FeedMemory       = "memory"
)

// appConfigKeys are the site's keys. Each is read from config files as
// shown, from LAWSITE_<UPPER_NAME> in the environment, or from --<name>.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB URI (change streams need a replica set)"},
	{Name: "mongo_database", Default: "lawsite", Desc: "Database holding content, inquiries and pages"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "Upper bound on pooled MongoDB connections"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "Connections kept open while idle"},

	{Name: "content_feed", Default: FeedChangeStream, Desc: "Content change feed: 'changestream', 'redis', or 'memory'"},
	{Name: "redis_url", Default: "", Desc: "Redis URL for the content feed and login rate limits (optional)"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Admin session signing key, at least 32 characters outside dev"},
	{Name: "session_name", Default: "lawsite-session", Desc: "Admin session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Admin session cookie domain; empty scopes it to the request host"},
	{Name: "session_max_age", Default: "24h", Desc: "How long an admin stays signed in"},

	{Name: "rate_limit_enabled", Default: true, Desc: "Lock out repeated failed password logins"},
	{Name: "rate_limit_login_attempts", Default: 5, Desc: "Failures per email and IP before lockout"},
	{Name: "rate_limit_login_window", Default: "15m", Desc: "Window over which failures are counted"},
	{Name: "rate_limit_login_lockout", Default: "15m", Desc: "How long a locked out pair must wait"},

	{Name: "csrf_key", Default: "dev-only-csrf-key-please-change-0123456789", Desc: "Admin API CSRF key, at least 32 characters outside dev"},
	{Name: "csrf_trusted_origins", Default: "", Desc: "Comma-separated host:port origins trusted for admin writes"},

	{Name: "storage_type", Default: "local", Desc: "Where uploaded media lives: 'local' or 's3'"},
	{Name: "storage_local_path", Default: "./uploads", Desc: "Directory for local media"},
	{Name: "storage_local_url", Default: "/files", Desc: "Path local media is served under"},
	{Name: "storage_s3_region", Default: "", Desc: "Media bucket region"},
	{Name: "storage_s3_bucket", Default: "", Desc: "Media bucket (required for s3)"},
	{Name: "storage_s3_prefix", Default: "uploads/", Desc: "Object key prefix inside the media bucket"},
	{Name: "storage_cf_url", Default: "", Desc: "CloudFront origin that fronts the media bucket"},
	{Name: "storage_cf_keypair_id", Default: "", Desc: "CloudFront signing key pair"},
	{Name: "storage_cf_key_path", Default: "", Desc: "PEM file for the CloudFront signing key"},

	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host (blank disables mail)"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP port; 1025 suits a local Mailpit"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP login, blank for unauthenticated relays"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@example.com", Desc: "Envelope and header sender address"},
	{Name: "mail_from_name", Default: "Chambers Website", Desc: "From display name"},

	{Name: "base_url", Default: "http://localhost:8080", Desc: "Public origin of the site"},
	{Name: "admin_url", Default: "http://localhost:8080/admin", Desc: "Admin console URL used in emails"},
	{Name: "inquiry_digest_interval", Default: "24h", Desc: "How often pending inquiries are mailed to the admin (0 disables)"},

	{Name: "audit_log_auth", Default: "all", Desc: "Sign-in audit sinks: 'all', 'db', 'log' or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin change audit sinks: 'all', 'db', 'log' or 'off'"},

	{Name: "google_client_id", Default: "", Desc: "Google sign-in client ID; blank hides Google sign-in"},
	{Name: "google_client_secret", Default: "", Desc: "Google sign-in client secret"},

	{Name: "seed_admin_email", Default: "", Desc: "Admin email to set on startup when none is configured"},
	{Name: "seed_admin_password", Default: "", Desc: "Admin password to set together with seed_admin_email"},
}

// LoadConfig reads WAFFLE's core settings and the site's own keys in one
// pass. Precedence is flags, then environment, then files, then defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	core, v, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, fmt.Errorf("load config: %w", err)
	}

	return core, AppConfig{
		MongoURI:         v.String("mongo_uri"),
		MongoDatabase:    v.String("mongo_database"),
		MongoMaxPoolSize: uint64(v.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(v.Int("mongo_min_pool_size")),

		ContentFeed: normalize.Keyword(v.String("content_feed")),
		RedisURL:    v.String("redis_url"),

		SessionKey:    v.String("session_key"),
		SessionName:   v.String("session_name"),
		SessionDomain: v.String("session_domain"),
		SessionMaxAge: v.Duration("session_max_age", 24*time.Hour),

		RateLimitEnabled:       v.Bool("rate_limit_enabled"),
		RateLimitLoginAttempts: v.Int("rate_limit_login_attempts"),
		RateLimitLoginWindow:   v.Duration("rate_limit_login_window", 15*time.Minute),
		RateLimitLoginLockout:  v.Duration("rate_limit_login_lockout", 15*time.Minute),

		CSRFKey:            v.String("csrf_key"),
		CSRFTrustedOrigins: splitList(v.String("csrf_trusted_origins")),

		StorageType:        normalize.Keyword(v.String("storage_type")),
		StorageLocalPath:   v.String("storage_local_path"),
		StorageLocalURL:    v.String("storage_local_url"),
		StorageS3Region:    v.String("storage_s3_region"),
		StorageS3Bucket:    v.String("storage_s3_bucket"),
		StorageS3Prefix:    v.String("storage_s3_prefix"),
		StorageCFURL:       v.String("storage_cf_url"),
		StorageCFKeyPairID: v.String("storage_cf_keypair_id"),
		StorageCFKeyPath:   v.String("storage_cf_key_path"),

		MailSMTPHost: v.String("mail_smtp_host"),
		MailSMTPPort: v.Int("mail_smtp_port"),
		MailSMTPUser: v.String("mail_smtp_user"),
		MailSMTPPass: v.String("mail_smtp_pass"),
		MailFrom:     v.String("mail_from"),
		MailFromName: v.String("mail_from_name"),

		BaseURL:               strings.TrimRight(v.String("base_url"), "/"),
		AdminURL:              v.String("admin_url"),
		InquiryDigestInterval: v.Duration("inquiry_digest_interval", 24*time.Hour),

		AuditLogAuth:  normalize.Keyword(v.String("audit_log_auth")),
		AuditLogAdmin: normalize.Keyword(v.String("audit_log_admin")),

		GoogleClientID:     v.String("google_client_id"),
		GoogleClientSecret: v.String("google_client_secret"),

		SeedAdminEmail:    normalize.Email(v.String("seed_admin_email")),
		SeedAdminPassword: v.String("seed_admin_password"),
	}, nil
}

// ValidateConfig rejects a config the site cannot start with.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("bad mongo_uri", zap.Error(err))
		return fmt.Errorf("mongo_uri: %w", err)
	}
	return validateApp(appCfg)
}

// validateApp checks the settings that do not depend on core config.
func validateApp(appCfg AppConfig) error {
	switch appCfg.ContentFeed {
	case FeedChangeStream, FeedMemory:
	case FeedRedis:
		if appCfg.RedisURL == "" {
			return fmt.Errorf("content_feed %q requires redis_url", FeedRedis)
		}
	default:
		return fmt.Errorf("unknown content_feed %q (want %s, %s or %s)",
			appCfg.ContentFeed, FeedChangeStream, FeedRedis, FeedMemory)
	}

	switch appCfg.StorageType {
	case "local", "":
	case "s3":
		if appCfg.StorageS3Bucket == "" {
			return fmt.Errorf("storage_type s3 requires storage_s3_bucket")
		}
	default:
		return fmt.Errorf("unknown storage type: %s", appCfg.StorageType)
	}

	if appCfg.InquiryDigestInterval < 0 {
		return fmt.Errorf("inquiry_digest_interval must not be negative")
	}

	if appCfg.SeedAdminEmail != "" {
		if !inputval.IsValidEmail(appCfg.SeedAdminEmail) {
			return fmt.Errorf("seed_admin_email %q is not a valid email address", appCfg.SeedAdminEmail)
		}
		if appCfg.SeedAdminPassword != "" {
			if err := authutil.ValidatePassword(appCfg.SeedAdminPassword); err != nil {
				return fmt.Errorf("seed_admin_password: %w", err)
			}
		}
	}
	return nil
}

// splitList parses a comma-separated config value.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
