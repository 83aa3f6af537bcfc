// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig is the site-specific half of the configuration. WAFFLE's
// CoreConfig owns ports, TLS, logging and CORS; everything here is read by
// LoadConfig from files, LAWSITE_* variables or flags.
type AppConfig struct {
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// ContentFeed selects how content changes reach every process:
	// FeedChangeStream, FeedRedis or FeedMemory.
	ContentFeed string
	// RedisURL is required by FeedRedis and optional otherwise, where it
	// backs login rate limits.
	RedisURL string

	SessionKey    string
	SessionName   string
	SessionDomain string
	SessionMaxAge time.Duration

	// Failed password logins per email+IP are counted over
	// RateLimitLoginWindow; reaching RateLimitLoginAttempts locks the
	// pair out for RateLimitLoginLockout.
	RateLimitEnabled       bool
	RateLimitLoginAttempts int
	RateLimitLoginWindow   time.Duration
	RateLimitLoginLockout  time.Duration

	CSRFKey            string
	CSRFTrustedOrigins []string // host:port

	// Media uploads. StorageType is "local" or "s3"; the S3 and CloudFront
	// fields are read only for "s3".
	StorageType        string
	StorageLocalPath   string
	StorageLocalURL    string
	StorageS3Region    string
	StorageS3Bucket    string
	StorageS3Prefix    string
	StorageCFURL       string
	StorageCFKeyPairID string
	StorageCFKeyPath   string

	// Outbound mail. A blank host disables sending.
	MailSMTPHost string
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string
	MailFromName string

	// BaseURL is the public site origin, used for the OAuth redirect.
	BaseURL string
	// AdminURL is where notification emails link to.
	AdminURL string

	// InquiryDigestInterval is how often pending inquiries are mailed to the
	// admin. Zero disables the digest.
	InquiryDigestInterval time.Duration

	// Audit sinks per category: "all", "db", "log" or "off".
	AuditLogAuth  string
	AuditLogAdmin string

	GoogleClientID     string
	GoogleClientSecret string

	// Applied on startup when settings has no admin email yet.
	SeedAdminEmail    string
	SeedAdminPassword string
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c AppConfig) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}
