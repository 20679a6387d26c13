package config

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 5011
	defaultEnv        = "development"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "blog"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"
	defaultRedisHost  = "localhost"
	defaultRedisPort  = 6379
	defaultRedisDB    = 0
	defaultJWTTTL     = "24h"
	defaultUploadMB   = 5
	defaultSchedule   = "1m"
	defaultSiteTitle  = "Blog"
	defaultSitePath   = "/blog"

	// Storage drivers.
	StorageLocal = "local"
	StorageS3    = "s3"
)

// Environment variables that override the YAML file.
const (
	EnvPort      = "BLOG_PORT"
	EnvDSN       = "BLOG_DSN"
	EnvRedisURL  = "BLOG_REDIS_URL"
	EnvJWTSecret = "BLOG_JWT_SECRET"
	EnvEnv       = "BLOG_ENV"
)
