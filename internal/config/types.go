package config

import "time"

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                   `yaml:"port"`
	DSN            string                `yaml:"dsn"` // MySQL DSN
	RedisURL       string                `yaml:"redis_url"`
	Database       DatabaseRuntimeConfig `yaml:"database"`
	Redis          RedisRuntimeConfig    `yaml:"redis"`
	Env            string                `yaml:"env"` // "development" | "production"
	Paths          RuntimePathsConfig    `yaml:"paths"`
	AllowedOrigins []string              `yaml:"allowed_origins"`
	JWTSecret      string                `yaml:"jwt_secret"`
	JWTTTL         time.Duration         `yaml:"-"`
	PublicBaseURL  string                `yaml:"public_base_url"`
	Storage        StorageConfig         `yaml:"storage"`
	Upload         UploadConfig          `yaml:"upload"`
	Categories     CategoriesConfig      `yaml:"categories"`
	Scheduler      SchedulerConfig       `yaml:"scheduler"`
	Site           SiteConfig            `yaml:"site"`
}

type DatabaseRuntimeConfig struct {
	DSN       string            `yaml:"dsn"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	Charset   string            `yaml:"charset"`
	ParseTime bool              `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	Params    map[string]string `yaml:"params"`
}

type RedisRuntimeConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TLS      bool   `yaml:"tls"`
}

type RuntimePathsConfig struct {
	Logs    string `yaml:"logs"`
	Uploads string `yaml:"uploads"`
}

// StorageConfig picks where uploaded media bytes live.
type StorageConfig struct {
	Driver string   `yaml:"driver"` // "local" | "s3"
	S3     S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PublicURL       string `yaml:"public_url"`
	Prefix          string `yaml:"prefix"`
	ForcePathStyle  bool   `yaml:"force_path_style"`
}

type UploadConfig struct {
	MaxSizeMB int `yaml:"max_size_mb"`
}

// MaxBytes is the upload cap in bytes.
func (u UploadConfig) MaxBytes() int64 {
	return int64(u.MaxSizeMB) << 20
}

// CategoriesConfig overrides the built-in category table.
// An empty Items list keeps the built-in four categories.
type CategoriesConfig struct {
	Default string               `yaml:"default"`
	Items   []CategoryItemConfig `yaml:"items"`
}

type CategoryItemConfig struct {
	Key     string   `yaml:"key"`
	Label   string   `yaml:"label"`
	Aliases []string `yaml:"aliases"`
}

// SiteConfig describes the public site that feeds and the sitemap link to.
// Article pages live at URL + ArticlePath + "/" + slug.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	URL         string `yaml:"url"`
	ArticlePath string `yaml:"article_path"`
}

type SchedulerConfig struct {
	Enable   *bool         `yaml:"enable"`
	Interval string        `yaml:"interval"`
	Every    time.Duration `yaml:"-"`
}

// Enabled defaults to true when unset.
func (s SchedulerConfig) Enabled() bool {
	return s.Enable == nil || *s.Enable
}

type rawAppConfig struct {
	Port           int                   `yaml:"port"`
	DSN            string                `yaml:"dsn"`
	RedisURL       string                `yaml:"redis_url"`
	Database       DatabaseRuntimeConfig `yaml:"database"`
	Redis          rawRedisConfig        `yaml:"redis"`
	Env            string                `yaml:"env"`
	Paths          RuntimePathsConfig    `yaml:"paths"`
	AllowedOrigins []string              `yaml:"allowed_origins"`
	JWTSecret      string                `yaml:"jwt_secret"`
	JWTTTL         string                `yaml:"jwt_ttl"`
	PublicBaseURL  string                `yaml:"public_base_url"`
	Storage        StorageConfig         `yaml:"storage"`
	Upload         UploadConfig          `yaml:"upload"`
	Categories     CategoriesConfig      `yaml:"categories"`
	Scheduler      SchedulerConfig       `yaml:"scheduler"`
	Site           SiteConfig            `yaml:"site"`
}

type rawRedisConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       *int   `yaml:"db"`
	TLS      *bool  `yaml:"tls"`
}
