package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML file at configPath and applies BLOG_* environment overrides.
// A missing file at the default path is not an error; defaults plus env are used.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	explicit := path != ""
	if path == "" {
		path = DefaultConfigPath
	}

	raw := rawAppConfig{}
	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	return build(raw, os.LookupEnv, path)
}

// Parse builds a config from YAML bytes without touching the environment.
func Parse(content []byte) (*AppConfig, error) {
	raw := rawAppConfig{}
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return build(raw, func(string) (string, bool) { return "", false }, "<inline>")
}

func build(raw rawAppConfig, lookup func(string) (string, bool), source string) (*AppConfig, error) {
	cfg := defaultAppConfig()
	applyRawAppConfig(&cfg, raw)
	if err := applyEnv(&cfg, lookup); err != nil {
		return nil, err
	}

	ttl := strings.TrimSpace(raw.JWTTTL)
	if ttl == "" {
		ttl = defaultJWTTTL
	}
	d, err := time.ParseDuration(ttl)
	if err != nil || d <= 0 {
		return nil, fmt.Errorf("invalid jwt_ttl %q in %q", raw.JWTTTL, source)
	}
	cfg.JWTTTL = d

	interval := strings.TrimSpace(cfg.Scheduler.Interval)
	if interval == "" {
		interval = defaultSchedule
	}
	every, err := time.ParseDuration(interval)
	if err != nil || every <= 0 {
		return nil, fmt.Errorf("invalid scheduler.interval %q in %q", cfg.Scheduler.Interval, source)
	}
	cfg.Scheduler.Every = every

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d in %q, expected 1-65535", cfg.Port, source)
	}
	if cfg.Database.Port < 1 || cfg.Database.Port > 65535 {
		return nil, fmt.Errorf("invalid database.port %d in %q, expected 1-65535", cfg.Database.Port, source)
	}
	if cfg.Redis.DB < 0 {
		return nil, fmt.Errorf("invalid redis.db %d in %q, expected >= 0", cfg.Redis.DB, source)
	}
	if cfg.Upload.MaxSizeMB <= 0 {
		return nil, fmt.Errorf("invalid upload.max_size_mb %d in %q", cfg.Upload.MaxSizeMB, source)
	}
	switch cfg.Storage.Driver {
	case StorageLocal:
	case StorageS3:
		if cfg.Storage.S3.Bucket == "" {
			return nil, fmt.Errorf("storage.s3.bucket is required when storage.driver is s3 (%q)", source)
		}
	default:
		return nil, fmt.Errorf("invalid storage.driver %q in %q, expected local or s3", cfg.Storage.Driver, source)
	}
	if err := validateCategories(cfg.Categories); err != nil {
		return nil, fmt.Errorf("%w (%q)", err, source)
	}
	if !cfg.IsDev() && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is required outside development (%q)", source)
	}

	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	cfg := AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Database: DatabaseRuntimeConfig{
			Host:      defaultDBHost,
			Port:      defaultDBPort,
			User:      defaultDBUser,
			Password:  defaultDBPassword,
			Name:      defaultDBName,
			Charset:   defaultDBCharset,
			ParseTime: true,
			Loc:       defaultDBLoc,
		},
		Redis: RedisRuntimeConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
			DB:   defaultRedisDB,
		},
		Storage: StorageConfig{Driver: StorageLocal},
		Upload:  UploadConfig{MaxSizeMB: defaultUploadMB},
	}
	cfg.Database = normalizeDatabaseConfig(cfg.Database)
	cfg.Redis = normalizeRedisConfig(cfg.Redis)
	cfg.DSN = cfg.Database.DSNValue()
	cfg.RedisURL = cfg.Redis.URLValue()
	return cfg
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}

	db := mergeDatabase(cfg.Database, raw.Database)
	if v := strings.TrimSpace(raw.DSN); v != "" {
		db.DSN = v
	}
	cfg.Database = normalizeDatabaseConfig(db)
	cfg.DSN = cfg.Database.DSNValue()

	rc := cfg.Redis
	if v := strings.TrimSpace(raw.Redis.URL); v != "" {
		rc.URL = v
	}
	if v := strings.TrimSpace(raw.RedisURL); v != "" {
		rc.URL = v
	}
	if v := strings.TrimSpace(raw.Redis.Host); v != "" {
		rc.Host = v
	}
	if raw.Redis.Port != 0 {
		rc.Port = raw.Redis.Port
	}
	if v := strings.TrimSpace(raw.Redis.Username); v != "" {
		rc.Username = v
	}
	if v := strings.TrimSpace(raw.Redis.Password); v != "" {
		rc.Password = v
	}
	if raw.Redis.DB != nil {
		rc.DB = *raw.Redis.DB
	}
	if raw.Redis.TLS != nil {
		rc.TLS = *raw.Redis.TLS
	}
	cfg.Redis = normalizeRedisConfig(rc)
	cfg.RedisURL = cfg.Redis.URLValue()

	if v := strings.TrimSpace(raw.Env); v != "" {
		cfg.Env = v
	}
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.Paths = normalizeRuntimePaths(raw.Paths)
	cfg.AllowedOrigins = normalizeOrigins(raw.AllowedOrigins)
	cfg.JWTSecret = strings.TrimSpace(raw.JWTSecret)
	cfg.PublicBaseURL = strings.TrimRight(strings.TrimSpace(raw.PublicBaseURL), "/")

	if v := strings.ToLower(strings.TrimSpace(raw.Storage.Driver)); v != "" {
		cfg.Storage.Driver = v
	}
	cfg.Storage.S3 = normalizeS3Config(raw.Storage.S3)
	if raw.Upload.MaxSizeMB != 0 {
		cfg.Upload.MaxSizeMB = raw.Upload.MaxSizeMB
	}
	cfg.Categories = normalizeCategories(raw.Categories)
	cfg.Scheduler = raw.Scheduler
	cfg.Site = normalizeSite(raw.Site, cfg.PublicBaseURL)
}

func mergeDatabase(cfg, raw DatabaseRuntimeConfig) DatabaseRuntimeConfig {
	if v := strings.TrimSpace(raw.DSN); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(raw.Host); v != "" {
		cfg.Host = v
	}
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.User); v != "" {
		cfg.User = v
	}
	if v := strings.TrimSpace(raw.Password); v != "" {
		cfg.Password = v
	}
	if v := strings.TrimSpace(raw.Name); v != "" {
		cfg.Name = v
	}
	if v := strings.TrimSpace(raw.Charset); v != "" {
		cfg.Charset = v
	}
	if v := strings.TrimSpace(raw.Loc); v != "" {
		cfg.Loc = v
	}
	if raw.Params != nil {
		cfg.Params = copyStringMap(raw.Params)
	}
	return cfg
}

func applyEnv(cfg *AppConfig, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPort); ok && strings.TrimSpace(v) != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		cfg.Port = port
	}
	if v, ok := lookup(EnvDSN); ok && strings.TrimSpace(v) != "" {
		cfg.Database.DSN = strings.TrimSpace(v)
		cfg.DSN = cfg.Database.DSNValue()
	}
	if v, ok := lookup(EnvRedisURL); ok && strings.TrimSpace(v) != "" {
		cfg.Redis.URL = normalizeRedisRawURL(v)
		cfg.RedisURL = cfg.Redis.URLValue()
	}
	if v, ok := lookup(EnvJWTSecret); ok && strings.TrimSpace(v) != "" {
		cfg.JWTSecret = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvEnv); ok && strings.TrimSpace(v) != "" {
		cfg.Env = normalizeEnv(v)
	}
	return nil
}

func validateCategories(c CategoriesConfig) error {
	seen := make(map[string]struct{}, len(c.Items))
	for _, item := range c.Items {
		if item.Key == "" {
			return errors.New("categories.items: key is required")
		}
		if item.Key == "all" {
			return errors.New(`categories.items: "all" is reserved`)
		}
		if _, dup := seen[item.Key]; dup {
			return fmt.Errorf("categories.items: duplicate key %q", item.Key)
		}
		seen[item.Key] = struct{}{}
	}
	if c.Default != "" && len(c.Items) > 0 {
		if _, ok := seen[c.Default]; !ok {
			return fmt.Errorf("categories.default %q is not one of categories.items", c.Default)
		}
	}
	return nil
}

func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(c.Env, defaultEnv)
}

// LogDir is where rotated log files go.
func (c *AppConfig) LogDir() string {
	if c == nil {
		return runtimeDir("", "logs")
	}
	return runtimeDir(c.Paths.Logs, "logs")
}

// UploadDir is where the local storage driver keeps article media.
func (c *AppConfig) UploadDir() string {
	if c == nil {
		return runtimeDir("", "uploads")
	}
	return runtimeDir(c.Paths.Uploads, "uploads")
}

// runtimeDir resolves a relative path against baseDir, so a service started
// from anywhere finds the same logs and uploads.
func runtimeDir(raw, fallback string) string {
	target := strings.TrimSpace(raw)
	if target == "" {
		target = fallback
	}
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Join(baseDir(), target)
}

// baseDir is the directory of the running binary, or the working directory
// when that cannot be determined.
func baseDir() string {
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Dir(exe)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}
