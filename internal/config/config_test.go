package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, 5011, cfg.Port)
	assert.True(t, cfg.IsDev())
	dsn, err := mysql.ParseDSN(cfg.DSN)
	require.NoError(t, err)
	assert.Equal(t, "root", dsn.User)
	assert.Equal(t, "password", dsn.Passwd)
	assert.Equal(t, "127.0.0.1:3306", dsn.Addr)
	assert.Equal(t, "blog", dsn.DBName)
	assert.True(t, dsn.ParseTime)
	assert.Equal(t, time.Local, dsn.Loc)
	assert.Equal(t, "utf8mb4", dsn.Params["charset"])
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, time.Minute, cfg.Scheduler.Every)
	assert.True(t, cfg.Scheduler.Enabled())
	assert.Equal(t, StorageLocal, cfg.Storage.Driver)
	assert.Equal(t, int64(5<<20), cfg.Upload.MaxBytes())
}

func TestParseFullFile(t *testing.T) {
	cfg, err := Parse([]byte(`
port: 8080
env: Production
jwt_secret: " s3cret "
jwt_ttl: 2h
public_base_url: https://blog.example.com/
allowed_origins: [" https://a.example.com ", ""]
database:
  host: db
  user: blog
  password: pw
  name: cms
  params:
    timeout: 5s
redis:
  host: cache
  db: 2
  password: hunter2
storage:
  driver: S3
  s3:
    bucket: media
    endpoint: http://minio:9000/
    prefix: /uploads/
upload:
  max_size_mb: 10
scheduler:
  enable: false
  interval: 30s
categories:
  default: guides
  items:
    - key: guides
      label: Guides
      aliases: [" How-To ", ""]
    - key: news
`))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "https://blog.example.com", cfg.PublicBaseURL)
	assert.Equal(t, []string{"https://a.example.com"}, cfg.AllowedOrigins)
	dsn, err := mysql.ParseDSN(cfg.DSN)
	require.NoError(t, err)
	assert.Equal(t, "blog", dsn.User)
	assert.Equal(t, "db:3306", dsn.Addr)
	assert.Equal(t, "cms", dsn.DBName)
	assert.Equal(t, 5*time.Second, dsn.Timeout)
	assert.Equal(t, "redis://:hunter2@cache:6379/2", cfg.RedisURL)

	assert.Equal(t, StorageS3, cfg.Storage.Driver)
	assert.Equal(t, "http://minio:9000", cfg.Storage.S3.Endpoint)
	assert.Equal(t, "uploads", cfg.Storage.S3.Prefix)
	assert.Equal(t, "us-east-1", cfg.Storage.S3.Region)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxBytes())

	assert.False(t, cfg.Scheduler.Enabled())
	assert.Equal(t, 30*time.Second, cfg.Scheduler.Every)

	require.Len(t, cfg.Categories.Items, 2)
	assert.Equal(t, []string{"how-to"}, cfg.Categories.Items[0].Aliases)
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"unknown field":       "colour: blue",
		"bad ttl":             "jwt_ttl: soon",
		"bad interval":        "scheduler:\n  interval: -1s",
		"bad port":            "port: 70000",
		"prod without secret": "env: production",
		"s3 without bucket":   "storage:\n  driver: s3",
		"unknown driver":      "storage:\n  driver: ftp",
		"negative redis db":   "redis:\n  db: -1",
		"reserved category":   "categories:\n  items:\n    - key: all",
		"duplicate category":  "categories:\n  items:\n    - key: news\n    - key: news",
		"default not listed":  "categories:\n  default: tips\n  items:\n    - key: news",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	env := map[string]string{
		EnvPort:      "9000",
		EnvDSN:       "u:p@tcp(h:1)/x",
		EnvRedisURL:  "cache:6380/1",
		EnvJWTSecret: "from-env",
		EnvEnv:       "production",
	}
	cfg, err := build(rawAppConfig{}, func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}, "test")
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "u:p@tcp(h:1)/x", cfg.DSN)
	assert.Equal(t, "redis://cache:6380/1", cfg.RedisURL)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.False(t, cfg.IsDev())

	env[EnvPort] = "eighty"
	_, err = build(rawAppConfig{}, func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}, "test")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("port: 6000\n"), 0o644))

	t.Setenv(EnvPort, "")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6000, cfg.Port)

	_, err = Load(filepath.Join(dir, "missing.yml"))
	assert.Error(t, err)
}

func TestRuntimeDirs(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "media")
	cfg := &AppConfig{Paths: RuntimePathsConfig{Uploads: abs, Logs: "var/log"}}
	assert.Equal(t, abs, cfg.UploadDir())
	assert.Equal(t, filepath.Join(baseDir(), "var", "log"), cfg.LogDir())

	var unset *AppConfig
	assert.Equal(t, filepath.Join(baseDir(), "uploads"), unset.UploadDir())
	assert.Equal(t, filepath.Join(baseDir(), "logs"), unset.LogDir())
}

func TestDSNValue(t *testing.T) {
	db := normalizeDatabaseConfig(DatabaseRuntimeConfig{
		User:      "blog",
		Password:  "p@ss:word",
		Name:      "cms",
		ParseTime: true,
		Params:    map[string]string{"loc": "UTC", "parseTime": "false", "readTimeout": "3s"},
	})
	dsn, err := mysql.ParseDSN(db.DSNValue())
	require.NoError(t, err)
	assert.Equal(t, "p@ss:word", dsn.Passwd)
	assert.Equal(t, time.UTC, dsn.Loc)
	assert.False(t, dsn.ParseTime)
	assert.Equal(t, 3*time.Second, dsn.ReadTimeout)
	assert.Equal(t, "utf8mb4", dsn.Params["charset"])

	db.DSN = "u:p@tcp(h:1)/x"
	assert.Equal(t, "u:p@tcp(h:1)/x", db.DSNValue())
}

func TestRedisURLValue(t *testing.T) {
	rc := normalizeRedisConfig(RedisRuntimeConfig{Host: "cache", Username: "blog", DB: -1, TLS: true})
	assert.Equal(t, "rediss://blog@cache:6379/0", rc.URLValue())

	rc = normalizeRedisConfig(RedisRuntimeConfig{URL: " cache:6380/1 "})
	assert.Equal(t, "redis://cache:6380/1", rc.URLValue())
}

func TestSiteDefaults(t *testing.T) {
	cfg, err := Parse([]byte("public_base_url: https://api.example.com/\n"))
	require.NoError(t, err)
	assert.Equal(t, "Blog", cfg.Site.Title)
	assert.Equal(t, "https://api.example.com", cfg.Site.URL)
	assert.Equal(t, "/blog", cfg.Site.ArticlePath)

	cfg, err = Parse([]byte(`
site:
  title: " Debt Blog "
  url: https://example.com/
  article_path: "articles/"
`))
	require.NoError(t, err)
	assert.Equal(t, "Debt Blog", cfg.Site.Title)
	assert.Equal(t, "https://example.com", cfg.Site.URL)
	assert.Equal(t, "/articles", cfg.Site.ArticlePath)

	cfg, err = Parse([]byte("site:\n  article_path: /\n"))
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Site.ArticlePath)
}
