package app

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/debtprotection/blog-core/internal/middleware"
	"github.com/debtprotection/blog-core/internal/modules/auth"
	"github.com/debtprotection/blog-core/internal/modules/content/article"
	"github.com/debtprotection/blog-core/internal/modules/content/author"
	"github.com/debtprotection/blog-core/internal/modules/content/category"
	"github.com/debtprotection/blog-core/internal/modules/content/slughistory"
	"github.com/debtprotection/blog-core/internal/modules/stats/aggregate"
	"github.com/debtprotection/blog-core/internal/modules/storage/media"
	"github.com/debtprotection/blog-core/internal/modules/syndication"
	"github.com/debtprotection/blog-core/internal/modules/user"
	"github.com/debtprotection/blog-core/internal/pkg/jwt"
	"github.com/debtprotection/blog-core/internal/pkg/response"
)

const apiPrefix = "/api"

var metricsPaths = []string{"/metrics", apiPrefix + "/metrics"}

// services are the pieces background jobs need after routing is set up.
type services struct {
	articles *article.Service
}

func (a *App) registerRoutes() (*services, error) {
	r := a.router
	db := a.db
	kv := a.redis
	log := a.logger

	resolver, err := category.FromConfig(a.cfg.Categories)
	if err != nil {
		return nil, err
	}
	driver, err := media.NewDriver(a.cfg)
	if err != nil {
		return nil, err
	}

	users := user.NewGormStore(db)
	signer := jwt.NewSigner(a.cfg.JWTSecret, a.cfg.JWTTTL)
	authMW := middleware.Auth(signer, users)

	authorSvc := author.NewService(author.NewGormStore(db), log.Named("AuthorService"))

	mediaSvc := media.NewService(media.NewGormStore(db), driver, a.cfg.Upload.MaxBytes(), log.Named("MediaService"))
	// Rows written before a driver switch still need their own driver to delete.
	mediaSvc.AddDriver(media.NewLocalDriver(a.cfg.UploadDir(), a.cfg.PublicBaseURL))

	articleStore := article.NewGormStore(db)
	articleSvc := article.NewService(articleStore, resolver, log.Named("ArticleService"))
	articleSvc.SetMediaRemover(mediaSvc)
	history := slughistory.NewService(db)
	articleSvc.SetSlugHistory(history)
	articleSvc.OnChange(func(ctx context.Context, slugs ...string) {
		if n, err := middleware.PurgeArticleCache(ctx, kv, slugs...); err != nil {
			log.Warn("purge http cache", zap.Strings("slugs", slugs), zap.Error(err))
		} else if n > 0 {
			log.Debug("http cache purged", zap.Strings("slugs", slugs), zap.Int64("keys", n))
		}
	})

	adminSvc := user.NewAdminService(users, authorSvc, log.Named("UserService"))
	adminSvc.SetCascades(articleSvc, mediaSvc)

	r.NoRoute(func(c *gin.Context) { response.NotFound(c) })
	r.NoMethod(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusMethodNotAllowed, gin.H{
			"ok": 0, "code": http.StatusMethodNotAllowed, "message": "Method not allowed",
		})
	})

	metricsHandler := gin.WrapH(promhttp.Handler())
	r.GET("/metrics", metricsHandler)
	if a.cfg.Storage.Driver == media.DriverLocal {
		r.Static(media.UploadsRoute, a.cfg.UploadDir())
	}

	api := r.Group(apiPrefix)
	api.Use(middleware.OptionalAuth(signer, users))
	api.Use(middleware.RateLimit(kv))
	api.Use(skipPrefix(apiPrefix+"/auth/", middleware.Idempotence(kv)))
	api.Use(middleware.HTTPCache(kv, middleware.HTTPCacheOptions{
		TTL:             15 * time.Second,
		EnableCDNHeader: !a.cfg.IsDev(),
		SkipPaths:       httpCacheSkipPaths(apiPrefix),
		ArticlePaths:    []string{apiPrefix + "/articles/*"},
	}))

	api.GET("/health", a.health)
	api.GET("/metrics", metricsHandler)

	category.NewHandler(resolver, articleStore).RegisterRoutes(api)
	auth.NewHandler(auth.NewService(users, signer, authorSvc, log.Named("AuthService"))).RegisterRoutes(api, authMW)
	article.NewHandler(articleSvc, a.cfg.PublicBaseURL).RegisterRoutes(api, authMW)
	author.NewHandler(authorSvc).RegisterRoutes(api, authMW)
	media.NewHandler(mediaSvc).RegisterRoutes(api, authMW)
	aggregate.NewHandler(aggregate.NewService(aggregate.NewGormStore(db))).RegisterRoutes(api, authMW)
	user.NewHandler(adminSvc).RegisterRoutes(api, authMW)
	syndication.NewHandler(articleSvc, a.cfg.Site).RegisterRoutes(api)
	slughistory.NewHandler(history).RegisterRoutes(api.Group("/admin"), authMW)

	return &services{articles: articleSvc}, nil
}

// health GET /api/health
func (a *App) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, code := "ok", http.StatusOK
	dbStatus, redisStatus := "ok", "ok"
	if sqlDB, err := a.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		dbStatus, status, code = "down", "degraded", http.StatusServiceUnavailable
	}
	if err := a.redis.Ping(ctx); err != nil {
		redisStatus, status, code = "down", "degraded", http.StatusServiceUnavailable
	}

	uptime := time.Since(a.started)
	c.JSON(code, gin.H{
		"status":   status,
		"database": dbStatus,
		"redis":    redisStatus,
		"uptime":   uptime.Milliseconds(),
		"humanize": humanizeDuration(uptime),
	})
}

// skipPrefix runs mw for every request whose path does not start with prefix.
func skipPrefix(prefix string, mw gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, prefix) {
			c.Next()
			return
		}
		mw(c)
	}
}

func httpCacheSkipPaths(apiPrefix string) []string {
	p := strings.TrimSuffix(strings.TrimSpace(apiPrefix), "/")
	return []string{
		p + "/health",
		p + "/metrics",
		// detail reads count views
		p + "/published/*",
		p + "/auth/*",
	}
}
