package app

import (
	"log/slog"
	"net/http"
	"sort"

	"TodoRPC/internal/config"
	"TodoRPC/internal/handlers"
	"TodoRPC/internal/rpc"
	"TodoRPC/internal/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"

	_ "TodoRPC/docs"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, log *slog.Logger, svc *service.TodoService) {
	todoHandler := handlers.NewTodoHandler(svc)
	procedures := rpc.NewRouter(log, handlers.MapError)
	procedures.Add(todoHandler.Procedures()...)
	for alias, name := range handlers.Aliases() {
		procedures.Alias(alias, name)
	}

	r.GET("/", rootHandler(cfg, procedures))
	r.GET("/health", healthHandler(cfg, svc))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	procedures.Register(r.Group("/rpc"))
}

func rootHandler(cfg config.Config, procedures *rpc.Router) gin.HandlerFunc {
	names := procedures.Names()
	sort.Strings(names)
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":    "Todo RPC",
			"version":    cfg.App.Version,
			"env":        cfg.App.Env,
			"docs":       "/swagger/index.html",
			"spec":       "/swagger-doc.json",
			"health":     "/health",
			"rpc":        "/rpc",
			"procedures": names,
		})
	}
}

func healthHandler(cfg config.Config, svc *service.TodoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "env": cfg.App.Env, "error": "store unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}
