package app

import (
	"fmt"
	"net/http"

	"TodoAPI/internal/config"
	"TodoAPI/internal/handlers"
	"TodoAPI/internal/middleware"
	"TodoAPI/internal/repo"
	"TodoAPI/internal/service"
	"TodoAPI/internal/validation"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, todoRepo repo.TodoRepo, listCache service.ListCache) error {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	v, err := validation.New()
	if err != nil {
		return fmt.Errorf("validation: %w", err)
	}

	api := r.Group("/api")
	todoSvc := service.NewTodoService(todoRepo, listCache)
	todoHandler := handlers.NewTodoHandler(todoSvc)
	registerTodoRoutes(api, v, todoHandler)
	return nil
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Todo API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"openapi": "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api/todos",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "env": cfg.App.Env, "store": cfg.Store.Driver})
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
			_ = c.Error(err)
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerTodoRoutes(api *gin.RouterGroup, v *validation.Validator, h *handlers.TodoHandler) {
	api.GET("/todos", h.List)
	api.POST("/todos", middleware.Validate(v, validation.CreateTodo), h.Create)
	api.GET("/todos/:id", middleware.Validate(v, validation.GetTodo), h.GetByID)
	api.PUT("/todos/:id", middleware.Validate(v, validation.UpdateTodo), h.Update)
	api.DELETE("/todos/:id", middleware.Validate(v, validation.GetTodo), h.Delete)
}
