// internal/router/router.go
package router

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pimstack/pim-backend/internal/config"
	"github.com/pimstack/pim-backend/internal/handlers"
	"github.com/pimstack/pim-backend/internal/middleware"
	"github.com/pimstack/pim-backend/internal/services"
	"github.com/pimstack/pim-backend/internal/utils"
)

// SetupRouter wires services, handlers and middleware into a gin engine.
func SetupRouter(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	queryTimeout := time.Duration(cfg.Database.QueryTimeout) * time.Second

	// Services
	completionService := services.NewCompletionService(db)
	productService := services.NewProductService(db, completionService, queryTimeout)
	childService := services.NewChildService(db, completionService, queryTimeout)
	catalogService := services.NewCatalogService(db, queryTimeout)
	authService := services.NewAuthService(db, cfg.JWT.AccessTokenTTL, queryTimeout)
	systemService := services.NewSystemService(db, queryTimeout)
	storageService, err := services.NewStorageService(&cfg.Storage)
	if err != nil {
		return nil, err
	}

	// Handlers
	productHandler := handlers.NewProductHandler(productService, storageService)
	childHandler := handlers.NewChildHandler(childService, productService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	authHandler := handlers.NewAuthHandler(authService)
	systemHandler := handlers.NewSystemHandler(systemService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.GeneralRateLimit())

	// Verb mismatches on known paths answer with the envelope, not gin's
	// plain-text default.
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		utils.MethodNotAllowedResponse(c)
	})

	// Identify the caller on every API route when a token is present so
	// read handlers can see who is asking without requiring one.
	api := r.Group("/api", middleware.OptionalAuth())
	{
		// Auth
		auth := api.Group("/auth")
		{
			auth.POST("/login", middleware.AuthRateLimit(), authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// Products. Only param routes are registered under /products so
		// the tree never mixes static and wildcard segments; the literal
		// "search" first segment and the "image"/"completion" child
		// segments are dispatched here.
		api.GET("/products", productHandler.ListProducts)
		api.POST("/products", middleware.AuthRequired(), productHandler.CreateProduct)

		api.GET("/products/:id", productHandler.GetProduct)
		api.PUT("/products/:id", middleware.AuthRequired(), productHandler.UpdateProduct)
		api.DELETE("/products/:id", middleware.AuthRequired(), productHandler.DeleteProduct)

		api.GET("/products/:id/:child", func(c *gin.Context) {
			if c.Param("id") == "search" {
				productHandler.SearchProducts(c, c.Param("child"))
				return
			}
			childHandler.ListChildren(c)
		})
		api.POST("/products/:id/:child", middleware.AuthRequired(), func(c *gin.Context) {
			if c.Param("child") == "image" {
				middleware.UploadRateLimit()(c)
				if c.IsAborted() {
					return
				}
				productHandler.UploadProductImage(c)
				return
			}
			childHandler.CreateChild(c)
		})

		api.GET("/products/:id/:child/:childID", childHandler.GetChildItem)
		api.PUT("/products/:id/:child/:childID", middleware.AuthRequired(), childHandler.UpdateChild)
		api.DELETE("/products/:id/:child/:childID", middleware.AuthRequired(), childHandler.DeleteChild)

		// Catalog entities
		categories := api.Group("/categories")
		{
			categories.GET("", catalogHandler.ListCategories)
			categories.GET("/:id", catalogHandler.GetCategory)
			categories.POST("", middleware.AuthRequired(), middleware.AdminRequired(), catalogHandler.CreateCategory)
			categories.PUT("/:id", middleware.AuthRequired(), middleware.AdminRequired(), catalogHandler.UpdateCategory)
			categories.DELETE("/:id", middleware.AuthRequired(), middleware.AdminRequired(), catalogHandler.DeleteCategory)
		}

		statusTypes := api.Group("/status-types")
		{
			statusTypes.GET("", catalogHandler.ListStatusTypes)
			statusTypes.GET("/:id", catalogHandler.GetStatusType)
			statusTypes.POST("", middleware.AuthRequired(), middleware.AdminRequired(), catalogHandler.CreateStatusType)
			statusTypes.PUT("/:id", middleware.AuthRequired(), middleware.AdminRequired(), catalogHandler.UpdateStatusType)
			statusTypes.DELETE("/:id", middleware.AuthRequired(), middleware.AdminRequired(), catalogHandler.DeleteStatusType)
		}

		propertyTypes := api.Group("/property-types")
		{
			propertyTypes.GET("", catalogHandler.ListPropertyTypes)
			propertyTypes.GET("/:id", catalogHandler.GetPropertyType)
			propertyTypes.POST("", middleware.AuthRequired(), middleware.AdminRequired(), catalogHandler.CreatePropertyType)
			propertyTypes.PUT("/:id", middleware.AuthRequired(), middleware.AdminRequired(), catalogHandler.UpdatePropertyType)
			propertyTypes.DELETE("/:id", middleware.AuthRequired(), middleware.AdminRequired(), catalogHandler.DeletePropertyType)
		}

		languages := api.Group("/languages")
		{
			languages.GET("", catalogHandler.ListLanguages)
			languages.GET("/:id", catalogHandler.GetLanguage)
			languages.POST("", middleware.AuthRequired(), middleware.AdminRequired(), catalogHandler.CreateLanguage)
			languages.PUT("/:id", middleware.AuthRequired(), middleware.AdminRequired(), catalogHandler.UpdateLanguage)
			languages.DELETE("/:id", middleware.AuthRequired(), middleware.AdminRequired(), catalogHandler.DeleteLanguage)
		}

		packagingFields := api.Group("/packaging-logistics-fields")
		{
			packagingFields.GET("", catalogHandler.ListPackagingFields)
			packagingFields.GET("/:id", catalogHandler.GetPackagingField)
			packagingFields.POST("", middleware.AuthRequired(), middleware.AdminRequired(), catalogHandler.CreatePackagingField)
			packagingFields.PUT("/:id", middleware.AuthRequired(), middleware.AdminRequired(), catalogHandler.UpdatePackagingField)
			packagingFields.DELETE("/:id", middleware.AuthRequired(), middleware.AdminRequired(), catalogHandler.DeletePackagingField)
		}

		// System
		api.GET("/system/status", systemHandler.Status)
		api.GET("/system/version", systemHandler.Version)
		api.GET("/sap/inventory/:id", systemHandler.Inventory)
	}

	// Locally stored product images.
	if cfg.Storage.Driver != "s3" {
		r.Static("/uploads", cfg.Storage.UploadDir)
	}

	// Anything that is not an API route is either a static file from the
	// public directory or a 404 in the envelope.
	r.NoRoute(staticOrNotFound(cfg.Server.PublicDir))

	return r, nil
}

func staticOrNotFound(publicDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet && !strings.HasPrefix(c.Request.URL.Path, "/api/") {
			requested := c.Request.URL.Path
			if requested == "/" {
				requested = "/index.html"
			}

			// Resolve inside publicDir only; reject traversal.
			cleaned := filepath.Clean(filepath.FromSlash(requested))
			if !strings.Contains(cleaned, "..") {
				fullPath := filepath.Join(publicDir, cleaned)
				if info, err := os.Stat(fullPath); err == nil && !info.IsDir() {
					c.File(fullPath)
					return
				}
			}
		}

		utils.NotFoundResponse(c, "Resource not found")
	}
}
