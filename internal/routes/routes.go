// Package routes assembles the HTTP surface of the service.
package routes

import (
	"context"
	"log"
	"net/http"
	"time"

	"smartpass/internal/handler"
	"smartpass/internal/middleware"
	"smartpass/internal/service"
	"smartpass/internal/websocket"
	"smartpass/pkg/response"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps carries everything the router wires into handlers
type Deps struct {
	Auth     service.AuthService
	Users    service.UserService
	Employee service.EmployeeService
	Report   service.ReportService
	Activity service.ActivityService

	Guard middleware.Guard

	// optional
	Hub                *websocket.Hub
	Metrics            *middleware.Metrics
	LoginRatePerMinute int
	CORSOrigins        []string
	// TrustedProxies may set X-Forwarded-For. Empty means the socket peer is the client.
	TrustedProxies     []string
	Ping               func(ctx context.Context) error
	Swagger            bool
}

// NewRouter returns the configured gin engine
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	if err := router.SetTrustedProxies(d.TrustedProxies); err != nil {
		log.Printf("Ignoring trusted proxies %v: %v", d.TrustedProxies, err)
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(gin.Logger(), gin.Recovery(), middleware.RequestID())
	if d.Metrics != nil {
		router.Use(d.Metrics.Instrument())
	}

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	if len(d.CORSOrigins) == 0 || (len(d.CORSOrigins) == 1 && d.CORSOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = d.CORSOrigins
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", middleware.HeaderRequestID}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.ExposeHeaders = []string{middleware.HeaderRequestID, "Content-Disposition"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", health(d.Ping))
	if d.Metrics != nil {
		router.GET("/metrics", d.Metrics.Handler())
	}
	if d.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	var limiter *middleware.IPRateLimiter
	if d.LoginRatePerMinute > 0 {
		limiter = middleware.NewIPRateLimiter(d.LoginRatePerMinute)
	}

	api := router.Group("")
	handler.NewAuthHandler(d.Auth, d.Guard, limiter).RegisterRoutes(api)
	handler.NewUserHandler(d.Users, d.Guard).RegisterRoutes(api)
	handler.NewEmployeeHandler(d.Employee, d.Guard).RegisterRoutes(api)
	handler.NewReportHandler(d.Report, d.Guard).RegisterRoutes(api)
	handler.NewActivityHandler(d.Activity, d.Guard, d.Hub).RegisterRoutes(api)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Route not found"))
	})
	return router
}

func health(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DEGRADED", "database": "unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	}
}
