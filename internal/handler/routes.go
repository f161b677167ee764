package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/maxviazov/ticket-registration-service/internal/middleware"
	"github.com/maxviazov/ticket-registration-service/internal/service"
	"github.com/maxviazov/ticket-registration-service/pkg/response"
)

// NewAPI builds the sub-router mounted under APIPrefix. It sees full request paths,
// so its routes carry the /api prefix themselves. allowedOrigins enables credentialed
// CORS for browser clients on those origins; nil leaves CORS off.
func NewAPI(repo Pinger, tickets service.TicketService, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoRoute(response.NotFound)
	r.NoMethod(response.MethodNotAllowed)
	if len(allowedOrigins) > 0 {
		r.Use(newCORS(allowedOrigins))
	}

	h := NewHealthHandler(repo)
	api := r.Group(APIPrefix)
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		NewTicketHandler(tickets).Register(api)
	}
	return r
}

// newCORS answers preflights before routing, so OPTIONS never reaches NoMethod.
func newCORS(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Location", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
