package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maxviazov/ticket-registration-service/internal/admin"
	"github.com/maxviazov/ticket-registration-service/internal/handler"
	"github.com/maxviazov/ticket-registration-service/internal/middleware"
	"github.com/maxviazov/ticket-registration-service/internal/router"
	"github.com/maxviazov/ticket-registration-service/pkg/response"
)

// Route binding names, also used as the metrics route label.
const (
	RouteHome  = "home"
	RouteAdmin = "admin"
	RouteAPI   = "api"
)

// NewRouteTable binds the three top-level surfaces in evaluation order:
// "/" exactly to home, then the admin and api prefixes.
func NewRouteTable(home, adminHandler, api http.Handler, opts ...router.Option) (*router.Table, error) {
	opts = append([]router.Option{router.WithNotFound(response.NotFoundHandler())}, opts...)
	return router.New([]router.Binding{
		router.Handle(RouteHome, "/", home),
		router.Mount(RouteAdmin, admin.Prefix, adminHandler),
		router.Mount(RouteAPI, handler.APIPrefix, api),
	}, opts...)
}

// NewEngine wraps the table in the root gin engine so every request, matched or not,
// passes the middleware chain first.
func NewEngine(table *router.Table, logger zerolog.Logger, obs middleware.HTTPObserver) *gin.Engine {
	engine := gin.New()
	engine.Use(
		middleware.RequestID(logger),
		middleware.AccessLog(table.RouteName),
	)
	if obs != nil {
		engine.Use(middleware.Metrics(obs, table.RouteName))
	}
	engine.Use(middleware.Recovery())
	// Any covers the standard methods only; NoRoute catches the rest (PROPFIND, custom verbs)
	engine.Any("/*path", gin.WrapH(table))
	engine.NoRoute(gin.WrapH(table))
	return engine
}

// buildHandler assembles home, admin and api, the route table over them and the root engine.
func buildHandler(d deps) (*gin.Engine, *router.Table, error) {
	home, err := handler.NewHomeHandler(handler.HomeEndpoints{
		Tickets: handler.TicketsPath,
		Admin:   admin.Prefix,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("home handler: %w", err)
	}

	// admin lists the table that mounts it, so the lookup is deferred to request time
	var table *router.Table
	routes := func() []router.Binding {
		if table == nil {
			return nil
		}
		return table.Bindings()
	}
	var metricsHandler http.Handler
	if d.metrics != nil {
		metricsHandler = d.metrics.Handler()
	}
	adminRouter := admin.New(d.info, routes, d.tickets, metricsHandler)
	api := handler.NewAPI(d.pinger, d.tickets, d.corsOrigins)

	table, err = NewRouteTable(home, adminRouter, api, router.WithAppendSlash(d.appendSlash))
	if err != nil {
		return nil, nil, err
	}
	for _, b := range table.Shadowed() {
		d.logger.Warn().Str("route", b.Name).Str("pattern", b.Pattern).Msg("route binding is unreachable, an earlier binding covers it")
	}

	var obs middleware.HTTPObserver
	if d.metrics != nil {
		obs = d.metrics
	}
	return NewEngine(table, d.logger, obs), table, nil
}
