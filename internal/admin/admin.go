// Package admin serves the read-only operator surface mounted under /admin/.
package admin

import (
	"context"
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maxviazov/ticket-registration-service/internal/model"
	"github.com/maxviazov/ticket-registration-service/internal/router"
	"github.com/maxviazov/ticket-registration-service/pkg/response"
)

// Prefix is where the admin sub-router is mounted.
const Prefix = "/admin/"

//go:embed swagger.html
var swaggerHTML []byte

//go:embed openapi.yaml
var openAPISpec []byte

// Info identifies the running service.
type Info struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Env     string `json:"env"`
}

// RoutesFunc returns the root route table in evaluation order. It is resolved per
// request because the table is built after the admin router that it mounts.
type RoutesFunc func() []router.Binding

// Summarizer reports ticket totals.
type Summarizer interface {
	Summary(ctx context.Context) (model.TicketSummary, error)
}

// RouteView is the JSON shape of a single binding.
type RouteView struct {
	Name    string `json:"name"`
	Pattern string `json:"pattern"`
	Match   string `json:"match"`
}

// Overview is the body of GET /admin/.
type Overview struct {
	Service Info                `json:"service"`
	Routes  []RouteView         `json:"routes"`
	Tickets model.TicketSummary `json:"tickets"`
}

type handler struct {
	info    Info
	routes  RoutesFunc
	tickets Summarizer
}

// New builds the admin sub-router. metrics may be nil, in which case /admin/metrics is not served.
func New(info Info, routes RoutesFunc, tickets Summarizer, metrics http.Handler) *gin.Engine {
	h := &handler{info: info, routes: routes, tickets: tickets}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoRoute(response.NotFound)
	r.NoMethod(response.MethodNotAllowed)

	g := r.Group(Prefix)
	{
		g.GET("/", h.overview)
		g.GET("/routes", h.listRoutes)
		g.GET("/docs", serveDocs)
		g.GET("/openapi.yaml", serveOpenAPI)
		if metrics != nil {
			g.GET("/metrics", gin.WrapH(metrics))
		}
	}
	return r
}

func (h *handler) routeViews() []RouteView {
	if h.routes == nil {
		return []RouteView{}
	}
	bindings := h.routes()
	out := make([]RouteView, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, RouteView{Name: b.Name, Pattern: b.Pattern, Match: b.Match.String()})
	}
	return out
}

func (h *handler) overview(c *gin.Context) {
	body := Overview{Service: h.info, Routes: h.routeViews()}
	if h.tickets != nil {
		sum, err := h.tickets.Summary(c.Request.Context())
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("admin overview: ticket summary failed")
			response.WriteError(c, err)
			return
		}
		body.Tickets = sum
	}
	response.WriteData(c, http.StatusOK, body)
}

func (h *handler) listRoutes(c *gin.Context) {
	response.WriteData(c, http.StatusOK, gin.H{"routes": h.routeViews()})
}

func serveDocs(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", swaggerHTML)
}

func serveOpenAPI(c *gin.Context) {
	c.Data(http.StatusOK, "application/yaml", openAPISpec)
}
