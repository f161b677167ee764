package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/ticket-registration-service/internal/repository"
	"github.com/maxviazov/ticket-registration-service/internal/service"
	"github.com/maxviazov/ticket-registration-service/pkg/response"
)

type TicketHandler struct {
	svc service.TicketService
}

func NewTicketHandler(svc service.TicketService) *TicketHandler { return &TicketHandler{svc: svc} }

// Register mounts the ticket resource. Paths keep their trailing slash, matching the
// registration form and client that consume them.
func (h *TicketHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/tickets")
	{
		g.GET("/", h.list)
		g.POST("/", h.create)
		g.GET("/:id/", h.getByID)
		g.PUT("/:id/", h.update)
		g.DELETE("/:id/", h.delete)
	}
}

// ticketRequest mirrors the registration form payload. Quantity may arrive as a
// number or a numeric string; omitted, null or "" leaves it unset.
type ticketRequest struct {
	FullName      string      `json:"full_name"`
	Email         string      `json:"email"`
	Phone         string      `json:"phone"`
	IDNumber      string      `json:"id_number"`
	Gender        string      `json:"gender"`
	TicketType    string      `json:"ticket_type"`
	Quantity      flexibleInt `json:"quantity"`
	EventDate     string      `json:"event_date"`
	EventLocation string      `json:"event_location"`
}

func (r ticketRequest) input() service.TicketInput {
	return service.TicketInput{
		FullName:      r.FullName,
		Email:         r.Email,
		Phone:         r.Phone,
		IDNumber:      r.IDNumber,
		Gender:        r.Gender,
		TicketType:    r.TicketType,
		Quantity:      r.Quantity.ptr(),
		EventDate:     r.EventDate,
		EventLocation: r.EventLocation,
	}
}

// flexibleInt accepts 3 and "3" and remembers whether a value was sent at all,
// so an explicit 0 reaches validation instead of picking up the default.
type flexibleInt struct {
	value int
	set   bool
}

func (f *flexibleInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = flexibleInt{}
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*f = flexibleInt{value: n, set: true}
	return nil
}

func (f flexibleInt) ptr() *int {
	if !f.set {
		return nil
	}
	n := f.value
	return &n
}

var errBadBody = service.NewInvalidInputError([]service.FieldError{{Field: "body", Message: "must be a valid JSON ticket"}})

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "id", Message: "must be a valid integer"}}))
		return 0, false
	}
	return id, true
}

func (h *TicketHandler) create(c *gin.Context) {
	var req ticketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, errBadBody) // parser internals stay out of the response
		return
	}
	ticket, err := h.svc.CreateTicket(c.Request.Context(), req.input())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	c.Header("Location", TicketsPath+strconv.FormatInt(ticket.ID, 10)+"/")
	response.WriteData(c, http.StatusCreated, ticket)
}

func (h *TicketHandler) getByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ticket, err := h.svc.GetTicket(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, ticket)
}

func (h *TicketHandler) list(c *gin.Context) {
	// Atoi errors are ignored intentionally, as 0 is a valid default for limit/offset, handled by the service layer.
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	res, err := h.svc.ListTickets(c.Request.Context(), repository.Page{Limit: limit, Offset: offset})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

func (h *TicketHandler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req ticketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, errBadBody)
		return
	}
	ticket, err := h.svc.UpdateTicket(c.Request.Context(), id, req.input())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, ticket)
}

func (h *TicketHandler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteTicket(c.Request.Context(), id); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
