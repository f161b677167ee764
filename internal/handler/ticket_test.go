package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/maxviazov/ticket-registration-service/internal/handler"
	"github.com/maxviazov/ticket-registration-service/internal/model"
	"github.com/maxviazov/ticket-registration-service/internal/repository"
	"github.com/maxviazov/ticket-registration-service/internal/service"
)

// stubPingerNoop satisfies handler.Pinger (health endpoints not focus here).
type stubPingerNoop struct{}

func (s stubPingerNoop) Ping(ctx context.Context) error { return nil }

// stubTicketService lets us control each method outcome and inspect what the handler passed in.
type stubTicketService struct {
	ticket  model.Ticket
	page    repository.PageResult[model.Ticket]
	err     error
	gotIn   service.TicketInput
	gotID   int64
	gotPage repository.Page
}

func (s *stubTicketService) CreateTicket(ctx context.Context, in service.TicketInput) (model.Ticket, error) {
	s.gotIn = in
	return s.ticket, s.err
}
func (s *stubTicketService) GetTicket(ctx context.Context, id int64) (model.Ticket, error) {
	s.gotID = id
	return s.ticket, s.err
}
func (s *stubTicketService) ListTickets(ctx context.Context, p repository.Page) (repository.PageResult[model.Ticket], error) {
	s.gotPage = p
	return s.page, s.err
}
func (s *stubTicketService) UpdateTicket(ctx context.Context, id int64, in service.TicketInput) (model.Ticket, error) {
	s.gotID, s.gotIn = id, in
	return s.ticket, s.err
}
func (s *stubTicketService) DeleteTicket(ctx context.Context, id int64) error {
	s.gotID = id
	return s.err
}
func (s *stubTicketService) Summary(ctx context.Context) (model.TicketSummary, error) {
	return model.TicketSummary{}, s.err
}

func newRouter(ts service.TicketService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return handler.NewAPI(stubPingerNoop{}, ts, nil)
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
	return w
}

func sampleTicket() model.Ticket {
	date, _ := model.ParseDate("2026-12-12")
	return model.Ticket{
		ID:         7,
		Reference:  uuid.New(),
		FullName:   "Ama Mensah",
		Email:      "ama@example.com",
		TicketType: model.TicketVIP,
		Quantity:   2,
		EventDate:  date,
	}
}

func TestTicketHandler_Create_OK(t *testing.T) {
	stub := &stubTicketService{ticket: sampleTicket()}
	r := newRouter(stub)
	w := serve(r, http.MethodPost, "/api/tickets/",
		`{"full_name":"Ama Mensah","email":"ama@example.com","phone":"+233 555 123 456","ticket_type":"vip","quantity":"2","event_date":"2026-12-12"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/api/tickets/7/" {
		t.Fatalf("unexpected Location %q", loc)
	}
	if stub.gotIn.Quantity == nil || *stub.gotIn.Quantity != 2 || stub.gotIn.TicketType != "vip" || stub.gotIn.Phone != "+233 555 123 456" {
		t.Fatalf("unexpected service input: %+v", stub.gotIn)
	}
	var resp model.Ticket
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.ID != 7 || resp.EventDate.String() != "2026-12-12" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestTicketHandler_Create_NumericQuantity(t *testing.T) {
	stub := &stubTicketService{ticket: sampleTicket()}
	w := serve(newRouter(stub), http.MethodPost, "/api/tickets/", `{"quantity":4}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if stub.gotIn.Quantity == nil || *stub.gotIn.Quantity != 4 {
		t.Fatalf("expected quantity 4, got %v", stub.gotIn.Quantity)
	}
}

func TestTicketHandler_Create_QuantityPresence(t *testing.T) {
	cases := []struct {
		body string
		want *int
	}{
		{`{}`, nil},
		{`{"quantity":null}`, nil},
		{`{"quantity":""}`, nil},
		{`{"quantity":0}`, intPtr(0)},
		{`{"quantity":"0"}`, intPtr(0)},
	}
	for _, tc := range cases {
		stub := &stubTicketService{ticket: sampleTicket()}
		w := serve(newRouter(stub), http.MethodPost, "/api/tickets/", tc.body)
		if w.Code != http.StatusCreated {
			t.Fatalf("%s: expected 201 from stub, got %d", tc.body, w.Code)
		}
		if (tc.want == nil) != (stub.gotIn.Quantity == nil) ||
			(tc.want != nil && *tc.want != *stub.gotIn.Quantity) {
			t.Fatalf("%s: expected quantity %v, got %v", tc.body, tc.want, stub.gotIn.Quantity)
		}
	}
}

func intPtr(n int) *int { return &n }

func TestTicketHandler_Create_Invalid(t *testing.T) {
	stub := &stubTicketService{}
	stub.err = service.NewInvalidInputError([]service.FieldError{{Field: "email", Message: "must be a valid email address"}})
	w := serve(newRouter(stub), http.MethodPost, "/api/tickets/", `{"email":"nope"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("invalid_input")) || !bytes.Contains(w.Body.Bytes(), []byte(`"email"`)) {
		t.Fatalf("expected field error for email, body=%s", w.Body.String())
	}
}

func TestTicketHandler_Create_MalformedBody(t *testing.T) {
	for _, body := range []string{`{`, `{"quantity":"lots"}`, ``} {
		w := serve(newRouter(&stubTicketService{}), http.MethodPost, "/api/tickets/", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, w.Code)
		}
		if !bytes.Contains(w.Body.Bytes(), []byte(`"body"`)) {
			t.Fatalf("body %q: expected body field error, got %s", body, w.Body.String())
		}
	}
}

func TestTicketHandler_Create_Conflict(t *testing.T) {
	stub := &stubTicketService{err: repository.ErrAlreadyExists}
	w := serve(newRouter(stub), http.MethodPost, "/api/tickets/", `{}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestTicketHandler_Get(t *testing.T) {
	stub := &stubTicketService{ticket: sampleTicket()}
	w := serve(newRouter(stub), http.MethodGet, "/api/tickets/7/", "")
	if w.Code != http.StatusOK || stub.gotID != 7 {
		t.Fatalf("expected 200 for id 7, got %d (id %d)", w.Code, stub.gotID)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("Ama Mensah")) {
		t.Fatalf("expected body to contain the attendee: %s", w.Body.String())
	}

	stub.err = repository.ErrNotFound
	if w := serve(newRouter(stub), http.MethodGet, "/api/tickets/42/", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if w := serve(newRouter(stub), http.MethodGet, "/api/tickets/abc/", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a non-numeric id, got %d", w.Code)
	}
}

func TestTicketHandler_List(t *testing.T) {
	stub := &stubTicketService{page: repository.PageResult[model.Ticket]{
		Items: []model.Ticket{sampleTicket()}, Total: 1, Limit: 10, Offset: 0,
	}}
	w := serve(newRouter(stub), http.MethodGet, "/api/tickets/?limit=10&offset=abc", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if stub.gotPage != (repository.Page{Limit: 10, Offset: 0}) {
		t.Fatalf("unexpected page %+v", stub.gotPage)
	}
	var resp repository.PageResult[model.Ticket]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Total != 1 || len(resp.Items) != 1 {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestTicketHandler_Update(t *testing.T) {
	stub := &stubTicketService{ticket: sampleTicket()}
	w := serve(newRouter(stub), http.MethodPut, "/api/tickets/7/", `{"full_name":"Ama K. Mensah","quantity":1}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if stub.gotID != 7 || stub.gotIn.FullName != "Ama K. Mensah" {
		t.Fatalf("unexpected update call: id=%d in=%+v", stub.gotID, stub.gotIn)
	}
}

func TestTicketHandler_Delete(t *testing.T) {
	stub := &stubTicketService{}
	w := serve(newRouter(stub), http.MethodDelete, "/api/tickets/7/", "")
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Fatalf("expected empty 204, got %d: %s", w.Code, w.Body.String())
	}

	stub.err = repository.ErrNotFound
	if w := serve(newRouter(stub), http.MethodDelete, "/api/tickets/7/", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestAPI_UnknownRouteAndMethod(t *testing.T) {
	r := newRouter(&stubTicketService{})
	w := serve(r, http.MethodGet, "/api/unknown", "")
	if w.Code != http.StatusNotFound || !bytes.Contains(w.Body.Bytes(), []byte("not_found")) {
		t.Fatalf("expected JSON 404, got %d: %s", w.Code, w.Body.String())
	}
	w = serve(r, http.MethodPatch, "/api/tickets/", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}
