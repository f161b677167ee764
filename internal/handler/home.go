package handler

import (
	"encoding/json"
	"net/http"
)

// HomeMessage is the fixed greeting of the root endpoint.
const HomeMessage = "Ticket Registration API"

// HomeEndpoints advertises where the main resources live.
type HomeEndpoints struct {
	Tickets string `json:"tickets"`
	Admin   string `json:"admin"`
}

// HomeResponse is the body of GET /.
type HomeResponse struct {
	Message   string        `json:"message"`
	Endpoints HomeEndpoints `json:"endpoints"`
}

// homeHandler serves a body encoded once at construction, so every call is byte-identical.
type homeHandler struct {
	body []byte
}

// NewHomeHandler builds the root handler. It ignores the request entirely.
func NewHomeHandler(endpoints HomeEndpoints) (http.Handler, error) {
	body, err := json.Marshal(HomeResponse{Message: HomeMessage, Endpoints: endpoints})
	if err != nil {
		return nil, err
	}
	return &homeHandler{body: body}, nil
}

func (h *homeHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.body)
}
