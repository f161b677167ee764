// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes without behavior.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire and storage layout of calendar dates.
const DateLayout = "2006-01-02"

// Ticket types accepted by the registration form.
const (
	TicketStandard = "standard"
	TicketVIP      = "vip"
	TicketVVIP     = "vvip"
)

// TicketTypes lists the ticket types in display order.
var TicketTypes = []string{TicketStandard, TicketVIP, TicketVVIP}

// Date is a calendar day without time-of-day, encoded as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day in UTC.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return NewDate(t), nil
}

func (d Date) String() string { return d.Format(DateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Ticket is a single registration: one attendee holding Quantity seats of one type.
type Ticket struct {
	ID            int64     `json:"id"`
	Reference     uuid.UUID `json:"reference"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	IDNumber      string    `json:"id_number"`
	Gender        string    `json:"gender"`
	TicketType    string    `json:"ticket_type"`
	Quantity      int       `json:"quantity"`
	EventDate     Date      `json:"event_date"`
	EventLocation string    `json:"event_location"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TicketTypeSummary aggregates registrations of one ticket type.
type TicketTypeSummary struct {
	TicketType string `json:"ticket_type"`
	Tickets    int    `json:"tickets"`
	Seats      int    `json:"seats"`
}

// TicketSummary is the read-only overview shown on the admin index.
type TicketSummary struct {
	Tickets int                 `json:"tickets"`
	Seats   int                 `json:"seats"`
	ByType  []TicketTypeSummary `json:"by_type"`
}
