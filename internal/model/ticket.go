package model

import (
	"time"

	"github.com/google/uuid"
)

// TicketStatus is the lifecycle state of a support ticket.
type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketResolved   TicketStatus = "resolved"
	TicketClosed     TicketStatus = "closed"
)

// SupportTicket is a request raised by a restaurant owner.
type SupportTicket struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	RestaurantID uuid.UUID    `json:"restaurantId" db:"restaurant_id"`
	UserID       uuid.UUID    `json:"userId" db:"user_id"`
	Subject      string       `json:"subject" db:"subject"`
	Message      string       `json:"message" db:"message"`
	Priority     string       `json:"priority" db:"priority"`
	Status       TicketStatus `json:"status" db:"status"`
	Response     *string      `json:"response,omitempty" db:"response"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time    `json:"updatedAt" db:"updated_at"`
}

// TicketRequest opens a ticket.
type TicketRequest struct {
	Subject  string `json:"subject" validate:"required,max=200"`
	Message  string `json:"message" validate:"required,max=5000"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// TicketUpdateRequest is a superadmin status change, optionally with a response.
type TicketUpdateRequest struct {
	Status   TicketStatus `json:"status" validate:"required,oneof=open in_progress resolved closed"`
	Response *string      `json:"response,omitempty" validate:"omitempty,max=5000"`
}

// TicketStats is the unfiltered aggregate shown above the ticket list.
type TicketStats struct {
	Total      int `json:"total"`
	Open       int `json:"open"`
	InProgress int `json:"inProgress"`
	Resolved   int `json:"resolved"`
	Closed     int `json:"closed"`
}
