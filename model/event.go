package model

import "time"

type Event struct {
	ID          string    `json:"id"`
	HostID      string    `json:"host_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	City        string    `json:"city"`
	Venue       string    `json:"venue"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	IsCancelled bool      `json:"is_cancelled"`
	CreatedAt   time.Time `json:"created_at"`

	Host      *UserSummary    `json:"host,omitempty"`
	Attendees []EventAttendee `json:"attendees,omitempty"`
}

type EventAttendee struct {
	EventID   string      `json:"-"`
	UserID    string      `json:"user_id"`
	IsHost    bool        `json:"is_host"`
	CreatedAt time.Time   `json:"created_at"`
	User      UserSummary `json:"user"`
}
