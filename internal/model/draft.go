package model

import "time"

// BookingDraft is the server-side state of an unfinished booking.
type BookingDraft struct {
	ID          string
	SessionKey  string
	Step        int
	FromAddress string
	ToAddress   string
	DistanceKm  *float64
	MoveAt      string // "2006-01-02T15:04", wall clock in the configured zone
	HouseType   string
	Notes       string
	Generation  int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
