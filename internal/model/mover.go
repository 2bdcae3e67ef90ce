package model

import "fmt"

// Mover is a moving company profile.
type Mover struct {
	ID                 int64     `json:"id"`
	CompanyName        string    `json:"company_name"`
	Email              string    `json:"email,omitempty"`
	Phone              string    `json:"phone"`
	Image              string    `json:"image,omitempty"`
	Rating             float64   `json:"rating"`
	AvailabilityStatus string    `json:"availability_status,omitempty"`
	HouseType          string    `json:"house_type,omitempty"`
	CreatedAt          Timestamp `json:"created_at"`
}

// Validate checks the fields the frontend relies on.
func (m *Mover) Validate() error {
	if m.ID <= 0 {
		return fmt.Errorf("mover: invalid id %d", m.ID)
	}
	if m.CompanyName == "" {
		return fmt.Errorf("mover %d: missing company name", m.ID)
	}
	return nil
}
