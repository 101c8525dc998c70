package entity

import "time"

type ContactMessage struct {
	ID uint64

	Name    string
	Email   string
	Phone   *string
	Subject string
	Message string

	Read bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
