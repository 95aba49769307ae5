package models

import "time"

const (
	CashAdd    = "add"
	CashRemove = "remove"
)

type CashTransaction struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	User        string    `json:"user"`
	Notes       string    `json:"notes,omitempty"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
}
