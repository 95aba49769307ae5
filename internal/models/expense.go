package models

import "time"

type Expense struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	User        string    `json:"user"`
	Date        string    `json:"date"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
}
