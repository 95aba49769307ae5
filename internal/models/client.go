package models

import "time"

// Cliente da barbearia, com pacote de cortes opcional
type Client struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Birthdate string `json:"birthdate,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CutsCount int    `json:"cutsCount"`

	Package *ClientPackage `json:"package,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitzero"`
}

type ClientPackage struct {
	Type      string  `json:"type"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	TotalCuts int     `json:"totalCuts"`
	UsedCuts  int     `json:"usedCuts"`
	Price     float64 `json:"price"`
	Active    bool    `json:"active"`
}
