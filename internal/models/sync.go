package models

import "time"

// ===============================
// Derived daily data
// ===============================

type DailyAggregate struct {
	Profit   float64            `json:"profit"`
	Cuts     int                `json:"cuts"`
	Services []ServiceRecord    `json:"services"`
	Payments map[string]float64 `json:"payments"`
}

type ServiceRecord struct {
	Client        string    `json:"client,omitempty"`
	Service       string    `json:"service,omitempty"`
	Employee      string    `json:"employee,omitempty"`
	AppointmentID string    `json:"appointmentId,omitempty"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"paymentMethod"`
	Timestamp     time.Time `json:"timestamp"`
}

type CompletedCut struct {
	ID            string    `json:"id"`
	Client        string    `json:"client"`
	Service       string    `json:"service"`
	Price         float64   `json:"price"`
	PaymentMethod string    `json:"paymentMethod"`
	Employee      string    `json:"employee"`
	EmployeeID    string    `json:"employeeId,omitempty"`
	Time          string    `json:"time"`
	Date          string    `json:"date"`
	FinishedAt    time.Time `json:"finishedAt"`
	Notes         string    `json:"notes,omitempty"`
}

const (
	SaleService    = "service"
	SaleProduct    = "product"
	SaleHistorical = "historico"
)

// Sale is one entry of the cash register log. CutID links a sale that was
// cross-posted from a completed cut; imported ledger lines carry Origin.
type Sale struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Description   string    `json:"description"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"paymentMethod"`
	ClientName    string    `json:"clientName,omitempty"`
	Employee      string    `json:"employee,omitempty"`
	EmployeeID    string    `json:"employeeId,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	Timestamp     time.Time `json:"timestamp"`

	CutID      string  `json:"cutId,omitempty"`
	Service    string  `json:"service,omitempty"`
	Commission float64 `json:"commission,omitempty"`
	Origin     string  `json:"origin,omitempty"`
}

// Activity is stored with its absolute time only; DisplayTime is filled when
// the feed is read.
type Activity struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Time        time.Time `json:"time"`
	DisplayTime string    `json:"displayTime,omitempty"`
}
