package models

import "time"

// Appointment is one slot on the agenda. Date is YYYY-MM-DD and Time is a
// zero-padded HH:mm so both sort lexicographically.
type Appointment struct {
	ID string `json:"id"`

	ClientName  string  `json:"clientName"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	ServiceType string  `json:"serviceType"`
	Price       float64 `json:"price"`
	Notes       string  `json:"notes,omitempty"`

	Status   string `json:"status"`
	Finished bool   `json:"finished"`
	Paid     bool   `json:"paid"`

	PaymentType string    `json:"paymentType,omitempty"`
	FinishNotes string    `json:"finishNotes,omitempty"`
	FinishedAt  time.Time `json:"finishedAt,omitzero"`

	Employee   string `json:"employee,omitempty"`
	EmployeeID string `json:"employeeId,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitzero"`
}
