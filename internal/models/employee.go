package models

import "time"

type Employee struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Phone      string  `json:"phone"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
	Commission float64 `json:"commission"`
	Notes      string  `json:"notes,omitempty"`

	Credentials *Credentials `json:"credentials,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// Password holds a bcrypt hash. Records written by older consoles may still
// carry the plain value until the next successful login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Active   bool   `json:"active"`
}

// PublicEmployee is what leaves the API: never the password.
type PublicEmployee struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Commission float64   `json:"commission"`
	Notes      string    `json:"notes,omitempty"`
	Username   string    `json:"username,omitempty"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"createdAt,omitzero"`
}

func (e Employee) Public() PublicEmployee {
	p := PublicEmployee{
		ID:         e.ID,
		Name:       e.Name,
		Phone:      e.Phone,
		Email:      e.Email,
		Role:       e.Role,
		Commission: e.Commission,
		Notes:      e.Notes,
		CreatedAt:  e.CreatedAt,
	}
	if e.Credentials != nil {
		p.Username = e.Credentials.Username
		p.Active = e.Credentials.Active
	}
	return p
}
