package clients

import (
	"time"

	"github.com/google/uuid"

	"github.com/tradehub-app/tradehub-backend/pkg/db/models"
)

// ClientDTO is the transport shape for client records.
type ClientDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      *string   `json:"email,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	Address    *string   `json:"address,omitempty"`
	City       *string   `json:"city,omitempty"`
	PostalCode *string   `json:"postal_code,omitempty"`
	Notes      *string   `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateClientInput holds the validated payload to create a client.
type CreateClientInput struct {
	Name       string
	Email      *string
	Phone      *string
	Address    *string
	City       *string
	PostalCode *string
	Notes      *string
}

// UpdateClientInput holds optional mutation values for a client.
type UpdateClientInput struct {
	Name       *string
	Email      *string
	Phone      *string
	Address    *string
	City       *string
	PostalCode *string
	Notes      *string
}

// ClientListResult carries one page of clients plus the next cursor.
type ClientListResult struct {
	Clients    []ClientDTO `json:"clients"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

func FromModel(c *models.Client) *ClientDTO {
	if c == nil {
		return nil
	}
	return &ClientDTO{
		ID:         c.ID,
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		Address:    c.Address,
		City:       c.City,
		PostalCode: c.PostalCode,
		Notes:      c.Notes,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}
