package quotes

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradehub-app/tradehub-backend/pkg/db/models"
	"github.com/tradehub-app/tradehub-backend/pkg/enums"
	"github.com/tradehub-app/tradehub-backend/pkg/types"
)

// QuoteDTO is the transport shape for a quote with its line items.
type QuoteDTO struct {
	ID          uuid.UUID         `json:"id"`
	ClientID    uuid.UUID         `json:"client_id"`
	QuoteNumber int               `json:"quote_number"`
	Status      enums.QuoteStatus `json:"status"`
	Notes       *string           `json:"notes,omitempty"`
	ApprovedAt  *time.Time        `json:"approved_at,omitempty"`
	LineItems   []LineItemDTO     `json:"line_items"`
	Total       decimal.Decimal   `json:"total"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// LineItemDTO is one priced line on a quote. ItemID is set only for lines
// backed by an inventory item.
type LineItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ItemID      *uuid.UUID      `json:"item_id,omitempty"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// CreateQuoteInput holds the validated payload to create a quote.
type CreateQuoteInput struct {
	ClientID  uuid.UUID
	Notes     *string
	LineItems []LineItemInput
}

// LineItemInput names one line to add to a quote.
type LineItemInput struct {
	ItemID      *uuid.UUID
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// ApprovalResult pairs the approved quote with the job spawned from it.
type ApprovalResult struct {
	Quote QuoteDTO  `json:"quote"`
	JobID uuid.UUID `json:"job_id"`
}

// LineItemResult carries the refreshed quote plus any stock warning the new
// line produced.
type LineItemResult struct {
	Quote    QuoteDTO             `json:"quote"`
	Warnings []types.StockWarning `json:"warnings,omitempty"`
}

// UpdateLineItemInput mutates one line on a PENDING quote. Nil fields keep
// their current value.
type UpdateLineItemInput struct {
	Description *string
	Quantity    *int
	UnitPrice   *decimal.Decimal
}

// CopyResult reports how many lines were copied into job materials.
type CopyResult struct {
	JobID    uuid.UUID            `json:"job_id"`
	Copied   int                  `json:"copied"`
	Warnings []types.StockWarning `json:"warnings,omitempty"`
}

// QuoteListResult carries one page of quotes plus the next cursor.
type QuoteListResult struct {
	Quotes     []QuoteDTO `json:"quotes"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

func fromModel(quote *models.Quote) *QuoteDTO {
	if quote == nil {
		return nil
	}
	dto := &QuoteDTO{
		ID:          quote.ID,
		ClientID:    quote.ClientID,
		QuoteNumber: quote.QuoteNumber,
		Status:      quote.Status,
		Notes:       quote.Notes,
		ApprovedAt:  quote.ApprovedAt,
		LineItems:   make([]LineItemDTO, 0, len(quote.LineItems)),
		Total:       decimal.Zero,
		CreatedAt:   quote.CreatedAt,
		UpdatedAt:   quote.UpdatedAt,
	}
	for _, line := range quote.LineItems {
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		dto.LineItems = append(dto.LineItems, LineItemDTO{
			ID:          line.ID,
			ItemID:      line.ItemID,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   lineTotal,
		})
		dto.Total = dto.Total.Add(lineTotal)
	}
	return dto
}
