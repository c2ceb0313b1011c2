package quotes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradehub-app/tradehub-backend/internal/jobs"
	"github.com/tradehub-app/tradehub-backend/pkg/db"
	"github.com/tradehub-app/tradehub-backend/pkg/db/models"
	"github.com/tradehub-app/tradehub-backend/pkg/enums"
	pkgerrors "github.com/tradehub-app/tradehub-backend/pkg/errors"
	"github.com/tradehub-app/tradehub-backend/pkg/pagination"
	"github.com/tradehub-app/tradehub-backend/pkg/types"
)

// Service exposes the quote lifecycle. Quotes are numbered per company,
// stay editable while PENDING, and approval spawns a job carrying the
// item-backed lines as planned materials.
type Service interface {
	Create(ctx context.Context, companyID uuid.UUID, input CreateQuoteInput) (*QuoteDTO, error)
	Get(ctx context.Context, companyID, quoteID uuid.UUID) (*QuoteDTO, error)
	List(ctx context.Context, companyID uuid.UUID, params pagination.Params) (*QuoteListResult, error)
	AddLineItem(ctx context.Context, companyID, quoteID uuid.UUID, input LineItemInput) (*LineItemResult, error)
	UpdateLineItem(ctx context.Context, companyID, quoteID, lineID uuid.UUID, input UpdateLineItemInput) (*LineItemResult, error)
	Approve(ctx context.Context, companyID, quoteID uuid.UUID) (*ApprovalResult, error)
	Decline(ctx context.Context, companyID, quoteID uuid.UUID) (*QuoteDTO, error)
	CopyMaterialsToJob(ctx context.Context, companyID, quoteID, jobID uuid.UUID) (*CopyResult, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type clientLoader interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*models.Client, error)
}

type availabilityChecker interface {
	CheckAvailability(ctx context.Context, companyID, itemID uuid.UUID, quantity int) (*types.StockWarning, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	clients clientLoader
	jobRepo jobs.Repository
	stock   availabilityChecker
}

// NewService constructs a quote service instance.
func NewService(repo Repository, tx txRunner, clients clientLoader, jobRepo jobs.Repository, stock availabilityChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("quote repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if clients == nil {
		return nil, fmt.Errorf("client repository required")
	}
	if jobRepo == nil {
		return nil, fmt.Errorf("job repository required")
	}
	if stock == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	return &service{repo: repo, tx: tx, clients: clients, jobRepo: jobRepo, stock: stock}, nil
}

func (s *service) Create(ctx context.Context, companyID uuid.UUID, input CreateQuoteInput) (*QuoteDTO, error) {
	if companyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id is required")
	}
	for i := range input.LineItems {
		if err := validateLineItem(&input.LineItems[i]); err != nil {
			return nil, err
		}
	}

	if _, err := s.clients.FindByID(ctx, companyID, input.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load client")
	}

	quote := &models.Quote{
		CompanyID: companyID,
		ClientID:  input.ClientID,
		Status:    enums.QuoteStatusPending,
		Notes:     input.Notes,
	}
	for _, line := range input.LineItems {
		quote.LineItems = append(quote.LineItems, models.QuoteLineItem{
			ItemID:      line.ItemID,
			Description: strings.TrimSpace(line.Description),
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		})
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		number, err := txRepo.NextQuoteNumber(ctx, companyID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: next quote number")
		}
		quote.QuoteNumber = number
		if _, err := txRepo.Create(ctx, quote); err != nil {
			if db.IsUniqueViolation(err, "uq_quotes_company_number") {
				return pkgerrors.New(pkgerrors.CodeConflict, "quote number already taken, retry")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert quote")
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create quote")
	}

	return s.Get(ctx, companyID, quote.ID)
}

func (s *service) Get(ctx context.Context, companyID, quoteID uuid.UUID) (*QuoteDTO, error) {
	quote, err := s.findScoped(ctx, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	return fromModel(quote), nil
}

func (s *service) List(ctx context.Context, companyID uuid.UUID, params pagination.Params) (*QuoteListResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, companyID, limit+1, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list quotes")
	}

	result := &QuoteListResult{Quotes: make([]QuoteDTO, 0, len(rows))}
	if len(rows) > limit {
		last := rows[limit-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		rows = rows[:limit]
	}
	for i := range rows {
		result.Quotes = append(result.Quotes, *fromModel(&rows[i]))
	}
	return result, nil
}

// AddLineItem appends a line to a PENDING quote. Item-backed lines are
// checked against current availability and a shortfall comes back as a
// warning, never an error.
func (s *service) AddLineItem(ctx context.Context, companyID, quoteID uuid.UUID, input LineItemInput) (*LineItemResult, error) {
	if err := validateLineItem(&input); err != nil {
		return nil, err
	}

	quote, err := s.findScoped(ctx, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	if quote.Status != enums.QuoteStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("line items cannot be added to a %s quote", quote.Status))
	}

	result := &LineItemResult{}
	if input.ItemID != nil {
		warning, err := s.stock.CheckAvailability(ctx, companyID, *input.ItemID, input.Quantity)
		if err != nil {
			return nil, err
		}
		if warning != nil {
			result.Warnings = append(result.Warnings, *warning)
		}
	}

	line := &models.QuoteLineItem{
		QuoteID:     quote.ID,
		ItemID:      input.ItemID,
		Description: strings.TrimSpace(input.Description),
		Quantity:    input.Quantity,
		UnitPrice:   input.UnitPrice,
	}
	if err := s.repo.CreateLineItem(ctx, line); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert quote line item")
	}

	updated, err := s.findScoped(ctx, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	result.Quote = *fromModel(updated)
	return result, nil
}

// UpdateLineItem mutates one line on a PENDING quote. Raising an item-backed
// quantity re-checks availability and surfaces a warning on shortfall.
func (s *service) UpdateLineItem(ctx context.Context, companyID, quoteID, lineID uuid.UUID, input UpdateLineItemInput) (*LineItemResult, error) {
	quote, err := s.findScoped(ctx, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	if quote.Status != enums.QuoteStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("line items cannot be changed on a %s quote", quote.Status))
	}

	var line *models.QuoteLineItem
	for i := range quote.LineItems {
		if quote.LineItems[i].ID == lineID {
			line = &quote.LineItems[i]
			break
		}
	}
	if line == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "line item not found")
	}

	if input.Description != nil {
		desc := strings.TrimSpace(*input.Description)
		if desc == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item description is required")
		}
		line.Description = desc
	}
	if input.UnitPrice != nil {
		if input.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item unit price cannot be negative")
		}
		line.UnitPrice = *input.UnitPrice
	}

	result := &LineItemResult{}
	if input.Quantity != nil {
		if *input.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item quantity must be positive")
		}
		if line.ItemID != nil && *input.Quantity > line.Quantity {
			warning, err := s.stock.CheckAvailability(ctx, companyID, *line.ItemID, *input.Quantity)
			if err != nil {
				return nil, err
			}
			if warning != nil {
				result.Warnings = append(result.Warnings, *warning)
			}
		}
		line.Quantity = *input.Quantity
	}

	if err := s.repo.UpdateLineItem(ctx, line); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update quote line item")
	}

	updated, err := s.findScoped(ctx, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	result.Quote = *fromModel(updated)
	return result, nil
}

// Approve marks a PENDING quote APPROVED and creates the PENDING job in the
// same transaction, carrying the item-backed lines as planned materials.
// Stock is not touched until the job is scheduled.
func (s *service) Approve(ctx context.Context, companyID, quoteID uuid.UUID) (*ApprovalResult, error) {
	quote, err := s.findScoped(ctx, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	if quote.Status != enums.QuoteStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("quote is %s and can no longer be approved", quote.Status))
	}

	client, err := s.clients.FindByID(ctx, companyID, quote.ClientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load client")
	}

	now := time.Now().UTC()
	quote.Status = enums.QuoteStatusApproved
	quote.ApprovedAt = &now

	job := &models.Job{
		CompanyID: companyID,
		ClientID:  quote.ClientID,
		QuoteID:   &quote.ID,
		Title:     fmt.Sprintf("Job for %s (quote %d)", client.Name, quote.QuoteNumber),
		Status:    enums.JobStatusPending,
	}
	if quote.Notes != nil {
		job.Description = quote.Notes
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Update(ctx, quote); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: approve quote")
		}
		txJobs := s.jobRepo.WithTx(tx)
		if _, err := txJobs.Create(ctx, job); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert job")
		}
		materials := make([]models.JobMaterial, 0, len(quote.LineItems))
		for _, line := range quote.LineItems {
			if line.ItemID == nil {
				continue
			}
			materials = append(materials, models.JobMaterial{
				JobID:    job.ID,
				ItemID:   *line.ItemID,
				Quantity: line.Quantity,
			})
		}
		if err := txJobs.CreateMaterials(ctx, materials); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert job materials")
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve quote")
	}

	return &ApprovalResult{Quote: *fromModel(quote), JobID: job.ID}, nil
}

// Decline marks a PENDING quote DECLINED. Nothing else changes.
func (s *service) Decline(ctx context.Context, companyID, quoteID uuid.UUID) (*QuoteDTO, error) {
	quote, err := s.findScoped(ctx, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	if quote.Status != enums.QuoteStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("quote is %s and can no longer be declined", quote.Status))
	}

	quote.Status = enums.QuoteStatusDeclined
	if _, err := s.repo.Update(ctx, quote); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: decline quote")
	}
	return fromModel(quote), nil
}

// CopyMaterialsToJob copies the quote's item-backed lines into an existing
// job's planned materials. Approval does not do this automatically; it is an
// explicit action. No ledger rows are written here; the quantities are
// reserved when the job is scheduled.
func (s *service) CopyMaterialsToJob(ctx context.Context, companyID, quoteID, jobID uuid.UUID) (*CopyResult, error) {
	quote, err := s.findScoped(ctx, companyID, quoteID)
	if err != nil {
		return nil, err
	}

	job, err := s.jobRepo.FindByID(ctx, companyID, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "job not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load job")
	}
	switch job.Status {
	case enums.JobStatusCompleted, enums.JobStatusCanceled:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("materials cannot be copied to a %s job", job.Status))
	}

	result := &CopyResult{JobID: job.ID}
	materials := make([]models.JobMaterial, 0, len(quote.LineItems))
	for _, line := range quote.LineItems {
		if line.ItemID == nil {
			continue
		}
		warning, err := s.stock.CheckAvailability(ctx, companyID, *line.ItemID, line.Quantity)
		if err != nil {
			return nil, err
		}
		if warning != nil {
			result.Warnings = append(result.Warnings, *warning)
		}
		materials = append(materials, models.JobMaterial{
			JobID:    job.ID,
			ItemID:   *line.ItemID,
			Quantity: line.Quantity,
		})
	}
	if err := s.jobRepo.CreateMaterials(ctx, materials); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert job materials")
	}
	result.Copied = len(materials)
	return result, nil
}

func (s *service) findScoped(ctx context.Context, companyID, quoteID uuid.UUID) (*models.Quote, error) {
	quote, err := s.repo.FindByID(ctx, companyID, quoteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load quote")
	}
	return quote, nil
}

func validateLineItem(line *LineItemInput) error {
	if strings.TrimSpace(line.Description) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "line item description is required")
	}
	if line.Quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "line item quantity must be positive")
	}
	if line.UnitPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "line item unit price cannot be negative")
	}
	return nil
}
