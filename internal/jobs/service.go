package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradehub-app/tradehub-backend/internal/inventory"
	"github.com/tradehub-app/tradehub-backend/pkg/db/models"
	"github.com/tradehub-app/tradehub-backend/pkg/enums"
	pkgerrors "github.com/tradehub-app/tradehub-backend/pkg/errors"
	"github.com/tradehub-app/tradehub-backend/pkg/pagination"
	"github.com/tradehub-app/tradehub-backend/pkg/types"
)

// Service exposes job management operations. Scheduling reserves the planned
// materials, cancellation releases them, and completion converts the
// reservations into consumption.
type Service interface {
	Create(ctx context.Context, companyID uuid.UUID, input CreateJobInput) (*JobDTO, error)
	Get(ctx context.Context, companyID, jobID uuid.UUID) (*JobDTO, error)
	List(ctx context.Context, companyID uuid.UUID, params pagination.Params) (*JobListResult, error)
	Transition(ctx context.Context, companyID, jobID uuid.UUID, input TransitionInput) (*JobResult, error)
	AddMaterial(ctx context.Context, companyID, jobID uuid.UUID, input MaterialInput) (*JobResult, error)
	ConsumeMaterials(ctx context.Context, companyID, jobID uuid.UUID, materials []MaterialInput) (*JobResult, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type clientLoader interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*models.Client, error)
}

// materialLedger is the slice of the inventory service the job flows drive.
type materialLedger interface {
	ReserveMaterialsForJob(ctx context.Context, companyID, jobID uuid.UUID, requirements []inventory.MaterialRequirement) (*inventory.ReservationResult, error)
	CancelReservationsForJob(ctx context.Context, companyID, jobID uuid.UUID) (*inventory.ReservationResult, error)
	ConsumeMaterialsForJob(ctx context.Context, companyID, jobID uuid.UUID, materials []inventory.MaterialRequirement) (*inventory.ReservationResult, error)
	CheckAvailability(ctx context.Context, companyID, itemID uuid.UUID, quantity int) (*types.StockWarning, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	clients clientLoader
	ledger  materialLedger
}

// NewService constructs a job service instance.
func NewService(repo Repository, tx txRunner, clients clientLoader, ledger materialLedger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("job repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if clients == nil {
		return nil, fmt.Errorf("client repository required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	return &service{repo: repo, tx: tx, clients: clients, ledger: ledger}, nil
}

func (s *service) Create(ctx context.Context, companyID uuid.UUID, input CreateJobInput) (*JobDTO, error) {
	if companyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id is required")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "job title is required")
	}
	for _, material := range input.Materials {
		if material.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "material quantity must be positive")
		}
	}

	if _, err := s.clients.FindByID(ctx, companyID, input.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load client")
	}

	job := &models.Job{
		CompanyID:   companyID,
		ClientID:    input.ClientID,
		Title:       title,
		Description: input.Description,
		Status:      enums.JobStatusPending,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.Create(ctx, job); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert job")
		}
		materials := make([]models.JobMaterial, 0, len(input.Materials))
		for _, material := range input.Materials {
			materials = append(materials, models.JobMaterial{
				JobID:    job.ID,
				ItemID:   material.ItemID,
				Quantity: material.Quantity,
			})
		}
		if err := txRepo.CreateMaterials(ctx, materials); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert job materials")
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create job")
	}

	return s.Get(ctx, companyID, job.ID)
}

func (s *service) Get(ctx context.Context, companyID, jobID uuid.UUID) (*JobDTO, error) {
	job, err := s.findScoped(ctx, companyID, jobID)
	if err != nil {
		return nil, err
	}
	return fromModel(job), nil
}

func (s *service) List(ctx context.Context, companyID uuid.UUID, params pagination.Params) (*JobListResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, companyID, limit+1, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list jobs")
	}

	result := &JobListResult{Jobs: make([]JobDTO, 0, len(rows))}
	if len(rows) > limit {
		last := rows[limit-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		rows = rows[:limit]
	}
	for i := range rows {
		result.Jobs = append(result.Jobs, *fromModel(&rows[i]))
	}
	return result, nil
}

// Transition moves the job along the status machine. Invalid moves are a
// state conflict and leave everything untouched.
func (s *service) Transition(ctx context.Context, companyID, jobID uuid.UUID, input TransitionInput) (*JobResult, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid job status %q", input.Status))
	}

	job, err := s.findScoped(ctx, companyID, jobID)
	if err != nil {
		return nil, err
	}
	if !job.Status.CanTransitionTo(input.Status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("job cannot move from %s to %s", job.Status, input.Status))
	}

	job.Status = input.Status
	if input.Status == enums.JobStatusScheduled {
		job.ScheduledFor = input.ScheduledFor
	}

	if _, err := s.repo.Update(ctx, job); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update job")
	}

	result := &JobResult{Job: *fromModel(job)}
	switch input.Status {
	case enums.JobStatusScheduled:
		requirements := make([]inventory.MaterialRequirement, 0, len(job.Materials))
		for _, material := range job.Materials {
			requirements = append(requirements, inventory.MaterialRequirement{
				ItemID:   material.ItemID,
				Quantity: material.Quantity,
			})
		}
		if len(requirements) > 0 {
			reserved, err := s.ledger.ReserveMaterialsForJob(ctx, companyID, job.ID, requirements)
			if err != nil {
				return nil, err
			}
			result.Warnings = reserved.Warnings
		}

	case enums.JobStatusCanceled:
		// Releases whatever is still reserved; a PENDING job has nothing
		// outstanding and this is a no-op.
		if _, err := s.ledger.CancelReservationsForJob(ctx, companyID, job.ID); err != nil {
			return nil, err
		}

	case enums.JobStatusCompleted:
		// Completion drains whatever is still reserved.
		consumed, err := s.ledger.ConsumeMaterialsForJob(ctx, companyID, job.ID, nil)
		if err != nil {
			return nil, err
		}
		result.Warnings = consumed.Warnings

	case enums.JobStatusInProgress:
		// Reservations stay in place while work happens.
	}

	return result, nil
}

// AddMaterial appends a planned material line. When the job is already
// scheduled or in progress the quantity is reserved immediately; before that
// the line only informs the future reservation.
func (s *service) AddMaterial(ctx context.Context, companyID, jobID uuid.UUID, input MaterialInput) (*JobResult, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "material quantity must be positive")
	}

	job, err := s.findScoped(ctx, companyID, jobID)
	if err != nil {
		return nil, err
	}
	switch job.Status {
	case enums.JobStatusCompleted, enums.JobStatusCanceled:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("materials cannot be added to a %s job", job.Status))
	}

	warning, err := s.ledger.CheckAvailability(ctx, companyID, input.ItemID, input.Quantity)
	if err != nil {
		return nil, err
	}

	material := models.JobMaterial{
		JobID:    job.ID,
		ItemID:   input.ItemID,
		Quantity: input.Quantity,
	}
	if err := s.repo.CreateMaterials(ctx, []models.JobMaterial{material}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert job material")
	}

	result := &JobResult{}
	if warning != nil {
		result.Warnings = append(result.Warnings, *warning)
	}

	if job.Status == enums.JobStatusScheduled || job.Status == enums.JobStatusInProgress {
		reserved, err := s.ledger.ReserveMaterialsForJob(ctx, companyID, job.ID, []inventory.MaterialRequirement{
			{ItemID: input.ItemID, Quantity: input.Quantity},
		})
		if err != nil {
			return nil, err
		}
		// The reservation recomputes the shortfall from a fresh read; keep
		// its warning unless it repeats the pre-check one.
		for _, w := range reserved.Warnings {
			if warning != nil && w == *warning {
				continue
			}
			result.Warnings = append(result.Warnings, w)
		}
	}

	updated, err := s.findScoped(ctx, companyID, jobID)
	if err != nil {
		return nil, err
	}
	result.Job = *fromModel(updated)
	return result, nil
}

// ConsumeMaterials converts reservations into consumption without finishing
// the job. An explicit materials list consumes those quantities; with none,
// everything outstanding is consumed. Completion later drains whatever is
// still outstanding.
func (s *service) ConsumeMaterials(ctx context.Context, companyID, jobID uuid.UUID, materials []MaterialInput) (*JobResult, error) {
	job, err := s.findScoped(ctx, companyID, jobID)
	if err != nil {
		return nil, err
	}
	switch job.Status {
	case enums.JobStatusScheduled, enums.JobStatusInProgress:
	default:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("materials cannot be consumed on a %s job", job.Status))
	}

	requirements := make([]inventory.MaterialRequirement, 0, len(materials))
	for _, material := range materials {
		if material.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "material quantity must be positive")
		}
		requirements = append(requirements, inventory.MaterialRequirement{
			ItemID:   material.ItemID,
			Quantity: material.Quantity,
		})
	}

	consumed, err := s.ledger.ConsumeMaterialsForJob(ctx, companyID, job.ID, requirements)
	if err != nil {
		return nil, err
	}
	return &JobResult{Job: *fromModel(job), Warnings: consumed.Warnings}, nil
}

func (s *service) findScoped(ctx context.Context, companyID, jobID uuid.UUID) (*models.Job, error) {
	job, err := s.repo.FindByID(ctx, companyID, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "job not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load job")
	}
	return job, nil
}
