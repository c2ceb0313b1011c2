package jobs

import (
	"time"

	"github.com/google/uuid"

	"github.com/tradehub-app/tradehub-backend/pkg/db/models"
	"github.com/tradehub-app/tradehub-backend/pkg/enums"
	"github.com/tradehub-app/tradehub-backend/pkg/types"
)

// JobDTO is the transport shape for a job with its planned materials.
type JobDTO struct {
	ID           uuid.UUID       `json:"id"`
	ClientID     uuid.UUID       `json:"client_id"`
	QuoteID      *uuid.UUID      `json:"quote_id,omitempty"`
	Title        string          `json:"title"`
	Description  *string         `json:"description,omitempty"`
	Status       enums.JobStatus `json:"status"`
	ScheduledFor *time.Time      `json:"scheduled_for,omitempty"`
	Materials    []MaterialDTO   `json:"materials"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// MaterialDTO is one planned material line on a job.
type MaterialDTO struct {
	ID       uuid.UUID `json:"id"`
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int       `json:"quantity"`
}

// CreateJobInput holds the validated payload to create a job.
type CreateJobInput struct {
	ClientID    uuid.UUID
	Title       string
	Description *string
	Materials   []MaterialInput
}

// MaterialInput names one item requirement.
type MaterialInput struct {
	ItemID   uuid.UUID
	Quantity int
}

// TransitionInput moves a job to a new status. ScheduledFor is only
// meaningful when the target is SCHEDULED.
type TransitionInput struct {
	Status       enums.JobStatus
	ScheduledFor *time.Time
}

// JobResult pairs a job with any stock warnings its transition produced.
type JobResult struct {
	Job      JobDTO               `json:"job"`
	Warnings []types.StockWarning `json:"warnings,omitempty"`
}

// JobListResult carries one page of jobs plus the next cursor.
type JobListResult struct {
	Jobs       []JobDTO `json:"jobs"`
	NextCursor string   `json:"next_cursor,omitempty"`
}

func fromModel(job *models.Job) *JobDTO {
	if job == nil {
		return nil
	}
	dto := &JobDTO{
		ID:           job.ID,
		ClientID:     job.ClientID,
		QuoteID:      job.QuoteID,
		Title:        job.Title,
		Description:  job.Description,
		Status:       job.Status,
		ScheduledFor: job.ScheduledFor,
		Materials:    make([]MaterialDTO, 0, len(job.Materials)),
		CreatedAt:    job.CreatedAt,
		UpdatedAt:    job.UpdatedAt,
	}
	for _, material := range job.Materials {
		dto.Materials = append(dto.Materials, MaterialDTO{
			ID:       material.ID,
			ItemID:   material.ItemID,
			Quantity: material.Quantity,
		})
	}
	return dto
}
