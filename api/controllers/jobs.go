package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tradehub-app/tradehub-backend/api/responses"
	"github.com/tradehub-app/tradehub-backend/api/validators"
	jobsvc "github.com/tradehub-app/tradehub-backend/internal/jobs"
	"github.com/tradehub-app/tradehub-backend/pkg/enums"
	pkgerrors "github.com/tradehub-app/tradehub-backend/pkg/errors"
	"github.com/tradehub-app/tradehub-backend/pkg/logger"
)

type jobMaterialRequest struct {
	ItemID   string `json:"item_id" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

type createJobRequest struct {
	ClientID    string               `json:"client_id" validate:"required,uuid"`
	Title       string               `json:"title" validate:"required,max=200"`
	Description *string              `json:"description,omitempty" validate:"omitempty,max=2000"`
	Materials   []jobMaterialRequest `json:"materials" validate:"omitempty,dive"`
}

type scheduleJobRequest struct {
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
}

type consumeJobRequest struct {
	Materials []jobMaterialRequest `json:"materials" validate:"omitempty,dive"`
}

func (p jobMaterialRequest) toInput() (jobsvc.MaterialInput, error) {
	itemID, err := uuid.Parse(p.ItemID)
	if err != nil {
		return jobsvc.MaterialInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid item_id")
	}
	return jobsvc.MaterialInput{ItemID: itemID, Quantity: p.Quantity}, nil
}

func JobCreate(svc jobsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createJobRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		clientID, err := uuid.Parse(payload.ClientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid client_id"))
			return
		}

		input := jobsvc.CreateJobInput{
			ClientID:    clientID,
			Title:       validators.SanitizeString(payload.Title, 200),
			Description: validators.SanitizeStringPtr(payload.Description, 2000),
		}
		for _, material := range payload.Materials {
			materialInput, materialErr := material.toInput()
			if materialErr != nil {
				responses.WriteError(r.Context(), logg, w, materialErr)
				return
			}
			input.Materials = append(input.Materials, materialInput)
		}

		job, err := svc.Create(r.Context(), companyID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, job)
	}
}

func JobGet(svc jobsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		jobID, err := validators.PathUUID(chi.URLParam(r, "jobId"), "jobId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		job, err := svc.Get(r.Context(), companyID, jobID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, job)
	}
}

func JobList(svc jobsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := validators.PaginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), companyID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// JobSchedule moves a job to SCHEDULED and reserves its materials. The
// body may carry an optional scheduled_for timestamp.
func JobSchedule(svc jobsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		jobID, err := validators.PathUUID(chi.URLParam(r, "jobId"), "jobId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := jobsvc.TransitionInput{Status: enums.JobStatusScheduled}
		if r.ContentLength != 0 {
			var payload scheduleJobRequest
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.ScheduledFor = payload.ScheduledFor
		}

		result, err := svc.Transition(r.Context(), companyID, jobID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func JobStart(svc jobsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return jobTransition(svc, logg, enums.JobStatusInProgress)
}

func JobComplete(svc jobsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return jobTransition(svc, logg, enums.JobStatusCompleted)
}

func JobCancel(svc jobsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return jobTransition(svc, logg, enums.JobStatusCanceled)
}

func jobTransition(svc jobsvc.Service, logg *logger.Logger, status enums.JobStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		jobID, err := validators.PathUUID(chi.URLParam(r, "jobId"), "jobId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Transition(r.Context(), companyID, jobID, jobsvc.TransitionInput{Status: status})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func JobAddMaterial(svc jobsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		jobID, err := validators.PathUUID(chi.URLParam(r, "jobId"), "jobId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload jobMaterialRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AddMaterial(r.Context(), companyID, jobID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func JobConsume(svc jobsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		jobID, err := validators.PathUUID(chi.URLParam(r, "jobId"), "jobId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// An empty body consumes everything still reserved on the job.
		var materials []jobsvc.MaterialInput
		if r.ContentLength != 0 {
			var payload consumeJobRequest
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			for _, material := range payload.Materials {
				input, err := material.toInput()
				if err != nil {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
				materials = append(materials, input)
			}
		}

		result, err := svc.ConsumeMaterials(r.Context(), companyID, jobID, materials)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
