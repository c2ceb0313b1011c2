package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	jobsvc "github.com/tradehub-app/tradehub-backend/internal/jobs"
	"github.com/tradehub-app/tradehub-backend/pkg/enums"
	pkgerrors "github.com/tradehub-app/tradehub-backend/pkg/errors"
	"github.com/tradehub-app/tradehub-backend/pkg/pagination"
)

type stubJobService struct {
	transitions   []jobsvc.TransitionInput
	transitionErr error
	material      *jobsvc.MaterialInput
	consumed      bool
	consumeInputs []jobsvc.MaterialInput
}

func (s *stubJobService) Create(ctx context.Context, companyID uuid.UUID, input jobsvc.CreateJobInput) (*jobsvc.JobDTO, error) {
	return &jobsvc.JobDTO{ID: uuid.New(), ClientID: input.ClientID, Title: input.Title, Status: enums.JobStatusPending}, nil
}

func (s *stubJobService) Get(ctx context.Context, companyID, jobID uuid.UUID) (*jobsvc.JobDTO, error) {
	return &jobsvc.JobDTO{ID: jobID, Status: enums.JobStatusPending}, nil
}

func (s *stubJobService) List(ctx context.Context, companyID uuid.UUID, params pagination.Params) (*jobsvc.JobListResult, error) {
	return &jobsvc.JobListResult{}, nil
}

func (s *stubJobService) Transition(ctx context.Context, companyID, jobID uuid.UUID, input jobsvc.TransitionInput) (*jobsvc.JobResult, error) {
	if s.transitionErr != nil {
		return nil, s.transitionErr
	}
	s.transitions = append(s.transitions, input)
	return &jobsvc.JobResult{Job: jobsvc.JobDTO{ID: jobID, Status: input.Status}}, nil
}

func (s *stubJobService) AddMaterial(ctx context.Context, companyID, jobID uuid.UUID, input jobsvc.MaterialInput) (*jobsvc.JobResult, error) {
	s.material = &input
	return &jobsvc.JobResult{Job: jobsvc.JobDTO{ID: jobID, Status: enums.JobStatusPending}}, nil
}

func (s *stubJobService) ConsumeMaterials(ctx context.Context, companyID, jobID uuid.UUID, materials []jobsvc.MaterialInput) (*jobsvc.JobResult, error) {
	s.consumed = true
	s.consumeInputs = materials
	return &jobsvc.JobResult{Job: jobsvc.JobDTO{ID: jobID, Status: enums.JobStatusInProgress}}, nil
}

func TestJobScheduleEndpoint(t *testing.T) {
	logg := testLogger()
	companyID := uuid.New()
	jobID := uuid.New()

	t.Run("empty body defaults", func(t *testing.T) {
		stub := &stubJobService{}
		ctx := withURLParam(tenantContext(companyID), "jobId", jobID.String())
		req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/"+jobID.String()+"/schedule", nil).WithContext(ctx)
		rec := httptest.NewRecorder()

		JobSchedule(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(stub.transitions) != 1 || stub.transitions[0].Status != enums.JobStatusScheduled {
			t.Fatalf("expected a SCHEDULED transition, got %+v", stub.transitions)
		}
		if stub.transitions[0].ScheduledFor != nil {
			t.Fatalf("expected no scheduled_for without a body")
		}
	})

	t.Run("scheduled_for passed through", func(t *testing.T) {
		stub := &stubJobService{}
		ctx := withURLParam(tenantContext(companyID), "jobId", jobID.String())
		body := `{"scheduled_for":"2026-09-15T08:00:00Z"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/"+jobID.String()+"/schedule", strings.NewReader(body)).WithContext(ctx)
		rec := httptest.NewRecorder()

		JobSchedule(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		want := time.Date(2026, 9, 15, 8, 0, 0, 0, time.UTC)
		if got := stub.transitions[0].ScheduledFor; got == nil || !got.Equal(want) {
			t.Fatalf("expected scheduled_for %s, got %v", want, got)
		}
	})
}

func TestJobTransitionEndpoints(t *testing.T) {
	logg := testLogger()
	companyID := uuid.New()
	jobID := uuid.New()

	run := func(t *testing.T, build func(*stubJobService) http.HandlerFunc, want enums.JobStatus) {
		stub := &stubJobService{}
		ctx := withURLParam(tenantContext(companyID), "jobId", jobID.String())
		req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/"+jobID.String()+"/x", nil).WithContext(ctx)
		rec := httptest.NewRecorder()

		build(stub).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(stub.transitions) != 1 || stub.transitions[0].Status != want {
			t.Fatalf("expected %s transition, got %+v", want, stub.transitions)
		}
	}

	t.Run("start", func(t *testing.T) {
		run(t, func(s *stubJobService) http.HandlerFunc { return JobStart(s, logg) }, enums.JobStatusInProgress)
	})
	t.Run("complete", func(t *testing.T) {
		run(t, func(s *stubJobService) http.HandlerFunc { return JobComplete(s, logg) }, enums.JobStatusCompleted)
	})
	t.Run("cancel", func(t *testing.T) {
		run(t, func(s *stubJobService) http.HandlerFunc { return JobCancel(s, logg) }, enums.JobStatusCanceled)
	})

	t.Run("disallowed move returns 422", func(t *testing.T) {
		stub := &stubJobService{transitionErr: pkgerrors.New(pkgerrors.CodeStateConflict, "cannot move job from COMPLETED to IN_PROGRESS")}
		ctx := withURLParam(tenantContext(companyID), "jobId", jobID.String())
		req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/"+jobID.String()+"/start", nil).WithContext(ctx)
		rec := httptest.NewRecorder()

		JobStart(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
	})
}

func TestJobAddMaterialEndpoint(t *testing.T) {
	logg := testLogger()
	companyID := uuid.New()
	jobID := uuid.New()
	itemID := uuid.New()

	t.Run("created", func(t *testing.T) {
		stub := &stubJobService{}
		ctx := withURLParam(tenantContext(companyID), "jobId", jobID.String())
		body := `{"item_id":"` + itemID.String() + `","quantity":4}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/"+jobID.String()+"/materials", strings.NewReader(body)).WithContext(ctx)
		rec := httptest.NewRecorder()

		JobAddMaterial(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.material == nil || stub.material.ItemID != itemID || stub.material.Quantity != 4 {
			t.Fatalf("unexpected material input: %+v", stub.material)
		}
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		ctx := withURLParam(tenantContext(companyID), "jobId", jobID.String())
		body := `{"item_id":"` + itemID.String() + `","quantity":0}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/"+jobID.String()+"/materials", strings.NewReader(body)).WithContext(ctx)
		rec := httptest.NewRecorder()

		JobAddMaterial(&stubJobService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for zero quantity, got %d", rec.Code)
		}
	})
}

func TestJobConsumeEndpoint(t *testing.T) {
	logg := testLogger()
	companyID := uuid.New()
	jobID := uuid.New()

	t.Run("empty body consumes everything", func(t *testing.T) {
		stub := &stubJobService{}
		ctx := withURLParam(tenantContext(companyID), "jobId", jobID.String())
		req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/"+jobID.String()+"/consume", nil).WithContext(ctx)
		rec := httptest.NewRecorder()

		JobConsume(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !stub.consumed {
			t.Fatalf("expected ConsumeMaterials to be invoked")
		}
		if len(stub.consumeInputs) != 0 {
			t.Fatalf("expected no materials without a body, got %+v", stub.consumeInputs)
		}
	})

	t.Run("materials body forwarded", func(t *testing.T) {
		stub := &stubJobService{}
		itemID := uuid.New()
		ctx := withURLParam(tenantContext(companyID), "jobId", jobID.String())
		body := `{"materials":[{"item_id":"` + itemID.String() + `","quantity":5}]}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/"+jobID.String()+"/consume", strings.NewReader(body)).WithContext(ctx)
		rec := httptest.NewRecorder()

		JobConsume(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(stub.consumeInputs) != 1 || stub.consumeInputs[0].ItemID != itemID || stub.consumeInputs[0].Quantity != 5 {
			t.Fatalf("materials not forwarded: %+v", stub.consumeInputs)
		}
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		ctx := withURLParam(tenantContext(companyID), "jobId", jobID.String())
		body := `{"materials":[{"item_id":"` + uuid.NewString() + `","quantity":0}]}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/"+jobID.String()+"/consume", strings.NewReader(body)).WithContext(ctx)
		rec := httptest.NewRecorder()

		JobConsume(&stubJobService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for zero quantity, got %d", rec.Code)
		}
	})
}
