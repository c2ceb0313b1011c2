package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	inventorysvc "github.com/tradehub-app/tradehub-backend/internal/inventory"
	"github.com/tradehub-app/tradehub-backend/pkg/enums"
	"github.com/tradehub-app/tradehub-backend/pkg/pagination"
	"github.com/tradehub-app/tradehub-backend/pkg/types"
)

type stubInventoryService struct {
	transaction *inventorysvc.CreateTransactionInput
	adjustment  *inventorysvc.AdjustStockInput
}

func (s *stubInventoryService) CreateItem(ctx context.Context, companyID uuid.UUID, input inventorysvc.CreateItemInput) (*inventorysvc.ItemDTO, error) {
	panic("unimplemented")
}

func (s *stubInventoryService) GetItem(ctx context.Context, companyID, itemID uuid.UUID) (*inventorysvc.ItemDTO, error) {
	panic("unimplemented")
}

func (s *stubInventoryService) UpdateItem(ctx context.Context, companyID, itemID uuid.UUID, input inventorysvc.UpdateItemInput) (*inventorysvc.ItemDTO, error) {
	panic("unimplemented")
}

func (s *stubInventoryService) DeleteItem(ctx context.Context, companyID, itemID uuid.UUID) error {
	panic("unimplemented")
}

func (s *stubInventoryService) ListItems(ctx context.Context, companyID uuid.UUID, params pagination.Params) (*inventorysvc.ItemListResult, error) {
	panic("unimplemented")
}

func (s *stubInventoryService) StockLevelsForItem(ctx context.Context, companyID, itemID uuid.UUID) (*inventorysvc.StockLevels, error) {
	panic("unimplemented")
}

func (s *stubInventoryService) CheckAvailability(ctx context.Context, companyID, itemID uuid.UUID, quantity int) (*types.StockWarning, error) {
	panic("unimplemented")
}

func (s *stubInventoryService) CreateTransaction(ctx context.Context, companyID uuid.UUID, input inventorysvc.CreateTransactionInput) (*inventorysvc.TransactionResult, error) {
	s.transaction = &input
	return &inventorysvc.TransactionResult{
		Transaction: inventorysvc.TransactionDTO{ID: uuid.New(), ItemID: input.ItemID, Quantity: input.Quantity, Type: input.Type},
	}, nil
}

func (s *stubInventoryService) AdjustStock(ctx context.Context, companyID, itemID uuid.UUID, input inventorysvc.AdjustStockInput) (*inventorysvc.TransactionResult, error) {
	s.adjustment = &input
	return &inventorysvc.TransactionResult{
		Transaction: inventorysvc.TransactionDTO{ID: uuid.New(), ItemID: itemID, Quantity: input.Quantity, Type: input.Type},
	}, nil
}

func (s *stubInventoryService) ListTransactions(ctx context.Context, companyID, itemID uuid.UUID, params pagination.Params) (*inventorysvc.TransactionListResult, error) {
	panic("unimplemented")
}

func (s *stubInventoryService) ReserveMaterialsForJob(ctx context.Context, companyID, jobID uuid.UUID, requirements []inventorysvc.MaterialRequirement) (*inventorysvc.ReservationResult, error) {
	panic("unimplemented")
}

func (s *stubInventoryService) CancelReservationsForJob(ctx context.Context, companyID, jobID uuid.UUID) (*inventorysvc.ReservationResult, error) {
	panic("unimplemented")
}

func (s *stubInventoryService) ConsumeMaterialsForJob(ctx context.Context, companyID, jobID uuid.UUID, materials []inventorysvc.MaterialRequirement) (*inventorysvc.ReservationResult, error) {
	panic("unimplemented")
}

func TestItemAdjustEndpoint(t *testing.T) {
	logg := testLogger()
	companyID := uuid.New()
	itemID := uuid.New()

	t.Run("quantity and type passed through", func(t *testing.T) {
		stub := &stubInventoryService{}
		ctx := withURLParam(tenantContext(companyID), "itemId", itemID.String())
		body := `{"quantity":-3,"type":"AUDIT_ADJUSTMENT","notes":"shelf recount"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/items/"+itemID.String()+"/adjust", strings.NewReader(body)).WithContext(ctx)
		rec := httptest.NewRecorder()

		ItemAdjust(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.adjustment == nil || stub.adjustment.Quantity != -3 {
			t.Fatalf("unexpected adjustment input: %+v", stub.adjustment)
		}
		if stub.adjustment.Type != enums.TransactionTypeAuditAdjustment {
			t.Fatalf("type not forwarded: %+v", stub.adjustment)
		}
	})

	t.Run("missing type", func(t *testing.T) {
		ctx := withURLParam(tenantContext(companyID), "itemId", itemID.String())
		req := httptest.NewRequest(http.MethodPost, "/api/v1/items/"+itemID.String()+"/adjust", strings.NewReader(`{"quantity":2}`)).WithContext(ctx)
		rec := httptest.NewRecorder()

		ItemAdjust(&stubInventoryService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 without a type, got %d", rec.Code)
		}
	})
}

func TestTransactionCreateEndpoint(t *testing.T) {
	logg := testLogger()
	companyID := uuid.New()
	itemID := uuid.New()
	jobID := uuid.New()

	t.Run("caller-signed quantity with correlation tags", func(t *testing.T) {
		stub := &stubInventoryService{}
		ctx := withURLParam(tenantContext(companyID), "itemId", itemID.String())
		body := `{"type":"RESERVATION","quantity":-5,"job_id":"` + jobID.String() + `"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/items/"+itemID.String()+"/transactions", strings.NewReader(body)).WithContext(ctx)
		rec := httptest.NewRecorder()

		TransactionCreate(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.transaction == nil || stub.transaction.Quantity != -5 {
			t.Fatalf("quantity not forwarded as given: %+v", stub.transaction)
		}
		if stub.transaction.Type != enums.TransactionTypeReservation {
			t.Fatalf("type not forwarded: %+v", stub.transaction)
		}
		if stub.transaction.JobID == nil || *stub.transaction.JobID != jobID {
			t.Fatalf("job tag lost: %+v", stub.transaction)
		}
	})

	t.Run("malformed job tag", func(t *testing.T) {
		ctx := withURLParam(tenantContext(companyID), "itemId", itemID.String())
		body := `{"type":"STOCK_IN","quantity":1,"job_id":"not-a-uuid"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/items/"+itemID.String()+"/transactions", strings.NewReader(body)).WithContext(ctx)
		rec := httptest.NewRecorder()

		TransactionCreate(&stubInventoryService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for malformed job_id, got %d", rec.Code)
		}
	})
}
