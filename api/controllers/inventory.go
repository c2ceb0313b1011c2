package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradehub-app/tradehub-backend/api/responses"
	"github.com/tradehub-app/tradehub-backend/api/validators"
	inventorysvc "github.com/tradehub-app/tradehub-backend/internal/inventory"
	"github.com/tradehub-app/tradehub-backend/pkg/enums"
	pkgerrors "github.com/tradehub-app/tradehub-backend/pkg/errors"
	"github.com/tradehub-app/tradehub-backend/pkg/logger"
)

type createItemRequest struct {
	SKU             string          `json:"sku" validate:"required,max=100"`
	Name            string          `json:"name" validate:"required,max=200"`
	Description     *string         `json:"description,omitempty" validate:"omitempty,max=2000"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	SupplierID      *string         `json:"supplier_id,omitempty" validate:"omitempty,uuid"`
	InitialQuantity int             `json:"initial_quantity"`
}

type updateItemRequest struct {
	SKU         *string          `json:"sku,omitempty" validate:"omitempty,max=100"`
	Name        *string          `json:"name,omitempty" validate:"omitempty,max=200"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=2000"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	SupplierID  *string          `json:"supplier_id,omitempty" validate:"omitempty,uuid"`
}

type adjustStockRequest struct {
	Quantity int     `json:"quantity" validate:"required"`
	Type     string  `json:"type" validate:"required"`
	Notes    *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type createTransactionRequest struct {
	Type     string  `json:"type" validate:"required"`
	Quantity int     `json:"quantity" validate:"required"`
	Notes    *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
	JobID    *string `json:"job_id,omitempty" validate:"omitempty,uuid"`
	QuoteID  *string `json:"quote_id,omitempty" validate:"omitempty,uuid"`
}

func ItemCreate(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := inventorysvc.CreateItemInput{
			SKU:             payload.SKU,
			Name:            payload.Name,
			Description:     payload.Description,
			UnitPrice:       payload.UnitPrice,
			InitialQuantity: payload.InitialQuantity,
		}
		if payload.SupplierID != nil {
			supplierID, parseErr := uuid.Parse(*payload.SupplierID)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid supplier_id"))
				return
			}
			input.SupplierID = &supplierID
		}

		item, err := svc.CreateItem(r.Context(), companyID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func ItemGet(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := validators.PathUUID(chi.URLParam(r, "itemId"), "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.GetItem(r.Context(), companyID, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

func ItemList(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		result, err := svc.ListItems(r.Context(), companyID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func ItemUpdate(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := validators.PathUUID(chi.URLParam(r, "itemId"), "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := inventorysvc.UpdateItemInput{
			SKU:         payload.SKU,
			Name:        payload.Name,
			Description: payload.Description,
			UnitPrice:   payload.UnitPrice,
		}
		if payload.SupplierID != nil {
			supplierID, parseErr := uuid.Parse(*payload.SupplierID)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid supplier_id"))
				return
			}
			input.SupplierID = &supplierID
		}

		item, err := svc.UpdateItem(r.Context(), companyID, itemID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

func ItemDelete(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := validators.PathUUID(chi.URLParam(r, "itemId"), "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteItem(r.Context(), companyID, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func ItemStock(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := validators.PathUUID(chi.URLParam(r, "itemId"), "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		levels, err := svc.StockLevelsForItem(r.Context(), companyID, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, levels)
	}
}

func ItemAdjust(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := validators.PathUUID(chi.URLParam(r, "itemId"), "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload adjustStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AdjustStock(r.Context(), companyID, itemID, inventorysvc.AdjustStockInput{
			Quantity: payload.Quantity,
			Type:     enums.TransactionType(payload.Type),
			Notes:    payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func TransactionCreate(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := validators.PathUUID(chi.URLParam(r, "itemId"), "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createTransactionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := inventorysvc.CreateTransactionInput{
			ItemID:   itemID,
			Type:     enums.TransactionType(payload.Type),
			Quantity: payload.Quantity,
			Notes:    payload.Notes,
		}
		if payload.JobID != nil {
			jobID, parseErr := uuid.Parse(*payload.JobID)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid job_id"))
				return
			}
			input.JobID = &jobID
		}
		if payload.QuoteID != nil {
			quoteID, parseErr := uuid.Parse(*payload.QuoteID)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid quote_id"))
				return
			}
			input.QuoteID = &quoteID
		}

		result, err := svc.CreateTransaction(r.Context(), companyID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func TransactionList(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := validators.PathUUID(chi.URLParam(r, "itemId"), "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := validators.PaginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListTransactions(r.Context(), companyID, itemID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
