package inventory

import (
	"github.com/tradehub-app/tradehub-backend/pkg/db/models"
	"github.com/tradehub-app/tradehub-backend/pkg/enums"
)

// StockLevels is the derived view of one item's ledger. Nothing here is
// stored; every read folds the item's transactions from scratch.
type StockLevels struct {
	Physical  int `json:"physical"`
	Reserved  int `json:"reserved"`
	Available int `json:"available"`
}

// ComputeStockLevels folds ledger rows into stock levels. The fold is a sum
// per bucket, so row order does not matter.
//
// Physical buckets add their stored quantity directly: INITIAL_COUNT,
// STOCK_IN, and AUDIT_ADJUSTMENT rows are positive or negative as written,
// CONSUMPTION rows are stored negative. RESERVATION rows add their absolute
// quantity to reserved, RESERVATION_COMPENSATION rows (stored positive)
// subtract theirs. Available may go negative; that is an oversell warning at
// the service layer, not an error.
func ComputeStockLevels(rows []models.InventoryTransaction) StockLevels {
	var levels StockLevels
	for _, row := range rows {
		switch row.Type {
		case enums.TransactionTypeInitialCount,
			enums.TransactionTypeStockIn,
			enums.TransactionTypeAuditAdjustment,
			enums.TransactionTypeConsumption:
			levels.Physical += row.Quantity
		case enums.TransactionTypeReservation:
			levels.Reserved += abs(row.Quantity)
		case enums.TransactionTypeReservationCompensation:
			levels.Reserved -= row.Quantity
		}
	}
	levels.Available = levels.Physical - levels.Reserved
	return levels
}

// ComputeStockLevelsByItem folds a mixed slice of ledger rows into per-item
// stock levels.
func ComputeStockLevelsByItem(rows []models.InventoryTransaction) map[string]StockLevels {
	grouped := make(map[string][]models.InventoryTransaction)
	for _, row := range rows {
		key := row.ItemID.String()
		grouped[key] = append(grouped[key], row)
	}
	levels := make(map[string]StockLevels, len(grouped))
	for key, itemRows := range grouped {
		levels[key] = ComputeStockLevels(itemRows)
	}
	return levels
}

// outstandingReservation sums the not-yet-compensated reservation quantity
// for one job/item pair. A fully consumed or canceled reservation nets to
// zero.
func outstandingReservation(rows []models.InventoryTransaction) int {
	total := 0
	for _, row := range rows {
		switch row.Type {
		case enums.TransactionTypeReservation:
			total += abs(row.Quantity)
		case enums.TransactionTypeReservationCompensation:
			total -= row.Quantity
		}
	}
	return total
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
