package enums

import "fmt"

// TransactionType maps to the transaction_type_enum enum in Postgres.
//
// Sign conventions are owned by callers: RESERVATION and CONSUMPTION rows are
// stored with negative quantities, RESERVATION_COMPENSATION with positive
// ones. The aggregation in internal/inventory relies on these conventions.
type TransactionType string

const (
	TransactionTypeStockIn                 TransactionType = "STOCK_IN"
	TransactionTypeInitialCount            TransactionType = "INITIAL_COUNT"
	TransactionTypeReservation             TransactionType = "RESERVATION"
	TransactionTypeReservationCompensation TransactionType = "RESERVATION_COMPENSATION"
	TransactionTypeConsumption             TransactionType = "CONSUMPTION"
	TransactionTypeAuditAdjustment         TransactionType = "AUDIT_ADJUSTMENT"
)

var validTransactionTypes = []TransactionType{
	TransactionTypeStockIn,
	TransactionTypeInitialCount,
	TransactionTypeReservation,
	TransactionTypeReservationCompensation,
	TransactionTypeConsumption,
	TransactionTypeAuditAdjustment,
}

// IsValid reports whether the value matches the canonical transaction enum.
func (t TransactionType) IsValid() bool {
	for _, candidate := range validTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTransactionType converts raw input into TransactionType.
func ParseTransactionType(value string) (TransactionType, error) {
	for _, candidate := range validTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction type %q", value)
}
