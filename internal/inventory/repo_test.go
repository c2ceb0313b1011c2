package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tradehub-app/tradehub-backend/pkg/db/models"
	"github.com/tradehub-app/tradehub-backend/pkg/enums"
)

// The ledger schema is created with raw SQL because the production defaults
// (gen_random_uuid, Postgres enums) do not exist on sqlite.
const testSchema = `
CREATE TABLE inventory_items (
    id TEXT PRIMARY KEY,
    company_id TEXT NOT NULL,
    sku TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT,
    unit_price NUMERIC NOT NULL DEFAULT 0,
    supplier_id TEXT,
    created_at DATETIME,
    updated_at DATETIME,
    CONSTRAINT uq_inventory_items_company_sku UNIQUE (company_id, sku)
);
CREATE TABLE inventory_transactions (
    id TEXT PRIMARY KEY,
    company_id TEXT NOT NULL,
    item_id TEXT NOT NULL,
    quantity INTEGER NOT NULL,
    type TEXT NOT NULL,
    job_id TEXT,
    quote_id TEXT,
    notes TEXT,
    created_at DATETIME
);
`

func openLedgerDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.Exec(testSchema).Error)
	return conn
}

func mustCreateItem(t *testing.T, repo Repository, companyID uuid.UUID, sku string) *models.InventoryItem {
	t.Helper()
	item := &models.InventoryItem{
		ID:        uuid.New(),
		CompanyID: companyID,
		SKU:       sku,
		Name:      "test item",
	}
	_, err := repo.CreateItem(context.Background(), item)
	require.NoError(t, err)
	return item
}

func TestRepositoryItemScoping(t *testing.T) {
	repo := NewRepository(openLedgerDB(t))
	ctx := context.Background()

	companyA := uuid.New()
	companyB := uuid.New()
	item := mustCreateItem(t, repo, companyA, "SKU-1")

	found, err := repo.FindItemByID(ctx, companyA, item.ID)
	require.NoError(t, err)
	require.Equal(t, "SKU-1", found.SKU)

	_, err = repo.FindItemByID(ctx, companyB, item.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryDuplicateSKURejectedPerTenant(t *testing.T) {
	repo := NewRepository(openLedgerDB(t))
	ctx := context.Background()

	companyA := uuid.New()
	companyB := uuid.New()
	mustCreateItem(t, repo, companyA, "SHARED")

	// Same tenant, same SKU: rejected by the unique constraint.
	_, err := repo.CreateItem(ctx, &models.InventoryItem{
		ID:        uuid.New(),
		CompanyID: companyA,
		SKU:       "SHARED",
		Name:      "dup",
	})
	require.Error(t, err)

	// Different tenant, same SKU: allowed.
	_, err = repo.CreateItem(ctx, &models.InventoryItem{
		ID:        uuid.New(),
		CompanyID: companyB,
		SKU:       "SHARED",
		Name:      "other tenant",
	})
	require.NoError(t, err)
}

func TestRepositoryLedgerQueries(t *testing.T) {
	repo := NewRepository(openLedgerDB(t))
	ctx := context.Background()

	companyID := uuid.New()
	jobID := uuid.New()
	item := mustCreateItem(t, repo, companyID, "SKU-L")
	other := mustCreateItem(t, repo, companyID, "SKU-O")

	rows := []models.InventoryTransaction{
		{ID: uuid.New(), CompanyID: companyID, ItemID: item.ID, Quantity: 50, Type: enums.TransactionTypeInitialCount},
		{ID: uuid.New(), CompanyID: companyID, ItemID: item.ID, Quantity: -10, Type: enums.TransactionTypeReservation, JobID: &jobID},
		{ID: uuid.New(), CompanyID: companyID, ItemID: other.ID, Quantity: 5, Type: enums.TransactionTypeStockIn},
	}
	require.NoError(t, repo.CreateTransactions(ctx, rows))

	itemRows, err := repo.TransactionsForItem(ctx, companyID, item.ID)
	require.NoError(t, err)
	require.Len(t, itemRows, 2)

	levels := ComputeStockLevels(itemRows)
	require.Equal(t, 50, levels.Physical)
	require.Equal(t, 10, levels.Reserved)
	require.Equal(t, 40, levels.Available)

	jobRows, err := repo.TransactionsForJob(ctx, companyID, jobID)
	require.NoError(t, err)
	require.Len(t, jobRows, 1)

	// Another tenant sees an empty ledger.
	foreign, err := repo.TransactionsForItem(ctx, uuid.New(), item.ID)
	require.NoError(t, err)
	require.Empty(t, foreign)
}
