package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/retail-backoffice/payroll-engine/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

var testDB *database.DB

// setupTestDB connects to TEST_DATABASE_URL, applies migrations and empties
// every payroll table. Tests are skipped when no database is configured.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	if testDB == nil {
		db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 8})
		require.NoError(t, err, "failed to connect to test database")
		require.NoError(t, database.Migrate(ctx, db))
		testDB = db
	}

	require.NoError(t, truncateAllTables(ctx, testDB))
	return testDB
}

func truncateAllTables(ctx context.Context, db *database.DB) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"payslips",
		"debts",
		"bonuses",
		"attendance_records",
		"employees",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

func createTestEmployee(t *testing.T, ctx context.Context, db *database.DB, name string) string {
	t.Helper()
	var id string
	err := db.QueryRow(ctx, `
		INSERT INTO employees (full_name, base_salary, transport_allowance)
		VALUES ($1, 520, 130)
		RETURNING id
	`, name).Scan(&id)
	require.NoError(t, err)
	return id
}

func createTestDebt(t *testing.T, ctx context.Context, db *database.DB, employeeID, amount, createdAt string) string {
	t.Helper()
	var id string
	err := db.QueryRow(ctx, `
		INSERT INTO debts (employee_id, original_amount, remaining_amount, created_at, updated_at)
		VALUES ($1, $2::numeric, $2::numeric, $3::timestamptz, $3::timestamptz)
		RETURNING id
	`, employeeID, amount, createdAt).Scan(&id)
	require.NoError(t, err)
	return id
}
