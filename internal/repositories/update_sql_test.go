package repositories

import (
	"context"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/require"

	"github.com/sarkar-crm/crm-service/internal/models"
)

// recordingDB captures the statement text so the dynamic UPDATE
// builders can be checked without a live database.
type recordingDB struct {
	sql string
}

func (r *recordingDB) Exec(_ context.Context, sql string, _ ...interface{}) (pgconn.CommandTag, error) {
	r.sql = sql
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (r *recordingDB) Query(context.Context, string, ...interface{}) (pgx.Rows, error) {
	return nil, nil
}

func (r *recordingDB) QueryRow(context.Context, string, ...interface{}) pgx.Row {
	return nil
}

// Every UPDATE must advance row_version, with or without the expected-
// version guard; otherwise concurrent writers can never be detected.
func TestUpdateBuildersAlwaysBumpRowVersion(t *testing.T) {
	ctx := context.Background()

	builders := map[string]func(db DB, check bool) error{
		"sales": func(db DB, check bool) error {
			_, err := updateSale(ctx, db, &models.Sale{}, check, 1)
			return err
		},
		"customers": func(db DB, check bool) error {
			_, err := updateCustomer(ctx, db, &models.Customer{}, check, 1)
			return err
		},
		"products": func(db DB, check bool) error {
			_, err := updateProduct(ctx, db, &models.Product{}, check, 1)
			return err
		},
	}

	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			db := &recordingDB{}

			require.NoError(t, build(db, false))
			require.Contains(t, db.sql, "row_version=row_version+1")
			require.NotContains(t, db.sql, "AND row_version=")

			require.NoError(t, build(db, true))
			require.Contains(t, db.sql, "row_version=row_version+1")
			require.Contains(t, db.sql, "AND row_version=")
		})
	}
}
