package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/medflow/idscan-service/pkg/tenant"
)

// WithTenantSchema runs fn in a transaction whose search_path is the tenant schema
// from ctx followed by public. SET LOCAL scopes the path to the transaction, so a
// pooled connection is clean for the next caller.
//
//	err := r.db.WithTenantSchema(ctx, func(tx *sqlx.Tx) error {
//	    _, err := tx.ExecContext(ctx, insertAudit, ...)
//	    return err
//	})
func (db *DB) WithTenantSchema(ctx context.Context, fn func(*sqlx.Tx) error) error {
	schema, err := tenant.TenantSchema(ctx)
	if err != nil {
		return err
	}
	if err := tenant.ValidateSchema(schema); err != nil {
		return fmt.Errorf("%w: %q", err, schema)
	}

	return db.Transaction(ctx, func(tx *sqlx.Tx) error {
		// SET does not accept bind parameters; the schema is validated and quoted.
		stmt := fmt.Sprintf("SET LOCAL search_path TO %s, public", pq.QuoteIdentifier(schema))
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to set search_path to %s: %w", schema, err)
		}
		return fn(tx)
	})
}
