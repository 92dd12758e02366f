package referrals

import (
	"context"

	"github.com/uptrace/bun"
)

// BootstrapSchema creates the tables the service needs. Idempotent, safe
// to run on every boot.
func BootstrapSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*User)(nil),
		(*Candidate)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
	}

	if _, err := db.NewCreateIndex().
		Model((*Candidate)(nil)).
		Index("idx_candidates_referred_by").
		Column("referred_by").
		IfNotExists().
		Exec(ctx); err != nil {
		return err
	}

	return nil
}
