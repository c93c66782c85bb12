package migrations

import (
	"context"
	"encoding/json"

	"github.com/uptrace/bun"

	"guess-the-flag/internal/domain"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			catalog := domain.DefaultCatalog()
			data, err := json.Marshal(catalog)
			if err != nil {
				return err
			}
			_, err = db.ExecContext(ctx,
				`INSERT INTO flag_catalogs (id, data) VALUES (?, ?::jsonb) ON CONFLICT (id) DO NOTHING`,
				catalog.ID, string(data))
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, `DELETE FROM flag_catalogs WHERE id = ?`, domain.DefaultCatalogID)
			return err
		},
	)
}
