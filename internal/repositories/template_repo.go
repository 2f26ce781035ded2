package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/models"
)

type TemplateRepo struct {
	pool *pgxpool.Pool
}

func NewTemplateRepo(pool *pgxpool.Pool) *TemplateRepo {
	return &TemplateRepo{pool: pool}
}

const templateColumns = `id, template_id, name, description, is_available, default_parameters, required_parameters, created_at, updated_at`

func scanTemplate(row pgx.Row) (*models.Template, error) {
	var t models.Template
	err := row.Scan(&t.ID, &t.TemplateID, &t.Name, &t.Description, &t.IsAvailable,
		&t.DefaultParameters, &t.RequiredParameters, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *TemplateRepo) list(ctx context.Context, query string) ([]models.Template, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *TemplateRepo) ListAvailable(ctx context.Context) ([]models.Template, error) {
	return r.list(ctx, `SELECT `+templateColumns+` FROM templates WHERE is_available ORDER BY name`)
}

func (r *TemplateRepo) ListAll(ctx context.Context) ([]models.Template, error) {
	return r.list(ctx, `SELECT `+templateColumns+` FROM templates ORDER BY name`)
}

func (r *TemplateRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	return scanTemplate(r.pool.QueryRow(ctx, `SELECT `+templateColumns+` FROM templates WHERE id = $1`, id))
}

func (r *TemplateRepo) GetByTemplateID(ctx context.Context, templateID string) (*models.Template, error) {
	return scanTemplate(r.pool.QueryRow(ctx, `SELECT `+templateColumns+` FROM templates WHERE template_id = $1`, templateID))
}

// Upsert inserts or replaces a catalog entry keyed by template_id.
func (r *TemplateRepo) Upsert(ctx context.Context, t *models.Template) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO templates (template_id, name, description, is_available, default_parameters, required_parameters)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (template_id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			is_available = EXCLUDED.is_available,
			default_parameters = EXCLUDED.default_parameters,
			required_parameters = EXCLUDED.required_parameters,
			updated_at = now()
		RETURNING id, created_at, updated_at
	`, t.TemplateID, t.Name, t.Description, t.IsAvailable, t.DefaultParameters, t.RequiredParameters,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	return translate(err)
}

// Delete fails with *InUseError while applications reference the template.
func (r *TemplateRepo) Delete(ctx context.Context, templateID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM templates WHERE template_id = $1`, templateID)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TemplateRepo) CountApplications(ctx context.Context, id uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM applications WHERE template_ref = $1`, id).Scan(&n)
	return n, err
}
