package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/models"
)

type ApplicationRepo struct {
	pool *pgxpool.Pool
}

func NewApplicationRepo(pool *pgxpool.Pool) *ApplicationRepo {
	return &ApplicationRepo{pool: pool}
}

const applicationColumns = `a.id, a.application_id, a.name, a.description, a.owner, a.visibility,
	a.template_ref, t.template_id, t.name, a.parameters, a.git_integration, a.oidc_integration,
	a.creator_id, u.email, a.created_at, a.updated_at`

const applicationFrom = `
	FROM applications a
	JOIN users u ON u.id = a.creator_id
	LEFT JOIN templates t ON t.id = a.template_ref
`

func scanApplication(row pgx.Row) (*models.Application, error) {
	var a models.Application
	err := row.Scan(&a.ID, &a.ApplicationID, &a.Name, &a.Description, &a.Owner, &a.Visibility,
		&a.TemplateRef, &a.TemplateID, &a.TemplateName, &a.Parameters, &a.GitIntegration, &a.OIDCIntegration,
		&a.CreatorID, &a.CreatorEmail, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

// Create inserts a; a collision on application_id surfaces as a
// *ConflictError on ConstraintApplicationID.
func (r *ApplicationRepo) Create(ctx context.Context, a *models.Application) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO applications (application_id, name, description, owner, visibility, template_ref,
			parameters, git_integration, oidc_integration, creator_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, a.ApplicationID, a.Name, a.Description, a.Owner, a.Visibility, a.TemplateRef,
		a.Parameters, a.GitIntegration, a.OIDCIntegration, a.CreatorID,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return translate(err)
}

func (r *ApplicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	return scanApplication(r.pool.QueryRow(ctx, `SELECT `+applicationColumns+applicationFrom+`WHERE a.id = $1`, id))
}

// ExistsByName checks for another application with the same name; exclude
// skips the row being updated.
func (r *ApplicationRepo) ExistsByName(ctx context.Context, name string, exclude *uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM applications WHERE name = $1 AND ($2::uuid IS NULL OR id <> $2))
	`, name, exclude).Scan(&exists)
	return exists, err
}

type ApplicationFilter struct {
	CreatorID  *uuid.UUID
	Visibility []string
	Limit      int
	Offset     int
}

func (r *ApplicationRepo) List(ctx context.Context, f ApplicationFilter) ([]models.Application, error) {
	query := `SELECT ` + applicationColumns + applicationFrom
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.CreatorID != nil {
		where = append(where, fmt.Sprintf("a.creator_id = $%d", argIdx))
		args = append(args, *f.CreatorID)
		argIdx++
	}
	if len(f.Visibility) > 0 {
		where = append(where, fmt.Sprintf("a.visibility = ANY($%d)", argIdx))
		args = append(args, f.Visibility)
		argIdx++
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query += fmt.Sprintf(" ORDER BY a.created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []models.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}

func (r *ApplicationRepo) Update(ctx context.Context, a *models.Application) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE applications SET
			name = $2, description = $3, owner = $4, visibility = $5, template_ref = $6,
			parameters = $7, git_integration = $8, oidc_integration = $9, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`, a.ID, a.Name, a.Description, a.Owner, a.Visibility, a.TemplateRef,
		a.Parameters, a.GitIntegration, a.OIDCIntegration,
	).Scan(&a.UpdatedAt)
	return translate(err)
}

func (r *ApplicationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
