package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/models"
)

type CampaignRepo struct {
	pool *pgxpool.Pool
}

func NewCampaignRepo(pool *pgxpool.Pool) *CampaignRepo {
	return &CampaignRepo{pool: pool}
}

const campaignColumns = `c.id, c.brand_id, u.email, c.title, c.description, c.content_type, c.category,
	c.deliverables, c.budget::text, c.deadline, c.status, c.created_at, c.updated_at`

func scanCampaign(row pgx.Row) (*models.Campaign, error) {
	var (
		c        models.Campaign
		deadline time.Time
	)
	err := row.Scan(&c.ID, &c.BrandID, &c.BrandEmail, &c.Title, &c.Description, &c.ContentType, &c.Category,
		&c.Deliverables, &c.Budget, &deadline, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	c.Deadline = models.DateOf(deadline)
	return &c, nil
}

func (r *CampaignRepo) Create(ctx context.Context, c *models.Campaign) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO campaigns (brand_id, title, description, content_type, category, deliverables, budget, deadline, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, c.BrandID, c.Title, c.Description, c.ContentType, c.Category, c.Deliverables, c.Budget, c.Deadline.Time, c.Status,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return translate(err)
}

func (r *CampaignRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	return scanCampaign(r.pool.QueryRow(ctx, `
		SELECT `+campaignColumns+`
		FROM campaigns c
		JOIN users u ON u.id = c.brand_id
		WHERE c.id = $1
	`, id))
}

// Update writes every mutable column of c.
func (r *CampaignRepo) Update(ctx context.Context, c *models.Campaign) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE campaigns SET
			title = $2, description = $3, content_type = $4, category = $5, deliverables = $6,
			budget = $7, deadline = $8, status = $9, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`, c.ID, c.Title, c.Description, c.ContentType, c.Category, c.Deliverables, c.Budget, c.Deadline.Time, c.Status,
	).Scan(&c.UpdatedAt)
	return translate(err)
}

func (r *CampaignRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type CampaignFilter struct {
	BrandID        *uuid.UUID
	Status         *string
	BudgetMin      *string
	BudgetMax      *string
	Category       *string
	ContentType    *string
	DeadlineBefore *models.Date
	Limit          int
	Offset         int
}

func (r *CampaignRepo) List(ctx context.Context, f CampaignFilter) ([]models.Campaign, error) {
	query := `
		SELECT ` + campaignColumns + `
		FROM campaigns c
		JOIN users u ON u.id = c.brand_id
	`
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.BrandID != nil {
		where = append(where, fmt.Sprintf("c.brand_id = $%d", argIdx))
		args = append(args, *f.BrandID)
		argIdx++
	}
	if f.Status != nil {
		where = append(where, fmt.Sprintf("c.status = $%d", argIdx))
		args = append(args, *f.Status)
		argIdx++
	}
	if f.BudgetMin != nil {
		where = append(where, fmt.Sprintf("c.budget >= $%d::text::numeric", argIdx))
		args = append(args, *f.BudgetMin)
		argIdx++
	}
	if f.BudgetMax != nil {
		where = append(where, fmt.Sprintf("c.budget <= $%d::text::numeric", argIdx))
		args = append(args, *f.BudgetMax)
		argIdx++
	}
	if f.Category != nil {
		where = append(where, fmt.Sprintf("c.category = $%d", argIdx))
		args = append(args, *f.Category)
		argIdx++
	}
	if f.ContentType != nil {
		where = append(where, fmt.Sprintf("c.content_type = $%d", argIdx))
		args = append(args, *f.ContentType)
		argIdx++
	}
	if f.DeadlineBefore != nil {
		where = append(where, fmt.Sprintf("c.deadline <= $%d", argIdx))
		args = append(args, f.DeadlineBefore.Time)
		argIdx++
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query += fmt.Sprintf(" ORDER BY c.created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []models.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, rows.Err()
}

func (r *CampaignRepo) AddFile(ctx context.Context, f *models.CampaignFile) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO campaign_files (campaign_id, storage_key, original_name, size_bytes, content_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, uploaded_at
	`, f.CampaignID, f.StorageKey, f.OriginalName, f.Size, f.ContentType).Scan(&f.ID, &f.UploadedAt)
	return translate(err)
}

// ListFiles returns files of the given campaigns keyed by campaign id.
func (r *CampaignRepo) ListFiles(ctx context.Context, campaignIDs []uuid.UUID) (map[uuid.UUID][]models.CampaignFile, error) {
	out := make(map[uuid.UUID][]models.CampaignFile, len(campaignIDs))
	if len(campaignIDs) == 0 {
		return out, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, campaign_id, storage_key, original_name, size_bytes, content_type, uploaded_at
		FROM campaign_files WHERE campaign_id = ANY($1)
		ORDER BY uploaded_at DESC
	`, campaignIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var f models.CampaignFile
		if err := rows.Scan(&f.ID, &f.CampaignID, &f.StorageKey, &f.OriginalName, &f.Size, &f.ContentType, &f.UploadedAt); err != nil {
			return nil, err
		}
		out[f.CampaignID] = append(out[f.CampaignID], f)
	}
	return out, rows.Err()
}
