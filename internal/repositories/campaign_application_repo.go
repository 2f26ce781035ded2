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

type CampaignApplicationRepo struct {
	pool *pgxpool.Pool
}

func NewCampaignApplicationRepo(pool *pgxpool.Pool) *CampaignApplicationRepo {
	return &CampaignApplicationRepo{pool: pool}
}

const campaignApplicationColumns = `a.id, a.campaign_id, a.influencer_id, a.pitch, a.portfolio_link, a.proposed_price::text,
	a.status, a.created_at, a.updated_at,
	c.title, c.brand_id, u.email, trim(u.first_name || ' ' || u.last_name), u.followers, u.engagement_rate::text, u.platform`

const campaignApplicationFrom = `
	FROM campaign_applications a
	JOIN campaigns c ON c.id = a.campaign_id
	JOIN users u ON u.id = a.influencer_id
`

func scanCampaignApplication(row pgx.Row) (*models.CampaignApplicationView, error) {
	var v models.CampaignApplicationView
	err := row.Scan(&v.ID, &v.CampaignID, &v.InfluencerID, &v.Pitch, &v.PortfolioLink, &v.ProposedPrice,
		&v.Status, &v.CreatedAt, &v.UpdatedAt,
		&v.CampaignTitle, &v.CampaignBrandID, &v.InfluencerEmail, &v.InfluencerName,
		&v.InfluencerFollowers, &v.InfluencerEngagementRate, &v.InfluencerPlatform)
	if err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func (r *CampaignApplicationRepo) Create(ctx context.Context, a *models.CampaignApplication) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO campaign_applications (campaign_id, influencer_id, pitch, portfolio_link, proposed_price, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, a.CampaignID, a.InfluencerID, a.Pitch, a.PortfolioLink, a.ProposedPrice, a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return translate(err)
}

func (r *CampaignApplicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.CampaignApplicationView, error) {
	return scanCampaignApplication(r.pool.QueryRow(ctx,
		`SELECT `+campaignApplicationColumns+campaignApplicationFrom+`WHERE a.id = $1`, id))
}

func (r *CampaignApplicationRepo) Exists(ctx context.Context, campaignID, influencerID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM campaign_applications WHERE campaign_id = $1 AND influencer_id = $2)
	`, campaignID, influencerID).Scan(&exists)
	return exists, err
}

type CampaignApplicationFilter struct {
	InfluencerID *uuid.UUID
	BrandID      *uuid.UUID // through campaigns.brand_id
	CampaignID   *uuid.UUID
	Status       *string
	Limit        int
	Offset       int
}

func (r *CampaignApplicationRepo) List(ctx context.Context, f CampaignApplicationFilter) ([]models.CampaignApplicationView, error) {
	query := `SELECT ` + campaignApplicationColumns + campaignApplicationFrom
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.InfluencerID != nil {
		where = append(where, fmt.Sprintf("a.influencer_id = $%d", argIdx))
		args = append(args, *f.InfluencerID)
		argIdx++
	}
	if f.BrandID != nil {
		where = append(where, fmt.Sprintf("c.brand_id = $%d", argIdx))
		args = append(args, *f.BrandID)
		argIdx++
	}
	if f.CampaignID != nil {
		where = append(where, fmt.Sprintf("a.campaign_id = $%d", argIdx))
		args = append(args, *f.CampaignID)
		argIdx++
	}
	if f.Status != nil {
		where = append(where, fmt.Sprintf("a.status = $%d", argIdx))
		args = append(args, *f.Status)
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

	var apps []models.CampaignApplicationView
	for rows.Next() {
		v, err := scanCampaignApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *v)
	}
	return apps, rows.Err()
}

// UpdateStatus moves the application from one status to another and fails
// with ErrNotFound when the stored status no longer matches from.
func (r *CampaignApplicationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE campaign_applications SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
	`, to, id, from)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
