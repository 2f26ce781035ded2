package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/models"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id, email, password_hash, first_name, last_name, role, is_active, is_email_verified,
	gdpr_consent, gdpr_consent_date, followers, engagement_rate::text, platform, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var (
		u    models.User
		role *string
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &role, &u.IsActive, &u.IsEmailVerified,
		&u.GDPRConsent, &u.GDPRConsentDate, &u.Followers, &u.EngagementRate, &u.Platform, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	if role != nil {
		u.Role = models.Role(*role)
	}
	return &u, nil
}

func roleParam(r models.Role) *string {
	if r == models.RoleUnset {
		return nil
	}
	s := string(r)
	return &s
}

func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name, role, gdpr_consent, gdpr_consent_date)
		VALUES (lower($1), $2, $3, $4, $5, $6, $7)
		RETURNING id, email, is_active, created_at, updated_at
	`, u.Email, u.PasswordHash, u.FirstName, u.LastName, roleParam(u.Role), u.GDPRConsent, u.GDPRConsentDate,
	).Scan(&u.ID, &u.Email, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return translate(err)
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
}

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1))`, email).Scan(&exists)
	return exists, err
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, p models.ProfileUpdate) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users SET
			first_name = COALESCE($2, first_name),
			last_name = COALESCE($3, last_name),
			followers = CASE WHEN $4::boolean THEN $5::integer ELSE followers END,
			engagement_rate = CASE WHEN $6::boolean THEN $7::numeric ELSE engagement_rate END,
			platform = CASE WHEN $8::boolean THEN $9::varchar ELSE platform END,
			updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		id, p.FirstName, p.LastName,
		p.Followers.Set, p.Followers.Value,
		p.EngagementRate.Set, p.EngagementRate.Value,
		p.Platform.Set, p.Platform.Value))
}

// UpdateRole sets the role only while it still equals from, so two
// concurrent role selections cannot both win.
func (r *UserRepo) UpdateRole(ctx context.Context, id uuid.UUID, from, to models.Role) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users SET role = $3, updated_at = now()
		WHERE id = $1 AND role IS NOT DISTINCT FROM $2
		RETURNING `+userColumns,
		id, roleParam(from), roleParam(to)))
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`, hash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the user; owned rows go with it through ON DELETE CASCADE.
func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListOwnedFileKeys returns the storage keys of every file on the user's
// campaigns, so blobs can be removed after the rows cascade away.
func (r *UserRepo) ListOwnedFileKeys(ctx context.Context, id uuid.UUID) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT f.storage_key FROM campaign_files f
		JOIN campaigns c ON c.id = f.campaign_id
		WHERE c.brand_id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
