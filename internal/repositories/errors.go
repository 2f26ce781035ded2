package repositories

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = errors.New("not found")

// Constraint names from migrations/0001_init.up.sql
const (
	ConstraintUserEmail             = "users_email_key"
	ConstraintCampaignInfluencer    = "campaign_applications_campaign_influencer_key"
	ConstraintApplicationID         = "applications_application_id_key"
	ConstraintApplicationName       = "applications_name_key"
	ConstraintTemplateID            = "templates_template_id_key"
	ConstraintApplicationTemplateFK = "applications_template_ref_fkey"
)

// ConflictError reports a unique constraint violation.
type ConflictError struct {
	Constraint string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("unique constraint %s violated", e.Constraint)
}

// InUseError reports a foreign key violation: a delete blocked by a
// referencing row, or a write naming a row that no longer exists.
type InUseError struct {
	Constraint string
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("row still referenced by %s", e.Constraint)
}

// IsConflict reports whether err is a ConflictError on constraint.
func IsConflict(err error, constraint string) bool {
	var ce *ConflictError
	return errors.As(err, &ce) && ce.Constraint == constraint
}

// IsInUse reports whether err is an InUseError on constraint.
func IsInUse(err error, constraint string) bool {
	var ie *InUseError
	return errors.As(err, &ie) && ie.Constraint == constraint
}

// translate maps driver errors onto the package errors.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return &ConflictError{Constraint: pgErr.ConstraintName}
		case "23503":
			return &InUseError{Constraint: pgErr.ConstraintName}
		}
	}
	return err
}
