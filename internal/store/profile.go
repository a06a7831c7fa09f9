package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/userhub/services/types"
)

// ProfileRepository handles persistence for user profiles.
type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (types.Profile, error) {
	const query = `
		SELECT id, account_id, last_name, first_name, birth_date, email, phone, created_at, updated_at
		FROM profiles
		WHERE id = $1`
	var profile types.Profile
	var phone sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&profile.ID,
		&profile.AccountID,
		&profile.LastName,
		&profile.FirstName,
		&profile.BirthDate,
		&profile.Email,
		&phone,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Profile{}, ErrNotFound
		}
		return types.Profile{}, err
	}
	profile.Phone = phone.String
	return profile, nil
}

func (r *ProfileRepository) Create(ctx context.Context, profile types.Profile) (types.Profile, error) {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	const query = `
		INSERT INTO profiles (id, account_id, last_name, first_name, birth_date, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		profile.ID,
		profile.AccountID,
		profile.LastName,
		profile.FirstName,
		profile.BirthDate,
		profile.Email,
		nullString(profile.Phone),
		profile.CreatedAt,
		profile.UpdatedAt,
	); err != nil {
		return types.Profile{}, err
	}
	return profile, nil
}

func (r *ProfileRepository) Update(ctx context.Context, profile types.Profile) (types.Profile, error) {
	profile.UpdatedAt = time.Now()

	const query = `
		UPDATE profiles
		SET last_name = $1,
			first_name = $2,
			birth_date = $3,
			email = $4,
			phone = $5,
			updated_at = $6
		WHERE id = $7`
	result, err := r.db.ExecContext(
		ctx,
		query,
		profile.LastName,
		profile.FirstName,
		profile.BirthDate,
		profile.Email,
		nullString(profile.Phone),
		profile.UpdatedAt,
		profile.ID,
	)
	if err != nil {
		return types.Profile{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Profile{}, err
	}
	if affected == 0 {
		return types.Profile{}, ErrNotFound
	}
	return profile, nil
}

func (r *ProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM profiles WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
