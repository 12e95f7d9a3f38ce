package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pet-adoption-service/internal/domain/identity"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

const userColumns = `
	id, email, role, account_status, shelter_id,
	first_name, last_name, phone, address,
	created_at, updated_at
`

func (r *UsersRepo) Create(ctx context.Context, u identity.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, email, role, account_status, shelter_id,
			first_name, last_name, phone, address,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		u.ID,
		u.Email,
		string(u.Role),
		string(u.AccountStatus),
		toNullString(u.ShelterID),
		u.FirstName,
		u.LastName,
		u.Phone,
		u.Address,
		u.CreatedAt,
		u.UpdatedAt,
	)
	return err
}

func (r *UsersRepo) Update(ctx context.Context, u identity.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET
			email = $2,
			account_status = $3,
			shelter_id = $4,
			first_name = $5,
			last_name = $6,
			phone = $7,
			address = $8,
			updated_at = $9
		WHERE id = $1
	`,
		u.ID,
		u.Email,
		string(u.AccountStatus),
		toNullString(u.ShelterID),
		u.FirstName,
		u.LastName,
		u.Phone,
		u.Address,
		u.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return identity.ErrNotFound
	}
	return nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (identity.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return identity.User{}, identity.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)

	return scanUser(row)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (identity.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return identity.User{}, identity.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE lower(email) = lower($1)
	`, email)

	return scanUser(row)
}

func (r *UsersRepo) ListByStatus(ctx context.Context, st identity.AccountStatus) ([]identity.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE account_status = $1
		ORDER BY created_at ASC
	`, string(st))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]identity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}

	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (identity.User, error) {
	var u identity.User
	var role, status string
	var shelterID sql.NullString

	if err := row.Scan(
		&u.ID,
		&u.Email,
		&role,
		&status,
		&shelterID,
		&u.FirstName,
		&u.LastName,
		&u.Phone,
		&u.Address,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return identity.User{}, identity.ErrNotFound
		}
		return identity.User{}, err
	}

	u.Role = identity.Role(role)
	u.AccountStatus = identity.AccountStatus(status)
	if shelterID.Valid {
		u.ShelterID = shelterID.String
	}

	return u, nil
}

// shelter_id es nullable: vacío => NULL (ninguna capability de refugio).
func toNullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
