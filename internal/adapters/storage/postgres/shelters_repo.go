package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pet-adoption-service/internal/domain/shelters"
)

type SheltersRepo struct {
	db *sql.DB
}

func NewSheltersRepo(db *sql.DB) *SheltersRepo {
	return &SheltersRepo{db: db}
}

func (r *SheltersRepo) Create(ctx context.Context, s shelters.Shelter) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO shelters (
			id, name, location, contact_person, manager_user_id,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		s.ID,
		s.Name,
		s.Location,
		s.ContactPerson,
		toNullString(s.ManagerUserID),
		s.CreatedAt,
		s.UpdatedAt,
	)
	return err
}

func (r *SheltersRepo) Update(ctx context.Context, s shelters.Shelter) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE shelters
		SET
			name = $2,
			location = $3,
			contact_person = $4,
			manager_user_id = $5,
			updated_at = $6
		WHERE id = $1
	`,
		s.ID,
		s.Name,
		s.Location,
		s.ContactPerson,
		toNullString(s.ManagerUserID),
		s.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return shelters.ErrNotFound
	}
	return nil
}

func (r *SheltersRepo) GetByID(ctx context.Context, id string) (shelters.Shelter, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return shelters.Shelter{}, shelters.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, location, contact_person, manager_user_id,
		       created_at, updated_at
		FROM shelters
		WHERE id = $1
	`, id)

	return scanShelter(row)
}

func (r *SheltersRepo) List(ctx context.Context) ([]shelters.Shelter, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, location, contact_person, manager_user_id,
		       created_at, updated_at
		FROM shelters
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]shelters.Shelter, 0)
	for rows.Next() {
		s, err := scanShelter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	return out, rows.Err()
}

func scanShelter(row rowScanner) (shelters.Shelter, error) {
	var s shelters.Shelter
	var manager sql.NullString

	if err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Location,
		&s.ContactPerson,
		&manager,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return shelters.Shelter{}, shelters.ErrNotFound
		}
		return shelters.Shelter{}, err
	}

	if manager.Valid {
		s.ManagerUserID = manager.String
	}

	return s, nil
}
