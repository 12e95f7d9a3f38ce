package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"pet-adoption-service/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (
			id, shelter_id,
			name, species, breed, sex, age_years,
			adoption_status, notes,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		p.ID,
		p.ShelterID,
		p.Name,
		p.Species,
		p.Breed,
		p.Sex,
		p.AgeYears,
		string(p.AdoptionStatus),
		p.Notes,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, pets.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, shelter_id,
		       name, species, breed, sex, age_years,
		       adoption_status, notes,
		       created_at, updated_at
		FROM pets
		WHERE id = $1
	`, id)

	return scanPet(row)
}

func (r *PetsRepo) List(ctx context.Context, f pets.ListFilter) ([]pets.Pet, error) {
	query := `
		SELECT id, shelter_id,
		       name, species, breed, sex, age_years,
		       adoption_status, notes,
		       created_at, updated_at
		FROM pets
	`

	conditions := make([]string, 0, 2)
	args := make([]any, 0, 2)

	if f.ShelterID != "" {
		args = append(args, f.ShelterID)
		conditions = append(conditions, "shelter_id = $1")
	}
	if f.AdoptionStatus != "" {
		args = append(args, string(f.AdoptionStatus))
		if len(args) == 1 {
			conditions = append(conditions, "adoption_status = $1")
		} else {
			conditions = append(conditions, "adoption_status = $2")
		}
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

func (r *PetsRepo) SetAdoptionStatus(ctx context.Context, id string, st pets.AdoptionStatus, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET adoption_status = $2, updated_at = $3
		WHERE id = $1
	`, id, string(st), at)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func scanPet(row rowScanner) (pets.Pet, error) {
	var p pets.Pet
	var status string

	if err := row.Scan(
		&p.ID,
		&p.ShelterID,
		&p.Name,
		&p.Species,
		&p.Breed,
		&p.Sex,
		&p.AgeYears,
		&status,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, err
	}

	p.AdoptionStatus = pets.AdoptionStatus(status)
	return p, nil
}
