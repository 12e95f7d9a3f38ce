package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"pet-adoption-service/internal/domain/applications"
	"pet-adoption-service/internal/domain/pets"
)

type ApplicationsRepo struct {
	db *sql.DB
}

func NewApplicationsRepo(db *sql.DB) *ApplicationsRepo {
	return &ApplicationsRepo{db: db}
}

const applicationColumns = `
	a.id, a.user_id, a.pet_id,
	a.applicant_name, a.email, a.phone, a.address,
	a.reason_for_adoption, a.experience_with_pets, a.living_situation,
	a.status, a.reviewer_id, a.review_notes,
	a.created_at, a.reviewed_at
`

func (r *ApplicationsRepo) Create(ctx context.Context, a applications.Application) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO adoption_applications (
			id, user_id, pet_id,
			applicant_name, email, phone, address,
			reason_for_adoption, experience_with_pets, living_situation,
			status, reviewer_id, review_notes,
			created_at, reviewed_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`,
		a.ID,
		a.UserID,
		a.PetID,
		a.ApplicantName,
		a.Email,
		a.Phone,
		a.Address,
		a.ReasonForAdoption,
		a.ExperienceWithPets,
		a.LivingSituation,
		string(a.Status),
		toNullString(a.ReviewerID),
		a.ReviewNotes,
		a.CreatedAt,
		a.ReviewedAt,
	)
	return err
}

func (r *ApplicationsRepo) GetByID(ctx context.Context, id string) (applications.Application, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return applications.Application{}, applications.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+applicationColumns+`
		FROM adoption_applications a
		WHERE a.id = $1
	`, id)

	return scanApplication(row)
}

func (r *ApplicationsRepo) List(ctx context.Context, f applications.ListFilter) ([]applications.Application, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM adoption_applications a
	`
	if f.ShelterID != "" {
		// Scope por refugio => join con la mascota.
		query += " JOIN pets p ON p.id = a.pet_id"
	}

	conditions := make([]string, 0, 3)
	args := make([]any, 0, 3)

	if f.Status != "" {
		args = append(args, string(f.Status))
		conditions = append(conditions, "a.status = $"+strconv.Itoa(len(args)))
	}
	if f.UserID != "" {
		args = append(args, f.UserID)
		conditions = append(conditions, "a.user_id = $"+strconv.Itoa(len(args)))
	}
	if f.ShelterID != "" {
		args = append(args, f.ShelterID)
		conditions = append(conditions, "p.shelter_id = $"+strconv.Itoa(len(args)))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY a.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]applications.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	return out, rows.Err()
}

// Review aplica la revisión en una transacción. El UPDATE lleva
// status = 'pending' como predicado: dos revisiones concurrentes de la
// misma solicitud no pueden pasar las dos. Si la revisión aprueba, el
// cascade sobre la mascota corre dentro de la misma transacción, así
// que nunca queda visible una solicitud aprobada con la mascota aún
// disponible.
func (r *ApplicationsRepo) Review(ctx context.Context, id string, rec applications.ReviewRecord) (applications.Application, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return applications.Application{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE adoption_applications
		SET status = $2, reviewer_id = $3, review_notes = $4, reviewed_at = $5
		WHERE id = $1 AND status = 'pending'
	`, id, string(rec.Status), rec.ReviewerID, rec.Notes, rec.ReviewedAt)
	if err != nil {
		return applications.Application{}, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return applications.Application{}, err
	}
	if n == 0 {
		// Distinguir inexistente de ya revisada.
		var status string
		err := tx.QueryRowContext(ctx, `
			SELECT status FROM adoption_applications WHERE id = $1
		`, id).Scan(&status)
		if err == sql.ErrNoRows {
			return applications.Application{}, applications.ErrNotFound
		}
		if err != nil {
			return applications.Application{}, err
		}
		return applications.Application{}, applications.ErrAlreadyReviewed
	}

	var petID string
	if err := tx.QueryRowContext(ctx, `
		SELECT pet_id FROM adoption_applications WHERE id = $1
	`, id).Scan(&petID); err != nil {
		return applications.Application{}, err
	}

	if rec.Status == applications.StatusApproved {
		res, err := tx.ExecContext(ctx, `
			UPDATE pets
			SET adoption_status = $2, updated_at = $3
			WHERE id = $1
		`, petID, string(pets.StatusAdopted), rec.ReviewedAt)
		if err != nil {
			return applications.Application{}, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return applications.Application{}, pets.ErrNotFound
		}
	}

	row := tx.QueryRowContext(ctx, `
		SELECT `+applicationColumns+`
		FROM adoption_applications a
		WHERE a.id = $1
	`, id)
	a, err := scanApplication(row)
	if err != nil {
		return applications.Application{}, err
	}

	if err := tx.Commit(); err != nil {
		return applications.Application{}, err
	}

	return a, nil
}

func scanApplication(row rowScanner) (applications.Application, error) {
	var a applications.Application
	var status string
	var reviewerID sql.NullString
	var reviewedAt sql.NullTime

	if err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.PetID,
		&a.ApplicantName,
		&a.Email,
		&a.Phone,
		&a.Address,
		&a.ReasonForAdoption,
		&a.ExperienceWithPets,
		&a.LivingSituation,
		&status,
		&reviewerID,
		&a.ReviewNotes,
		&a.CreatedAt,
		&reviewedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return applications.Application{}, applications.ErrNotFound
		}
		return applications.Application{}, err
	}

	a.Status = applications.Status(status)
	if reviewerID.Valid {
		a.ReviewerID = reviewerID.String
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		a.ReviewedAt = &t
	}

	return a, nil
}
