package shelters

import "time"

// Shelter representa un refugio. A lo sumo un shelter_staff puede ser
// manager de un refugio a la vez.
type Shelter struct {
	ID   string
	Name string

	Location      string
	ContactPerson string

	// ManagerUserID vacío => refugio sin manager asignado.
	ManagerUserID string

	CreatedAt time.Time
	UpdatedAt time.Time
}
