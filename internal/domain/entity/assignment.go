package entity

import "time"

// TenderAssignment vincula un usuario con un tender y su rol sobre él.
// Única por (TenderID, UserID). Varios usuarios pueden ser owner a la vez;
// la invariante es que un tender con asignaciones nunca queda sin owner.
type TenderAssignment struct {
	ID        string
	TenderID  string
	UserID    string
	Role      string // ver tender.Role*
	CreatedAt time.Time
	UpdatedAt time.Time
}
