package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tender representa una licitación dentro de un tenant. Entra al sistema con
// estado SCRAPED (importada por el scraper) y avanza por el ciclo de vida
// definido en el paquete tender. DeletedAt marca soft delete: una vez seteado,
// el tender es invisible para toda lectura y escritura.
type Tender struct {
	ID             string
	TenantID       string
	Title          string
	Description    string
	BuyerName      string
	Location       string
	Category       string
	SourceURL      string
	EstimatedValue *decimal.Decimal // nil = sin monto publicado
	DeadlineAt     *time.Time
	Status         string // ver tender.Status*
	CreatedBy      string
	DeletedAt      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsDeleted indica si el tender fue soft-deleted.
func (t *Tender) IsDeleted() bool {
	return t.DeletedAt != nil
}
