package tender

import "sort"

// Estados del ciclo de vida de un tender. SCRAPED es el estado inicial,
// asignado al crear; ARCHIVED es terminal (sin salidas).
const (
	StatusScraped   = "SCRAPED"
	StatusValidated = "VALIDATED"
	StatusQualified = "QUALIFIED"
	StatusInBid     = "IN_BID"
	StatusSubmitted = "SUBMITTED"
	StatusWon       = "WON"
	StatusLost      = "LOST"
	StatusArchived  = "ARCHIVED"
)

// transitions es la tabla de adyacencia del ciclo de vida: estado → destinos
// permitidos. Construida estáticamente y nunca mutada; toda validación de
// transiciones pasa por aquí (no hay condicionales sueltos en otros paquetes).
var transitions = map[string][]string{
	StatusScraped:   {StatusValidated, StatusArchived},
	StatusValidated: {StatusQualified, StatusArchived},
	StatusQualified: {StatusInBid, StatusArchived},
	StatusInBid:     {StatusSubmitted, StatusArchived},
	StatusSubmitted: {StatusWon, StatusLost, StatusArchived},
	StatusWon:       {StatusArchived},
	StatusLost:      {StatusArchived},
	StatusArchived:  {},
}

// AllStatuses devuelve todos los estados conocidos, ordenados.
func AllStatuses() []string {
	out := make([]string, 0, len(transitions))
	for s := range transitions {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// IsValidStatus indica si s es un estado conocido del ciclo de vida.
func IsValidStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition indica si la arista from → to existe en la tabla.
// Es total: cualquier par desconocido devuelve false.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses devuelve los destinos permitidos desde from (copia defensiva).
func NextStatuses(from string) []string {
	next := transitions[from]
	out := make([]string, len(next))
	copy(out, next)
	return out
}

// IsTerminal indica si el estado no tiene transiciones de salida.
func IsTerminal(s string) bool {
	return IsValidStatus(s) && len(transitions[s]) == 0
}

// IsOutcome indica si el estado registra el resultado de la licitación.
// WON y LOST solo son alcanzables desde SUBMITTED.
func IsOutcome(s string) bool {
	return s == StatusWon || s == StatusLost
}
