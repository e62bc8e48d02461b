package tender_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tenders-api/internal/domain/tender"
)

// legalEdges replica la tabla esperada del ciclo de vida. Si la tabla del
// paquete cambia, este test debe cambiar de forma deliberada.
var legalEdges = map[string][]string{
	tender.StatusScraped:   {tender.StatusValidated, tender.StatusArchived},
	tender.StatusValidated: {tender.StatusQualified, tender.StatusArchived},
	tender.StatusQualified: {tender.StatusInBid, tender.StatusArchived},
	tender.StatusInBid:     {tender.StatusSubmitted, tender.StatusArchived},
	tender.StatusSubmitted: {tender.StatusWon, tender.StatusLost, tender.StatusArchived},
	tender.StatusWon:       {tender.StatusArchived},
	tender.StatusLost:      {tender.StatusArchived},
	tender.StatusArchived:  {},
}

func TestCanTransition_TablaCompleta(t *testing.T) {
	all := tender.AllStatuses()
	require.Len(t, all, 8, "deben existir exactamente 8 estados")

	// Totalidad: para todo par (from, to), CanTransition coincide con la tabla esperada.
	for _, from := range all {
		allowed := map[string]bool{}
		for _, to := range legalEdges[from] {
			allowed[to] = true
		}
		for _, to := range all {
			got := tender.CanTransition(from, to)
			assert.Equal(t, allowed[to], got, "transición %s -> %s", from, to)
		}
	}
}

func TestCanTransition_EstadosDesconocidos(t *testing.T) {
	assert.False(t, tender.CanTransition("BOGUS", tender.StatusValidated))
	assert.False(t, tender.CanTransition(tender.StatusScraped, "BOGUS"))
	assert.False(t, tender.CanTransition("", ""))
}

func TestArchived_EsTerminal(t *testing.T) {
	assert.True(t, tender.IsTerminal(tender.StatusArchived))
	for _, to := range tender.AllStatuses() {
		assert.False(t, tender.CanTransition(tender.StatusArchived, to),
			"ARCHIVED no debe tener salidas (destino %s)", to)
	}
	// Los demás estados no son terminales.
	for _, s := range tender.AllStatuses() {
		if s == tender.StatusArchived {
			continue
		}
		assert.False(t, tender.IsTerminal(s), "%s no debe ser terminal", s)
	}
}

func TestNextStatuses_DevuelveCopia(t *testing.T) {
	next := tender.NextStatuses(tender.StatusSubmitted)
	require.Equal(t, []string{tender.StatusWon, tender.StatusLost, tender.StatusArchived}, next)

	// Mutar la copia no debe afectar la tabla interna.
	next[0] = "HACKED"
	assert.True(t, tender.CanTransition(tender.StatusSubmitted, tender.StatusWon))
}

func TestIsOutcome(t *testing.T) {
	assert.True(t, tender.IsOutcome(tender.StatusWon))
	assert.True(t, tender.IsOutcome(tender.StatusLost))
	assert.False(t, tender.IsOutcome(tender.StatusArchived))
	assert.False(t, tender.IsOutcome(tender.StatusSubmitted))
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range tender.AllStatuses() {
		assert.True(t, tender.IsValidStatus(s))
	}
	assert.False(t, tender.IsValidStatus("scraped"), "los estados son case-sensitive")
	assert.False(t, tender.IsValidStatus(""))
}
