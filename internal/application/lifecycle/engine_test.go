package lifecycle_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tenders-api/internal/application/access"
	"github.com/jhoicas/tenders-api/internal/application/audit"
	"github.com/jhoicas/tenders-api/internal/application/dto"
	"github.com/jhoicas/tenders-api/internal/application/lifecycle"
	"github.com/jhoicas/tenders-api/internal/domain"
	"github.com/jhoicas/tenders-api/internal/domain/tender"
	"github.com/jhoicas/tenders-api/internal/testutil"
)

const (
	tenantA  = "tenant-a"
	tenderID = "tender-1"
)

type fixture struct {
	store  *testutil.MemStore
	engine *lifecycle.Engine
}

func newFixture(t *testing.T, status string) *fixture {
	t.Helper()
	s := testutil.NewMemStore()
	s.SeedTenant(tenantA)
	s.SeedUser("owner-1", tenantA, "member")
	s.SeedUser("viewer-1", tenantA, "member")
	s.SeedTender(tenderID, tenantA, "owner-1", status)
	s.SeedAssignment(tenderID, "owner-1", tender.RoleOwner)
	s.SeedAssignment(tenderID, "viewer-1", tender.RoleViewer)
	facade := access.NewFacade(s.TenderRepo(), s.UserRepo(), s.AssignmentRepo(), s.Tx(), audit.NopRecorder{})
	return &fixture{
		store:  s,
		engine: lifecycle.NewEngine(facade, s.TransitionRepo(), s.Tx(), audit.NopRecorder{}),
	}
}

func owner() access.Actor  { return access.Actor{UserID: "owner-1", TenantID: tenantA} }
func viewer() access.Actor { return access.Actor{UserID: "viewer-1", TenantID: tenantA} }

func TestTransition_AristaValida(t *testing.T) {
	f := newFixture(t, tender.StatusScraped)
	ctx := context.Background()

	resp, err := f.engine.Transition(ctx, owner(), tenderID, dto.TransitionRequest{
		ToStatus: tender.StatusValidated,
		Reason:   "revisión manual completada",
	})
	require.NoError(t, err)
	assert.Equal(t, tender.StatusValidated, resp.Status)

	// Registro de historial en la misma unidad que el cambio de estado
	history, err := f.engine.History(ctx, owner(), tenderID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, tender.StatusScraped, history[0].FromStatus)
	assert.Equal(t, tender.StatusValidated, history[0].ToStatus)
	assert.Equal(t, "owner-1", history[0].TriggeredBy)
	assert.Equal(t, "revisión manual completada", history[0].Reason)
}

func TestTransition_AristaInvalidaNoDejaRastro(t *testing.T) {
	f := newFixture(t, tender.StatusScraped)
	ctx := context.Background()

	// SCRAPED no salta etapas
	for _, to := range []string{tender.StatusInBid, tender.StatusSubmitted} {
		_, err := f.engine.Transition(ctx, owner(), tenderID, dto.TransitionRequest{ToStatus: to})
		require.ErrorIs(t, err, domain.ErrBusinessRule, to)
	}

	// Ni el estado ni el historial cambiaron
	assert.Equal(t, tender.StatusScraped, f.store.Tenders[tenderID].Status)
	assert.Empty(t, f.store.Transitions)
}

func TestTransition_EstadoDesconocido(t *testing.T) {
	f := newFixture(t, tender.StatusScraped)
	ctx := context.Background()

	_, err := f.engine.Transition(ctx, owner(), tenderID, dto.TransitionRequest{ToStatus: "PENDING"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Toda arista de la tabla es alcanzable con la operación genérica, resultados
// incluidos: la tabla es el contrato, no hay destinos reservados.
func TestTransition_TablaCompleta(t *testing.T) {
	ctx := context.Background()
	for _, from := range tender.AllStatuses() {
		for _, to := range tender.NextStatuses(from) {
			f := newFixture(t, from)
			resp, err := f.engine.Transition(ctx, owner(), tenderID, dto.TransitionRequest{ToStatus: to})
			require.NoError(t, err, "%s -> %s", from, to)
			assert.Equal(t, to, resp.Status)
		}
	}
}

func TestTransition_ResultadoSinPayload(t *testing.T) {
	f := newFixture(t, tender.StatusSubmitted)
	ctx := context.Background()

	resp, err := f.engine.Transition(ctx, owner(), tenderID, dto.TransitionRequest{ToStatus: tender.StatusWon})
	require.NoError(t, err)
	assert.Equal(t, tender.StatusWon, resp.Status)

	history, err := f.engine.History(ctx, owner(), tenderID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, tender.StatusWon, history[0].ToStatus)
	// Sin metadata de resultado: eso es exclusivo de MarkOutcome
	assert.Empty(t, history[0].Metadata)
}

func TestTransition_ResultadoFueraDeSubmitted(t *testing.T) {
	// La arista ni siquiera existe fuera de SUBMITTED; el guard de resultado
	// respalda la misma regla con la fila bloqueada.
	f := newFixture(t, tender.StatusInBid)
	_, err := f.engine.Transition(context.Background(), owner(), tenderID, dto.TransitionRequest{ToStatus: tender.StatusLost})
	assert.ErrorIs(t, err, domain.ErrBusinessRule)
	assert.Equal(t, tender.StatusInBid, f.store.Tenders[tenderID].Status)
}

func TestTransition_RequiereTransitionState(t *testing.T) {
	f := newFixture(t, tender.StatusScraped)
	ctx := context.Background()

	_, err := f.engine.Transition(ctx, viewer(), tenderID, dto.TransitionRequest{ToStatus: tender.StatusValidated})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Empty(t, f.store.Transitions)
}

func TestTransition_ArchivadoDesdeCualquierEstadoNoTerminal(t *testing.T) {
	for _, from := range []string{
		tender.StatusScraped, tender.StatusValidated, tender.StatusQualified,
		tender.StatusInBid, tender.StatusSubmitted, tender.StatusWon, tender.StatusLost,
	} {
		f := newFixture(t, from)
		resp, err := f.engine.Transition(context.Background(), owner(), tenderID, dto.TransitionRequest{ToStatus: tender.StatusArchived})
		require.NoError(t, err, "desde %s", from)
		assert.Equal(t, tender.StatusArchived, resp.Status)
	}
}

func TestTransition_ArchivedEsTerminal(t *testing.T) {
	f := newFixture(t, tender.StatusArchived)
	ctx := context.Background()

	for _, to := range tender.AllStatuses() {
		_, err := f.engine.Transition(ctx, owner(), tenderID, dto.TransitionRequest{ToStatus: to})
		assert.ErrorIs(t, err, domain.ErrBusinessRule, to)
	}
}

func TestMarkOutcome(t *testing.T) {
	f := newFixture(t, tender.StatusSubmitted)
	ctx := context.Background()

	value := decimal.NewFromInt(150000)
	resp, err := f.engine.MarkOutcome(ctx, owner(), tenderID, dto.OutcomeRequest{
		Outcome:       tender.StatusWon,
		ContractValue: &value,
		DecisionNotes: "mejor oferta técnica",
	})
	require.NoError(t, err)
	assert.Equal(t, tender.StatusWon, resp.Status)

	history, err := f.engine.History(ctx, owner(), tenderID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "150000", history[0].Metadata["contractValue"])
	assert.Equal(t, "mejor oferta técnica", history[0].Metadata["decisionNotes"])
}

func TestMarkOutcome_SoloDesdeSubmitted(t *testing.T) {
	for _, from := range []string{tender.StatusScraped, tender.StatusInBid, tender.StatusWon, tender.StatusArchived} {
		f := newFixture(t, from)
		_, err := f.engine.MarkOutcome(context.Background(), owner(), tenderID, dto.OutcomeRequest{Outcome: tender.StatusLost})
		assert.ErrorIs(t, err, domain.ErrBusinessRule, "desde %s", from)
		assert.Equal(t, from, f.store.Tenders[tenderID].Status)
	}
}

func TestMarkOutcome_ResultadoInvalido(t *testing.T) {
	f := newFixture(t, tender.StatusSubmitted)
	_, err := f.engine.MarkOutcome(context.Background(), owner(), tenderID, dto.OutcomeRequest{Outcome: "DRAW"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHistory_MasRecientePrimero(t *testing.T) {
	f := newFixture(t, tender.StatusScraped)
	ctx := context.Background()

	pasos := []string{tender.StatusValidated, tender.StatusQualified, tender.StatusInBid}
	for _, to := range pasos {
		_, err := f.engine.Transition(ctx, owner(), tenderID, dto.TransitionRequest{ToStatus: to})
		require.NoError(t, err)
	}

	history, err := f.engine.History(ctx, viewer(), tenderID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, tender.StatusInBid, history[0].ToStatus)
	assert.Equal(t, tender.StatusQualified, history[1].ToStatus)
	assert.Equal(t, tender.StatusValidated, history[2].ToStatus)

	// Paginación
	pagina, err := f.engine.History(ctx, viewer(), tenderID, dto.PageRequest{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, pagina, 1)
	assert.Equal(t, tender.StatusQualified, pagina[0].ToStatus)
}
