package access_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tenders-api/internal/application/dto"
	"github.com/jhoicas/tenders-api/internal/domain"
	"github.com/jhoicas/tenders-api/internal/domain/tender"
)

func TestAssign(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.facade.Assign(ctx, actor("owner-1"), tenderID, "outsider-1", tender.RoleViewer)
	require.NoError(t, err)
	assert.Equal(t, "outsider-1", resp.UserID)
	assert.Equal(t, tender.RoleViewer, resp.Role)

	// La ruta de creación rechaza pares ya asignados
	_, err = f.facade.Assign(ctx, actor("owner-1"), tenderID, "outsider-1", tender.RoleContributor)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAssign_RolInvalido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.facade.Assign(ctx, actor("owner-1"), tenderID, "outsider-1", "superuser")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAssign_RequiereManageAssignees(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// contributor no gestiona asignados
	_, err := f.facade.Assign(ctx, actor("contrib-1"), tenderID, "outsider-1", tender.RoleViewer)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// admin de tenant sí, por el override
	_, err = f.facade.Assign(ctx, adminActor(), tenderID, "outsider-1", tender.RoleViewer)
	assert.NoError(t, err)
}

func TestAssign_UsuarioDeOtroTenantEsForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.facade.Assign(ctx, actor("owner-1"), tenderID, "foreign-1", tender.RoleViewer)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Usuario inexistente recibe el mismo trato
	_, err = f.facade.Assign(ctx, actor("owner-1"), tenderID, "fantasma", tender.RoleViewer)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateAssignment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.facade.UpdateAssignment(ctx, actor("owner-1"), tenderID, "viewer-1", tender.RoleContributor)
	require.NoError(t, err)
	assert.Equal(t, tender.RoleContributor, resp.Role)

	// Asignación inexistente
	_, err = f.facade.UpdateAssignment(ctx, actor("owner-1"), tenderID, "outsider-1", tender.RoleViewer)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateAssignment_NoDegradaAlUltimoOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.facade.UpdateAssignment(ctx, adminActor(), tenderID, "owner-1", tender.RoleViewer)
	require.ErrorIs(t, err, domain.ErrBusinessRule)

	// El rol no cambió
	role, err := f.store.AssignmentRepo().GetRole(ctx, tenderID, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, tender.RoleOwner, role)

	// Con un segundo owner ya se puede degradar al primero
	_, err = f.facade.TransferOwnership(ctx, adminActor(), tenderID, "contrib-1")
	require.NoError(t, err)
	_, err = f.facade.UpdateAssignment(ctx, adminActor(), tenderID, "owner-1", tender.RoleViewer)
	assert.NoError(t, err)
}

func TestRevoke(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.facade.Revoke(ctx, actor("owner-1"), tenderID, "viewer-1"))

	role, err := f.store.AssignmentRepo().GetRole(ctx, tenderID, "viewer-1")
	require.NoError(t, err)
	assert.Empty(t, role)

	// Asignación inexistente
	err = f.facade.Revoke(ctx, actor("owner-1"), tenderID, "viewer-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRevoke_NoEliminaAlUltimoOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Ni siquiera el propio owner puede auto-removerse si es el último
	err := f.facade.Revoke(ctx, actor("owner-1"), tenderID, "owner-1")
	require.ErrorIs(t, err, domain.ErrBusinessRule)

	// Sin efecto parcial: la asignación sigue intacta
	role, err := f.store.AssignmentRepo().GetRole(ctx, tenderID, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, tender.RoleOwner, role)

	// Con un segundo owner, el primero ya puede salir y el segundo queda solo
	_, err = f.facade.UpdateAssignment(ctx, actor("owner-1"), tenderID, "contrib-1", tender.RoleOwner)
	require.NoError(t, err)
	require.NoError(t, f.facade.Revoke(ctx, actor("owner-1"), tenderID, "owner-1"))

	owners, err := f.store.AssignmentRepo().CountOwners(ctx, tenderID)
	require.NoError(t, err)
	assert.Equal(t, 1, owners)
}

func TestTransferOwnership_SoloOtorga(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.facade.TransferOwnership(ctx, actor("owner-1"), tenderID, "viewer-1")
	require.NoError(t, err)
	assert.Equal(t, tender.RoleOwner, resp.Role)

	// El owner anterior conserva su rol: multi-owner es estable
	role, err := f.store.AssignmentRepo().GetRole(ctx, tenderID, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, tender.RoleOwner, role)

	owners, err := f.store.AssignmentRepo().CountOwners(ctx, tenderID)
	require.NoError(t, err)
	assert.Equal(t, 2, owners)
}

func TestTransferOwnership_DestinatarioSinAsignacionPrevia(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.facade.TransferOwnership(ctx, actor("owner-1"), tenderID, "outsider-1")
	require.NoError(t, err)
	assert.Equal(t, tender.RoleOwner, resp.Role)
}

func TestBulkAssign_BestEffortPorEntrada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.SeedUser("outsider-2", tenantA, "member")

	// La entrada cross-tenant del medio falla; la primera y la tercera persisten
	resp, err := f.facade.BulkAssign(ctx, actor("owner-1"), tenderID, []dto.AssignRequest{
		{UserID: "outsider-1", Role: tender.RoleViewer},
		{UserID: "foreign-1", Role: tender.RoleViewer},
		{UserID: "outsider-2", Role: tender.RoleContributor},
	})
	require.NoError(t, err)
	require.Len(t, resp.Created, 2)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "foreign-1", resp.Errors[0].UserID)
	assert.Contains(t, resp.Errors[0].Error, "no pertenece al tenant")

	for _, u := range []string{"outsider-1", "outsider-2"} {
		role, err := f.store.AssignmentRepo().GetRole(ctx, tenderID, u)
		require.NoError(t, err)
		assert.NotEmpty(t, role, u)
	}
}

func TestBulkAssign_EntradasInvalidasNoAbortanElLote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.facade.BulkAssign(ctx, actor("owner-1"), tenderID, []dto.AssignRequest{
		{UserID: "viewer-1", Role: tender.RoleViewer},
		{UserID: "outsider-1", Role: "superuser"},
		{UserID: "outsider-1", Role: tender.RoleViewer},
	})
	require.NoError(t, err)
	require.Len(t, resp.Created, 1)
	assert.Equal(t, "outsider-1", resp.Created[0].UserID)
	require.Len(t, resp.Errors, 2)
	assert.Equal(t, "viewer-1", resp.Errors[0].UserID) // ya asignado
}

func TestBulkAssign_SinCapabilityFallaCompleto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.facade.BulkAssign(ctx, actor("contrib-1"), tenderID, []dto.AssignRequest{
		{UserID: "outsider-1", Role: tender.RoleViewer},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestListAssignees_OwnersPrimero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list, err := f.facade.ListAssignees(ctx, actor("viewer-1"), tenderID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, tender.RoleOwner, list[0].Role)
	assert.Equal(t, tender.RoleContributor, list[1].Role)
	assert.Equal(t, tender.RoleViewer, list[2].Role)
}

// TestInvarianteDeOwnership ejecuta secuencias aleatorias de mutaciones de
// asignación y verifica que el tender nunca queda con asignaciones y cero
// owners: toda operación que lo causaría debe fallar sin efecto.
func TestInvarianteDeOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	users := []string{"owner-1", "contrib-1", "viewer-1", "outsider-1"}
	roles := []string{tender.RoleOwner, tender.RoleContributor, tender.RoleViewer}
	admin := adminActor()

	for i := 0; i < 500; i++ {
		u := users[rng.Intn(len(users))]
		switch rng.Intn(4) {
		case 0:
			_, _ = f.facade.Assign(ctx, admin, tenderID, u, roles[rng.Intn(len(roles))])
		case 1:
			_, _ = f.facade.UpdateAssignment(ctx, admin, tenderID, u, roles[rng.Intn(len(roles))])
		case 2:
			_ = f.facade.Revoke(ctx, admin, tenderID, u)
		case 3:
			_, _ = f.facade.TransferOwnership(ctx, admin, tenderID, u)
		}

		assignments, err := f.store.AssignmentRepo().ListByTender(ctx, tenderID)
		require.NoError(t, err)
		if len(assignments) == 0 {
			continue
		}
		owners, err := f.store.AssignmentRepo().CountOwners(ctx, tenderID)
		require.NoError(t, err)
		require.GreaterOrEqual(t, owners, 1, "iteración %d: tender con asignaciones y sin owner", i)
	}
}
