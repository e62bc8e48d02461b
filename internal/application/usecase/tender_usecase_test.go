package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tenders-api/internal/application/access"
	"github.com/jhoicas/tenders-api/internal/application/audit"
	"github.com/jhoicas/tenders-api/internal/application/dto"
	"github.com/jhoicas/tenders-api/internal/application/usecase"
	"github.com/jhoicas/tenders-api/internal/domain"
	"github.com/jhoicas/tenders-api/internal/domain/tender"
	"github.com/jhoicas/tenders-api/internal/testutil"
)

const tenantA = "tenant-a"

type fixture struct {
	store *testutil.MemStore
	uc    *usecase.TenderUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := testutil.NewMemStore()
	s.SeedTenant(tenantA)
	s.SeedUser("creator-1", tenantA, "member")
	s.SeedUser("contrib-1", tenantA, "member")
	s.SeedUser("viewer-1", tenantA, "member")
	facade := access.NewFacade(s.TenderRepo(), s.UserRepo(), s.AssignmentRepo(), s.Tx(), audit.NopRecorder{})
	return &fixture{
		store: s,
		uc:    usecase.NewTenderUseCase(facade, s.TenderRepo(), s.Tx(), audit.NopRecorder{}),
	}
}

func creator() access.Actor { return access.Actor{UserID: "creator-1", TenantID: tenantA} }

func (f *fixture) createTender(t *testing.T) string {
	t.Helper()
	resp, err := f.uc.Create(context.Background(), creator(), dto.CreateTenderRequest{Title: "licitación de prueba"})
	require.NoError(t, err)
	return resp.ID
}

func TestCreate_NaceScrapedConOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	value := decimal.NewFromInt(250000)
	resp, err := f.uc.Create(ctx, creator(), dto.CreateTenderRequest{
		Title:          "pavimentación vía terciaria",
		BuyerName:      "alcaldía municipal",
		EstimatedValue: &value,
	})
	require.NoError(t, err)
	assert.Equal(t, tender.StatusScraped, resp.Status)
	assert.Equal(t, tenantA, resp.TenantID)
	assert.Equal(t, "creator-1", resp.CreatedBy)

	// El creador queda como owner en la misma unidad que la creación
	role, err := f.store.AssignmentRepo().GetRole(ctx, resp.ID, "creator-1")
	require.NoError(t, err)
	assert.Equal(t, tender.RoleOwner, role)
}

func TestCreate_SinTitulo(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), creator(), dto.CreateTenderRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.createTender(t)

	resp, err := f.uc.Get(ctx, creator(), id)
	require.NoError(t, err)
	assert.Equal(t, id, resp.Tender.ID)
	assert.Equal(t, tender.RoleOwner, resp.Role)
	assert.True(t, resp.Permissions[tender.CapabilityDelete])

	// Sin asignación no hay lectura
	_, err = f.uc.Get(ctx, access.Actor{UserID: "viewer-1", TenantID: tenantA}, id)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestPermissions_SondaSinMutacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.createTender(t)

	// La sonda no falla para un actor sin acceso: informa la denegación
	resp, err := f.uc.Permissions(ctx, access.Actor{UserID: "viewer-1", TenantID: tenantA}, id)
	require.NoError(t, err)
	assert.False(t, resp.Allowed)
	assert.Equal(t, access.ReasonNotAssigned, resp.Reason)
	for _, c := range tender.AllCapabilities() {
		assert.False(t, resp.Permissions[c], c)
	}

	// Tender ausente sí es 404
	_, err = f.uc.Permissions(ctx, creator(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_PatchParcial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.createTender(t)

	nuevoTitulo := "licitación renombrada"
	value := decimal.NewFromInt(99000)
	resp, err := f.uc.Update(ctx, creator(), id, dto.UpdateTenderRequest{
		Title:          &nuevoTitulo,
		EstimatedValue: &value,
	})
	require.NoError(t, err)
	assert.Equal(t, nuevoTitulo, resp.Title)
	require.NotNil(t, resp.EstimatedValue)
	assert.True(t, resp.EstimatedValue.Equal(value))
	// Los campos no enviados quedan intactos
	assert.Equal(t, tender.StatusScraped, resp.Status)
}

func TestUpdate_RequiereWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.createTender(t)

	facade := access.NewFacade(f.store.TenderRepo(), f.store.UserRepo(), f.store.AssignmentRepo(), f.store.Tx(), audit.NopRecorder{})
	_, err := facade.Assign(ctx, creator(), id, "viewer-1", tender.RoleViewer)
	require.NoError(t, err)

	titulo := "no debería pasar"
	_, err = f.uc.Update(ctx, access.Actor{UserID: "viewer-1", TenantID: tenantA}, id, dto.UpdateTenderRequest{Title: &titulo})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSoftDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.createTender(t)

	require.NoError(t, f.uc.SoftDelete(ctx, creator(), id))

	// Invisible para toda lectura posterior, incluso para el owner
	_, err := f.uc.Get(ctx, creator(), id)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Y para las mutaciones
	titulo := "tarde"
	_, err = f.uc.Update(ctx, creator(), id, dto.UpdateTenderRequest{Title: &titulo})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSoftDelete_RequiereDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.createTender(t)

	facade := access.NewFacade(f.store.TenderRepo(), f.store.UserRepo(), f.store.AssignmentRepo(), f.store.Tx(), audit.NopRecorder{})
	_, err := facade.Assign(ctx, creator(), id, "contrib-1", tender.RoleContributor)
	require.NoError(t, err)

	err = f.uc.SoftDelete(ctx, access.Actor{UserID: "contrib-1", TenantID: tenantA}, id)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestList_MiembroSoloVeAsignados(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id1 := f.createTender(t)
	f.createTender(t) // segundo tender, sin asignar a contrib-1

	facade := access.NewFacade(f.store.TenderRepo(), f.store.UserRepo(), f.store.AssignmentRepo(), f.store.Tx(), audit.NopRecorder{})
	_, err := facade.Assign(ctx, creator(), id1, "contrib-1", tender.RoleContributor)
	require.NoError(t, err)

	list, err := f.uc.List(ctx, access.Actor{UserID: "contrib-1", TenantID: tenantA}, dto.ListTendersRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id1, list[0].Tender.ID)
	assert.Equal(t, tender.RoleContributor, list[0].Role)
	assert.True(t, list[0].Permissions[tender.CapabilityWrite])
	assert.False(t, list[0].Permissions[tender.CapabilityDelete])
}

func TestList_AdminVeTodoElTenant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createTender(t)
	f.createTender(t)
	f.store.SeedUser("admin-1", tenantA, "admin")

	list, err := f.uc.List(ctx, access.Actor{UserID: "admin-1", TenantID: tenantA, IsAdmin: true}, dto.ListTendersRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
	for _, item := range list {
		assert.Equal(t, tender.RoleOwner, item.Role)
		assert.True(t, item.Permissions[tender.CapabilityManageAssignees])
	}
}

func TestList_FiltroPorRol(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id1 := f.createTender(t)
	id2 := f.createTender(t)

	facade := access.NewFacade(f.store.TenderRepo(), f.store.UserRepo(), f.store.AssignmentRepo(), f.store.Tx(), audit.NopRecorder{})
	_, err := facade.Assign(ctx, creator(), id1, "contrib-1", tender.RoleContributor)
	require.NoError(t, err)
	_, err = facade.Assign(ctx, creator(), id2, "contrib-1", tender.RoleViewer)
	require.NoError(t, err)

	list, err := f.uc.List(ctx, access.Actor{UserID: "contrib-1", TenantID: tenantA}, dto.ListTendersRequest{Role: tender.RoleViewer})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id2, list[0].Tender.ID)
}
