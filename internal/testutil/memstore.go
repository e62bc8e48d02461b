// Package testutil provee repositorios en memoria para probar la capa de
// aplicación sin PostgreSQL. Replican el contrato de los puertos de
// internal/domain/repository: lecturas tenant-scoped, soft delete invisible,
// GetRole devuelve "" sin asignación, listados con el mismo orden que el SQL.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/tenders-api/internal/domain"
	"github.com/jhoicas/tenders-api/internal/domain/entity"
	"github.com/jhoicas/tenders-api/internal/domain/repository"
	"github.com/jhoicas/tenders-api/internal/domain/tender"
)

// MemStore es el estado compartido por todos los repos en memoria.
type MemStore struct {
	mu          sync.Mutex
	Tenants     map[string]*entity.Tenant
	Users       map[string]*entity.User
	Tenders     map[string]*entity.Tender
	Assignments map[string]*entity.TenderAssignment // clave: tenderID|userID
	Transitions []*entity.StateTransition

	seq int // desempate de orden para entidades creadas en el mismo instante
}

func NewMemStore() *MemStore {
	return &MemStore{
		Tenants:     map[string]*entity.Tenant{},
		Users:       map[string]*entity.User{},
		Tenders:     map[string]*entity.Tender{},
		Assignments: map[string]*entity.TenderAssignment{},
	}
}

func assignKey(tenderID, userID string) string { return tenderID + "|" + userID }

// --- seeds ---

func (s *MemStore) SeedTenant(id string) *entity.Tenant {
	t := &entity.Tenant{ID: id, Name: "tenant " + id, Status: entity.TenantStatusActive, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	s.Tenants[id] = t
	return t
}

func (s *MemStore) SeedUser(id, tenantID, tenantRole string) *entity.User {
	u := &entity.User{
		ID:         id,
		TenantID:   tenantID,
		Email:      id + "@example.com",
		Name:       "user " + id,
		TenantRole: tenantRole,
		Status:     entity.UserStatusActive,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	s.Users[id] = u
	return u
}

func (s *MemStore) SeedTender(id, tenantID, createdBy, status string) *entity.Tender {
	s.seq++
	t := &entity.Tender{
		ID:        id,
		TenantID:  tenantID,
		Title:     "tender " + id,
		Status:    status,
		CreatedBy: createdBy,
		CreatedAt: time.Now().Add(time.Duration(s.seq) * time.Millisecond),
		UpdatedAt: time.Now(),
	}
	s.Tenders[id] = t
	return t
}

func (s *MemStore) SeedAssignment(tenderID, userID, role string) *entity.TenderAssignment {
	s.seq++
	a := &entity.TenderAssignment{
		ID:        uuid.New().String(),
		TenderID:  tenderID,
		UserID:    userID,
		Role:      role,
		CreatedAt: time.Now().Add(time.Duration(s.seq) * time.Millisecond),
		UpdatedAt: time.Now(),
	}
	s.Assignments[assignKey(tenderID, userID)] = a
	return a
}

// --- accesores de puertos ---

func (s *MemStore) TenderRepo() repository.TenderRepository         { return memTenderRepo{s} }
func (s *MemStore) UserRepo() repository.UserRepository             { return memUserRepo{s} }
func (s *MemStore) TenantRepo() repository.TenantRepository         { return memTenantRepo{s} }
func (s *MemStore) AssignmentRepo() repository.AssignmentRepository { return memAssignmentRepo{s} }
func (s *MemStore) TransitionRepo() repository.TransitionRepository { return memTransitionRepo{s} }

// TxRunner ejecuta fn directamente sobre los mismos repos. No simula rollback:
// los casos de uso corren sus guards antes de mutar, así que las pruebas de
// invariantes no lo necesitan.
type TxRunner struct{ S *MemStore }

func (r TxRunner) Run(_ context.Context, fn func(
	tenderRepo repository.TenderRepository,
	assignmentRepo repository.AssignmentRepository,
	transitionRepo repository.TransitionRepository,
) error) error {
	return fn(r.S.TenderRepo(), r.S.AssignmentRepo(), r.S.TransitionRepo())
}

func (s *MemStore) Tx() TxRunner { return TxRunner{S: s} }

// --- tender ---

type memTenderRepo struct{ s *MemStore }

func (r memTenderRepo) Create(_ context.Context, t *entity.Tender) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Tenders[t.ID]; ok {
		return fmt.Errorf("%w: tender %s duplicado", domain.ErrConflict, t.ID)
	}
	r.s.Tenders[t.ID] = t
	return nil
}

func (r memTenderRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Tender, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.Tenders[id]
	if !ok || t.TenantID != tenantID || t.IsDeleted() {
		return nil, nil
	}
	return t, nil
}

func (r memTenderRepo) GetByIDForUpdate(ctx context.Context, tenantID, id string) (*entity.Tender, error) {
	// Sin bloqueo de fila en memoria; mismo contrato de visibilidad.
	return r.GetByID(ctx, tenantID, id)
}

func (r memTenderRepo) Update(_ context.Context, t *entity.Tender) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Tenders[t.ID] = t
	return nil
}

func (r memTenderRepo) UpdateStatus(_ context.Context, tenderID, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.Tenders[tenderID]
	if !ok || t.IsDeleted() {
		return nil
	}
	t.Status = status
	t.UpdatedAt = time.Now()
	return nil
}

func (r memTenderRepo) SoftDelete(_ context.Context, tenantID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.Tenders[id]
	if !ok || t.TenantID != tenantID {
		return nil
	}
	now := time.Now()
	t.DeletedAt = &now
	return nil
}

func (r memTenderRepo) ListByTenant(_ context.Context, tenantID string, filter repository.TenderFilter) ([]*entity.Tender, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Tender
	for _, t := range r.s.Tenders {
		if t.TenantID != tenantID || t.IsDeleted() {
			continue
		}
		if !matchesFilter(t.Status, filter) {
			continue
		}
		out = append(out, t)
	}
	sortTendersDesc(out)
	return page(out, filter.Limit, filter.Offset), nil
}

func (r memTenderRepo) ListByAssignee(_ context.Context, tenantID, userID, role string, filter repository.TenderFilter) ([]repository.AssignedTender, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var tenders []*entity.Tender
	roles := map[string]string{}
	for _, a := range r.s.Assignments {
		if a.UserID != userID {
			continue
		}
		if role != "" && a.Role != role {
			continue
		}
		t, ok := r.s.Tenders[a.TenderID]
		if !ok || t.TenantID != tenantID || t.IsDeleted() {
			continue
		}
		if !matchesFilter(t.Status, filter) {
			continue
		}
		tenders = append(tenders, t)
		roles[t.ID] = a.Role
	}
	sortTendersDesc(tenders)
	tenders = page(tenders, filter.Limit, filter.Offset)
	out := make([]repository.AssignedTender, 0, len(tenders))
	for _, t := range tenders {
		out = append(out, repository.AssignedTender{Tender: t, Role: roles[t.ID]})
	}
	return out, nil
}

func matchesFilter(status string, filter repository.TenderFilter) bool {
	if filter.Status != "" && status != filter.Status {
		return false
	}
	if !filter.IncludeArchived && status == tender.StatusArchived {
		return false
	}
	return true
}

func sortTendersDesc(list []*entity.Tender) {
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// --- user ---

type memUserRepo struct{ s *MemStore }

func (r memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.Users {
		if existing.TenantID == u.TenantID && existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.Users[u.ID] = u
	return nil
}

func (r memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.Users[id], nil
}

func (r memUserRepo) GetByEmailAndTenant(_ context.Context, email, tenantID string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.Users {
		if u.TenantID == tenantID && u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r memUserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Users[u.ID] = u
	return nil
}

func (r memUserRepo) ListByTenant(_ context.Context, tenantID string, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.User
	for _, u := range r.s.Users {
		if u.TenantID == tenantID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

// --- tenant ---

type memTenantRepo struct{ s *MemStore }

func (r memTenantRepo) Create(_ context.Context, t *entity.Tenant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Tenants[t.ID] = t
	return nil
}

func (r memTenantRepo) GetByID(_ context.Context, id string) (*entity.Tenant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.Tenants[id], nil
}

func (r memTenantRepo) Update(_ context.Context, t *entity.Tenant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Tenants[t.ID] = t
	return nil
}

// --- assignment ---

type memAssignmentRepo struct{ s *MemStore }

func (r memAssignmentRepo) GetRole(_ context.Context, tenderID, userID string) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a, ok := r.s.Assignments[assignKey(tenderID, userID)]; ok {
		return a.Role, nil
	}
	return "", nil
}

func (r memAssignmentRepo) Get(_ context.Context, tenderID, userID string) (*entity.TenderAssignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.Assignments[assignKey(tenderID, userID)], nil
}

func (r memAssignmentRepo) ListByTender(_ context.Context, tenderID string) ([]*entity.TenderAssignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.TenderAssignment
	for _, a := range r.s.Assignments {
		if a.TenderID == tenderID {
			out = append(out, a)
		}
	}
	rank := func(role string) int {
		switch role {
		case tender.RoleOwner:
			return 1
		case tender.RoleContributor:
			return 2
		default:
			return 3
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if rank(out[i].Role) != rank(out[j].Role) {
			return rank(out[i].Role) < rank(out[j].Role)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r memAssignmentRepo) Upsert(_ context.Context, a *entity.TenderAssignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Assignments[assignKey(a.TenderID, a.UserID)] = a
	return nil
}

func (r memAssignmentRepo) Remove(_ context.Context, tenderID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := assignKey(tenderID, userID)
	if _, ok := r.s.Assignments[k]; !ok {
		return fmt.Errorf("%w: asignación de %s", domain.ErrNotFound, userID)
	}
	delete(r.s.Assignments, k)
	return nil
}

func (r memAssignmentRepo) CountOwners(_ context.Context, tenderID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, a := range r.s.Assignments {
		if a.TenderID == tenderID && a.Role == tender.RoleOwner {
			n++
		}
	}
	return n, nil
}

// --- transiciones ---

type memTransitionRepo struct{ s *MemStore }

func (r memTransitionRepo) Append(_ context.Context, t *entity.StateTransition) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Transitions = append(r.s.Transitions, t)
	return nil
}

func (r memTransitionRepo) ListByTender(_ context.Context, tenderID string, limit, offset int) ([]*entity.StateTransition, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StateTransition
	// inserción en orden cronológico: recorrer al revés = más reciente primero
	for i := len(r.s.Transitions) - 1; i >= 0; i-- {
		if r.s.Transitions[i].TenderID == tenderID {
			out = append(out, r.s.Transitions[i])
		}
	}
	return page(out, limit, offset), nil
}
