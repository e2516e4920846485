package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sitebeam/construction-system/internal/core/domain"
	"github.com/sitebeam/construction-system/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// Principal repository stub
// ---------------------------------------------------------------------------

type stubPrincipalRepo struct {
	byID    map[string]*domain.Principal
	byEmail map[string]*domain.Principal
	nextID  int
}

func newStubPrincipalRepo() *stubPrincipalRepo {
	return &stubPrincipalRepo{
		byID:    make(map[string]*domain.Principal),
		byEmail: make(map[string]*domain.Principal),
	}
}

func (r *stubPrincipalRepo) Create(_ context.Context, p *domain.Principal) (*domain.Principal, error) {
	if _, exists := r.byEmail[p.Email]; exists {
		return nil, domain.ErrEmailTaken
	}
	r.nextID++
	clone := *p
	clone.ID = fmt.Sprintf("u%d", r.nextID)
	r.byID[clone.ID] = &clone
	r.byEmail[clone.Email] = &clone
	out := clone
	return &out, nil
}

func (r *stubPrincipalRepo) FindByID(_ context.Context, id string) (*domain.Principal, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPrincipalNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubPrincipalRepo) FindByEmail(_ context.Context, email string) (*domain.Principal, error) {
	p, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrPrincipalNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubPrincipalRepo) ListClientsWithSiteGrant(_ context.Context, companyName, siteID string) ([]*domain.Principal, error) {
	var out []*domain.Principal
	for _, p := range r.byID {
		if p.CompanyName != companyName || p.Role != domain.RoleClient {
			continue
		}
		if !p.HasSiteGrant(siteID) {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubPrincipalRepo) AddSiteGrant(_ context.Context, principalID, siteID string) error {
	p, ok := r.byID[principalID]
	if !ok {
		return domain.ErrPrincipalNotFound
	}
	if !p.HasSiteGrant(siteID) {
		p.SiteAccess = append(p.SiteAccess, siteID)
	}
	return nil
}

// add inserts a fixture directly, bypassing Create's email check.
func (r *stubPrincipalRepo) add(p *domain.Principal) {
	clone := *p
	r.byID[p.ID] = &clone
	r.byEmail[p.Email] = &clone
}

// ---------------------------------------------------------------------------
// Site repository stub
// ---------------------------------------------------------------------------

type stubSiteRepo struct {
	byID   map[string]*domain.Site
	nextID int
}

func newStubSiteRepo() *stubSiteRepo {
	return &stubSiteRepo{byID: make(map[string]*domain.Site)}
}

func (r *stubSiteRepo) Create(_ context.Context, s *domain.Site) (*domain.Site, error) {
	r.nextID++
	clone := *s
	clone.ID = fmt.Sprintf("s%d", r.nextID)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubSiteRepo) FindByID(_ context.Context, id string) (*domain.Site, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrSiteNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubSiteRepo) ListByOwners(_ context.Context, ownerIDs []string) ([]*domain.Site, error) {
	owners := make(map[string]struct{}, len(ownerIDs))
	for _, id := range ownerIDs {
		owners[id] = struct{}{}
	}
	var out []*domain.Site
	for _, s := range r.byID {
		if _, ok := owners[s.OwnerUserID]; ok {
			clone := *s
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubSiteRepo) ListByIDs(_ context.Context, ids []string) ([]*domain.Site, error) {
	var out []*domain.Site
	for _, id := range ids {
		if s, ok := r.byID[id]; ok {
			clone := *s
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubSiteRepo) add(s *domain.Site) {
	clone := *s
	r.byID[s.ID] = &clone
}

// ---------------------------------------------------------------------------
// Payment repository stub (mirrors the conditional-update semantics of the
// Mongo implementation)
// ---------------------------------------------------------------------------

type stubPaymentRepo struct {
	byID   map[string]*domain.Payment
	nextID int
}

func newStubPaymentRepo() *stubPaymentRepo {
	return &stubPaymentRepo{byID: make(map[string]*domain.Payment)}
}

func (r *stubPaymentRepo) Create(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
	r.nextID++
	clone := *p
	clone.ID = fmt.Sprintf("p%d", r.nextID)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubPaymentRepo) FindByID(_ context.Context, id string) (*domain.Payment, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubPaymentRepo) ListBySite(_ context.Context, siteID string) ([]*domain.Payment, error) {
	var out []*domain.Payment
	for _, p := range r.byID {
		if p.SiteID == siteID {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubPaymentRepo) UpdateStatusIf(_ context.Context, id string, from, to domain.PaymentStatus, includeManual bool) (bool, error) {
	p, ok := r.byID[id]
	if !ok {
		return false, domain.ErrPaymentNotFound
	}
	if p.Status != from {
		return false, nil
	}
	if p.StatusManual && !includeManual {
		return false, nil
	}
	p.Status = to
	p.StatusManual = false
	p.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *stubPaymentRepo) SetPaid(_ context.Context, id string, paidAt time.Time) (*domain.Payment, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	if p.Status != domain.PaymentPaid {
		p.Status = domain.PaymentPaid
		p.PaidDate = &paidAt
		p.StatusManual = false
	}
	clone := *p
	return &clone, nil
}

func (r *stubPaymentRepo) SetStatusOverride(_ context.Context, id string, status domain.PaymentStatus, paidAt *time.Time) (*domain.Payment, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	p.Status = status
	p.StatusManual = true
	p.PaidDate = paidAt
	clone := *p
	return &clone, nil
}

func (r *stubPaymentRepo) add(p *domain.Payment) {
	clone := *p
	r.byID[p.ID] = &clone
}

// ---------------------------------------------------------------------------
// Expense repository stub
// ---------------------------------------------------------------------------

type stubExpenseRepo struct {
	byID   map[string]*domain.Expense
	nextID int
}

func newStubExpenseRepo() *stubExpenseRepo {
	return &stubExpenseRepo{byID: make(map[string]*domain.Expense)}
}

func (r *stubExpenseRepo) Create(_ context.Context, e *domain.Expense) (*domain.Expense, error) {
	r.nextID++
	clone := *e
	clone.ID = fmt.Sprintf("e%d", r.nextID)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubExpenseRepo) FindByID(_ context.Context, id string) (*domain.Expense, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrExpenseNotFound
	}
	clone := *e
	return &clone, nil
}

func (r *stubExpenseRepo) ListBySite(_ context.Context, siteID string) ([]*domain.Expense, error) {
	var out []*domain.Expense
	for _, e := range r.byID {
		if e.SiteID == siteID {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubExpenseRepo) SetStatus(_ context.Context, id string, status domain.ExpenseStatus) (*domain.Expense, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrExpenseNotFound
	}
	e.Status = status
	clone := *e
	return &clone, nil
}

func (r *stubExpenseRepo) SetPaymentStatus(_ context.Context, id string, status domain.ExpensePaymentStatus, paidAt *time.Time) (*domain.Expense, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrExpenseNotFound
	}
	e.PaymentStatus = status
	e.PaidDate = paidAt
	clone := *e
	return &clone, nil
}

func (r *stubExpenseRepo) AttachInvoice(_ context.Context, id string, ref domain.FileRef) (*domain.Expense, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrExpenseNotFound
	}
	e.Invoice = &ref
	clone := *e
	return &clone, nil
}

func (r *stubExpenseRepo) add(e *domain.Expense) {
	clone := *e
	r.byID[e.ID] = &clone
}

// ---------------------------------------------------------------------------
// Activity repository stub
// ---------------------------------------------------------------------------

type stubActivityRepo struct {
	entries       []*domain.ActivityEvent
	lastActorIDs  []string
	lastListLimit int
}

func (r *stubActivityRepo) Insert(_ context.Context, e *domain.ActivityEvent) error {
	clone := *e
	r.entries = append(r.entries, &clone)
	return nil
}

func (r *stubActivityRepo) ListByActors(_ context.Context, actorIDs []string, limit int) ([]*domain.ActivityEvent, error) {
	r.lastActorIDs = actorIDs
	r.lastListLimit = limit
	actors := make(map[string]struct{}, len(actorIDs))
	for _, id := range actorIDs {
		actors[id] = struct{}{}
	}
	var out []*domain.ActivityEvent
	for _, e := range r.entries {
		if _, ok := actors[e.ActorID]; ok {
			clone := *e
			out = append(out, &clone)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Collaborator stubs
// ---------------------------------------------------------------------------

// stubNotifier records recipients and can fail selectively.
type stubNotifier struct {
	mu      sync.Mutex
	sent    []string
	failFor map[string]error
}

func newStubNotifier() *stubNotifier {
	return &stubNotifier{failFor: make(map[string]error)}
}

func (n *stubNotifier) Send(_ context.Context, recipient, _, _, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err, ok := n.failFor[recipient]; ok {
		return err
	}
	n.sent = append(n.sent, recipient)
	return nil
}

func (n *stubNotifier) sentCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

// stubThrottle suppresses listed recipients; openErr simulates a store outage.
type stubThrottle struct {
	mu         sync.Mutex
	suppressed map[string]bool
	openErr    error
	checks     int
}

func newStubThrottle() *stubThrottle {
	return &stubThrottle{suppressed: make(map[string]bool)}
}

func (t *stubThrottle) Allow(_ context.Context, _, recipient string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.checks++
	if t.openErr != nil {
		return false, t.openErr
	}
	return !t.suppressed[recipient], nil
}

// stubBlobStore keeps blobs in memory keyed by a synthetic path.
type stubBlobStore struct {
	saved  map[string][]byte
	nextID int
}

func newStubBlobStore() *stubBlobStore {
	return &stubBlobStore{saved: make(map[string][]byte)}
}

func (b *stubBlobStore) Save(_ context.Context, filename string, r io.Reader) (domain.FileRef, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.FileRef{}, err
	}
	b.nextID++
	path := fmt.Sprintf("blob-%d", b.nextID)
	b.saved[path] = data
	return domain.FileRef{Path: path, Filename: filename}, nil
}

func (b *stubBlobStore) Open(_ context.Context, path string) (io.ReadCloser, error) {
	data, ok := b.saved[path]
	if !ok {
		return nil, domain.ErrNoAttachment
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// recordingFeed captures enqueued events synchronously.
type recordingFeed struct {
	mu     sync.Mutex
	events []domain.ActivityEvent
}

func (f *recordingFeed) Enqueue(e domain.ActivityEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
}

func (f *recordingFeed) kinds() []domain.ActivityKind {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.ActivityKind, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Kind)
	}
	return out
}

// ---------------------------------------------------------------------------
// Common fixtures
// ---------------------------------------------------------------------------

func adminOf(company string) *domain.Principal {
	return &domain.Principal{ID: "admin-" + company, Email: "admin@" + company, Name: "Admin", CompanyName: company, Role: domain.RoleAdmin}
}

func managerOf(company, parentID string) *domain.Principal {
	return &domain.Principal{ID: "mgr-" + company, Email: "mgr@" + company, Name: "Manager", CompanyName: company, Role: domain.RoleManager, ParentID: parentID}
}

func clientWithGrant(company string, siteIDs ...string) *domain.Principal {
	return &domain.Principal{ID: "client-" + company, Email: "client@" + company, Name: "Client", CompanyName: company, Role: domain.RoleClient, SiteAccess: siteIDs}
}

var _ ports.PrincipalRepository = (*stubPrincipalRepo)(nil)
var _ ports.SiteRepository = (*stubSiteRepo)(nil)
var _ ports.PaymentRepository = (*stubPaymentRepo)(nil)
var _ ports.ExpenseRepository = (*stubExpenseRepo)(nil)
var _ ports.ActivityRepository = (*stubActivityRepo)(nil)
var _ ports.Notifier = (*stubNotifier)(nil)
var _ ports.ReminderThrottle = (*stubThrottle)(nil)
var _ ports.BlobStore = (*stubBlobStore)(nil)
