package services_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/campus_coin_ledger/internal/apperrors"
	"github.com/SscSPs/campus_coin_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/campus_coin_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// memStore is an in-memory ledger. WithinTx holds the store lock for the whole
// unit of work and applies staged writes only when fn succeeds.
type memStore struct {
	mu sync.Mutex

	professors map[string]decimal.Decimal
	students   map[string]decimal.Decimal
	identities map[string]domain.Identity
	perks      map[string]domain.Perk
	entries    []domain.LedgerEntry

	nextID int64
	clock  time.Time

	failLockFor map[string]error
	failAppend  error
	// beforeTx runs under the store lock right before a unit of work starts,
	// standing in for a write committed by another session.
	beforeTx func(s *memStore)
}

func newMemStore() *memStore {
	return &memStore{
		professors:  map[string]decimal.Decimal{},
		students:    map[string]decimal.Decimal{},
		identities:  map[string]domain.Identity{},
		perks:       map[string]domain.Perk{},
		nextID:      1,
		clock:       time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		failLockFor: map[string]error{},
	}
}

func (s *memStore) addProfessor(id, name string, balance string) {
	s.professors[id] = decimal.RequireFromString(balance)
	s.identities[id] = domain.Identity{ID: id, DisplayName: name, Email: id + "@uni.test"}
}

func (s *memStore) addStudent(id, name string, balance string) {
	s.students[id] = decimal.RequireFromString(balance)
	s.identities[id] = domain.Identity{ID: id, DisplayName: name, Email: id + "@students.uni.test"}
}

func (s *memStore) addPerk(p domain.Perk) {
	s.perks[p.ID] = p
}

func (s *memStore) balance(id string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.professors[id]; ok {
		return b
	}
	return s.students[id]
}

func (s *memStore) allEntries() []domain.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.LedgerEntry(nil), s.entries...)
}

func (s *memStore) table(kind domain.HolderKind) map[string]decimal.Decimal {
	if kind == domain.HolderProfessor {
		return s.professors
	}
	return s.students
}

// --- LedgerUnitOfWork ---

type memTx struct {
	store    *memStore
	balances map[string]decimal.Decimal
	entries  []domain.LedgerEntry
}

func (s *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.beforeTx != nil {
		s.beforeTx(s)
	}
	tx := &memTx{store: s, balances: map[string]decimal.Decimal{}}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	for id, b := range tx.balances {
		if _, ok := s.professors[id]; ok {
			s.professors[id] = b
		} else {
			s.students[id] = b
		}
	}
	s.entries = append(s.entries, tx.entries...)
	return nil
}

func (t *memTx) LockHolder(_ context.Context, kind domain.HolderKind, holderID string) (*domain.BalanceHolder, error) {
	if err := t.store.failLockFor[holderID]; err != nil {
		return nil, err
	}
	committed, ok := t.store.table(kind)[holderID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if staged, ok := t.balances[holderID]; ok {
		committed = staged
	}
	return &domain.BalanceHolder{ID: holderID, Kind: kind, Balance: committed}, nil
}

func (t *memTx) LockPerk(_ context.Context, perkID string) (*domain.Perk, error) {
	if err := t.store.failLockFor[perkID]; err != nil {
		return nil, err
	}
	perk, ok := t.store.perks[perkID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &perk, nil
}

func (t *memTx) UpdateHolderBalance(_ context.Context, holder domain.BalanceHolder) error {
	if _, ok := t.store.table(holder.Kind)[holder.ID]; !ok {
		return apperrors.ErrNotFound
	}
	t.balances[holder.ID] = holder.Balance
	return nil
}

func (t *memTx) FindLatestByCouponCode(_ context.Context, code string) (*domain.LedgerEntry, error) {
	all := append(append([]domain.LedgerEntry(nil), t.store.entries...), t.entries...)
	latest, ok := domain.LatestEntry(withCode(all, code))
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &latest, nil
}

func (t *memTx) AppendEntry(_ context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error) {
	if t.store.failAppend != nil {
		return nil, t.store.failAppend
	}
	if entry.Kind == domain.KindPerkRedemption {
		for _, e := range append(append([]domain.LedgerEntry(nil), t.store.entries...), t.entries...) {
			if e.Kind == domain.KindPerkRedemption && *e.CouponCode == *entry.CouponCode {
				return nil, apperrors.NewAppError(500, "coupon code collision", nil)
			}
		}
	}
	entry.ID = t.store.nextID
	t.store.nextID++
	t.store.clock = t.store.clock.Add(time.Second)
	entry.CreatedAt = t.store.clock
	t.entries = append(t.entries, entry)
	return &entry, nil
}

func withCode(entries []domain.LedgerEntry, code string) []domain.LedgerEntry {
	var out []domain.LedgerEntry
	for _, e := range entries {
		if e.CouponCode != nil && *e.CouponCode == code {
			out = append(out, e)
		}
	}
	return out
}

// --- LedgerReader ---

func (s *memStore) filter(keep func(domain.LedgerEntry) bool, newestFirst bool) []domain.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.LedgerEntry{}
	for _, e := range s.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if newestFirst {
			return out[i].After(out[j])
		}
		return out[j].After(out[i])
	})
	return out
}

func (s *memStore) FindEntryByID(_ context.Context, entryID int64) (*domain.LedgerEntry, error) {
	found := s.filter(func(e domain.LedgerEntry) bool { return e.ID == entryID }, true)
	if len(found) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &found[0], nil
}

func (s *memStore) FindIssuanceByCouponCode(_ context.Context, code string) (*domain.LedgerEntry, error) {
	found := s.filter(func(e domain.LedgerEntry) bool {
		return e.Kind == domain.KindPerkRedemption && e.CouponCode != nil && *e.CouponCode == code
	}, true)
	if len(found) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &found[0], nil
}

func (s *memStore) ListEntriesByCouponCode(_ context.Context, code string) ([]domain.LedgerEntry, error) {
	return s.filter(func(e domain.LedgerEntry) bool {
		return e.CouponCode != nil && *e.CouponCode == code
	}, false), nil
}

func inRange(t time.Time, from, to *time.Time) bool {
	return (from == nil || !t.Before(*from)) && (to == nil || !t.After(*to))
}

func (s *memStore) ListStatement(_ context.Context, holderID string, from, to *time.Time) ([]domain.LedgerEntry, error) {
	return s.filter(func(e domain.LedgerEntry) bool {
		party := (e.SenderID != nil && *e.SenderID == holderID) || (e.RecipientID != nil && *e.RecipientID == holderID)
		return party && inRange(e.CreatedAt, from, to)
	}, true), nil
}

func (s *memStore) ListByKind(_ context.Context, kind domain.EntryKind) ([]domain.LedgerEntry, error) {
	return s.filter(func(e domain.LedgerEntry) bool { return e.Kind == kind }, true), nil
}

func (s *memStore) ListByRange(_ context.Context, from, to time.Time) ([]domain.LedgerEntry, error) {
	return s.filter(func(e domain.LedgerEntry) bool { return inRange(e.CreatedAt, &from, &to) }, true), nil
}

func (s *memStore) ListPage(_ context.Context, f portsrepo.LedgerFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if nextToken != nil {
		return nil, nil, fmt.Errorf("%w: tokens are not supported by memStore", apperrors.ErrValidation)
	}
	all := s.filter(func(e domain.LedgerEntry) bool {
		return (f.Kind == nil || e.Kind == *f.Kind) && inRange(e.CreatedAt, f.From, f.To)
	}, true)
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil, nil
}

func (s *memStore) ListRecent(_ context.Context, n int) ([]domain.LedgerEntry, error) {
	all := s.filter(func(domain.LedgerEntry) bool { return true }, true)
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

func (s *memStore) SumAmount(_ context.Context, kind domain.EntryKind, side portsrepo.EntrySide, holderID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range s.filter(func(e domain.LedgerEntry) bool { return e.Kind == kind }, true) {
		party := e.RecipientID
		if side == portsrepo.SideSender {
			party = e.SenderID
		}
		if party != nil && *party == holderID {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

func (s *memStore) CountRedemptionsForPerk(_ context.Context, perkID string) (int64, error) {
	found := s.filter(func(e domain.LedgerEntry) bool {
		return e.Kind == domain.KindPerkRedemption && e.PerkID != nil && *e.PerkID == perkID
	}, true)
	return int64(len(found)), nil
}

// --- HolderReader ---

func (s *memStore) FindHolder(_ context.Context, kind domain.HolderKind, holderID string) (*domain.BalanceHolder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.table(kind)[holderID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &domain.BalanceHolder{ID: holderID, Kind: kind, Balance: b}, nil
}

func (s *memStore) ResolveHolder(ctx context.Context, holderID string) (*domain.BalanceHolder, error) {
	h, err := s.FindHolder(ctx, domain.HolderProfessor, holderID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return s.FindHolder(ctx, domain.HolderStudent, holderID)
	}
	return h, err
}

func (s *memStore) ListProfessorIDs(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.professors))
	for id := range s.professors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// --- DirectoryRepositoryFacade ---

func (s *memStore) FindIdentitiesByHolderIDs(_ context.Context, holderIDs []string) (map[string]domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]domain.Identity{}
	for _, id := range holderIDs {
		if ident, ok := s.identities[id]; ok {
			out[id] = ident
		}
	}
	return out, nil
}

func (s *memStore) FindPerk(_ context.Context, perkID string) (*domain.Perk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.perks[perkID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &p, nil
}

func (s *memStore) FindPerksByIDs(_ context.Context, perkIDs []string) (map[string]domain.Perk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]domain.Perk{}
	for _, id := range perkIDs {
		if p, ok := s.perks[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

var (
	_ portsrepo.LedgerRepositoryFacade    = (*memStore)(nil)
	_ portsrepo.HolderReader              = (*memStore)(nil)
	_ portsrepo.DirectoryRepositoryFacade = (*memStore)(nil)
)

// --- notification doubles ---

type captureQueue struct {
	mu   sync.Mutex
	msgs []domain.Notification
	full bool
}

func (q *captureQueue) Enqueue(_ context.Context, n domain.Notification) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.full {
		return false
	}
	q.msgs = append(q.msgs, n)
	return true
}

func (q *captureQueue) sent() []domain.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]domain.Notification(nil), q.msgs...)
}

func (q *captureQueue) to(addr string) []domain.Notification {
	var out []domain.Notification
	for _, n := range q.sent() {
		if n.To == addr {
			out = append(out, n)
		}
	}
	return out
}

type stubRenderer struct {
	err error
}

func (r stubRenderer) RenderCoupon(code string) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	return []byte("png:" + code), nil
}
