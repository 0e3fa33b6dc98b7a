package mocks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/serenewealth/ledger/internal/domain"
	"github.com/serenewealth/ledger/internal/usecase"
)

var errTxClosed = errors.New("tx is closed")

type state struct {
	accounts   map[string]domain.Account
	entries    map[string]domain.LedgerEntry
	transfers  map[string]domain.Transfer
	categories map[string]domain.Category
	statements map[string]domain.Statement
	lines      map[string]domain.StatementLine
	events     []domain.OutboxEvent
}

func newState() *state {
	return &state{
		accounts:   make(map[string]domain.Account),
		entries:    make(map[string]domain.LedgerEntry),
		transfers:  make(map[string]domain.Transfer),
		categories: make(map[string]domain.Category),
		statements: make(map[string]domain.Statement),
		lines:      make(map[string]domain.StatementLine),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.entries {
		c.entries[k] = v
	}
	for k, v := range s.transfers {
		c.transfers[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.statements {
		c.statements[k] = v
	}
	for k, v := range s.lines {
		c.lines[k] = v
	}
	c.events = append(c.events, s.events...)
	return c
}

// Store is an in-memory, transactional implementation of every repository.
// Begin takes a store-wide lock held until Commit or Rollback, so
// transactions are fully serialized. Work done in a transaction is only
// visible to other readers after Commit.
type Store struct {
	txMu      sync.Mutex
	dataMu    sync.RWMutex
	committed *state

	// BeginErr, when set, is returned by Begin.
	BeginErr error
	// CommitErr, when set, is returned by Commit and the work is discarded.
	CommitErr error

	Commits   int
	Rollbacks int

	Accounts   *AccountRepository
	Entries    *EntryRepository
	Transfers  *TransferRepository
	Categories *CategoryRepository
	Statements *StatementRepository
	Outbox     *OutboxRepository
}

// NewStore creates an empty store.
func NewStore() *Store {
	s := &Store{committed: newState()}
	s.Accounts = &AccountRepository{store: s}
	s.Entries = &EntryRepository{store: s}
	s.Transfers = &TransferRepository{store: s}
	s.Categories = &CategoryRepository{store: s}
	s.Statements = &StatementRepository{store: s}
	s.Outbox = &OutboxRepository{store: s}
	return s
}

// Tx is a transaction over a private copy of the committed state.
type Tx struct {
	store   *Store
	working *state
	done    bool
}

// Begin starts a new transaction.
func (s *Store) Begin(ctx context.Context) (usecase.Transaction, error) {
	if s.BeginErr != nil {
		return nil, s.BeginErr
	}

	s.txMu.Lock()

	s.dataMu.RLock()
	working := s.committed.clone()
	s.dataMu.RUnlock()

	return &Tx{store: s, working: working}, nil
}

// Commit publishes the transaction's state.
func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return errTxClosed
	}
	t.done = true
	defer t.store.txMu.Unlock()

	if t.store.CommitErr != nil {
		t.store.Rollbacks++
		return t.store.CommitErr
	}

	t.store.dataMu.Lock()
	t.store.committed = t.working
	t.store.Commits++
	t.store.dataMu.Unlock()

	return nil
}

// Rollback discards the transaction's state. It is a no-op after Commit.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.Rollbacks++
	t.store.txMu.Unlock()

	return nil
}

// read returns the state visible to tx; a nil tx sees committed data.
func (s *Store) read(tx usecase.Transaction) *state {
	if t, ok := tx.(*Tx); ok && t != nil {
		return t.working
	}

	s.dataMu.RLock()
	defer s.dataMu.RUnlock()

	return s.committed
}

func (s *Store) write(tx usecase.Transaction) (*state, error) {
	t, ok := tx.(*Tx)
	if !ok || t == nil {
		return nil, errors.New("write outside transaction")
	}
	if t.done {
		return nil, errTxClosed
	}
	return t.working, nil
}

// Seed helpers write directly to committed state.

// SeedAccount stores account as committed.
func (s *Store) SeedAccount(account domain.Account) {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.committed.accounts[account.ID] = account
}

// SeedCategory stores category as committed.
func (s *Store) SeedCategory(category domain.Category) {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.committed.categories[category.ID] = category
}

// SeedEntry stores entry as committed without touching balances.
func (s *Store) SeedEntry(entry domain.LedgerEntry) {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.committed.entries[entry.ID] = entry
}

// Account returns the committed account or nil.
func (s *Store) Account(id string) *domain.Account {
	st := s.read(nil)
	a, ok := st.accounts[id]
	if !ok {
		return nil
	}
	return &a
}

// EntryCount returns the number of committed entries.
func (s *Store) EntryCount() int {
	return len(s.read(nil).entries)
}

// TransferCount returns the number of committed transfers.
func (s *Store) TransferCount() int {
	return len(s.read(nil).transfers)
}

// Events returns the committed outbox events.
func (s *Store) Events() []domain.OutboxEvent {
	return append([]domain.OutboxEvent(nil), s.read(nil).events...)
}

// SumSigned returns the committed sum of signed amounts for account.
func (s *Store) SumSigned(accountID string) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range s.read(nil).entries {
		if e.AccountID == accountID {
			sum = sum.Add(e.SignedAmount)
		}
	}
	return sum
}

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store

	UpdateBalanceFunc func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error

	// ListCalls counts List invocations.
	ListCalls atomic.Int64
}

func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	st, err := r.store.write(tx)
	if err != nil {
		return err
	}
	for _, a := range st.accounts {
		if a.OwnerID == account.OwnerID && strings.EqualFold(a.Name, account.Name) {
			return domain.ErrDuplicateAccount
		}
	}
	st.accounts[account.ID] = *account
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	a, ok := r.store.read(nil).accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &a, nil
}

func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	st, err := r.store.write(tx)
	if err != nil {
		return nil, err
	}
	a, ok := st.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &a, nil
}

func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	st, err := r.store.write(tx)
	if err != nil {
		return nil, err
	}
	accounts := make([]*domain.Account, 0, len(ids))
	for _, id := range ids {
		if a, ok := st.accounts[id]; ok {
			accounts = append(accounts, &a)
		}
	}
	return accounts, nil
}

func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if r.UpdateBalanceFunc != nil {
		return r.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	st, err := r.store.write(tx)
	if err != nil {
		return err
	}
	a, ok := st.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.CachedBalance = balance
	a.UpdatedAt = updatedAt
	st.accounts[id] = a
	return nil
}

func (r *AccountRepository) IncrementBalance(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error) {
	st, err := r.store.write(tx)
	if err != nil {
		return decimal.Zero, err
	}
	a, ok := st.accounts[id]
	if !ok {
		return decimal.Zero, domain.ErrAccountNotFound
	}
	a.CachedBalance = a.CachedBalance.Add(delta)
	a.UpdatedAt = updatedAt
	st.accounts[id] = a
	return a.CachedBalance, nil
}

func (r *AccountRepository) List(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Account, error) {
	r.ListCalls.Add(1)
	st := r.store.read(nil)
	all := make([]*domain.Account, 0, len(st.accounts))
	for _, a := range st.accounts {
		if ownerID != "" && a.OwnerID != ownerID {
			continue
		}
		a := a
		all = append(all, &a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, limit, offset), nil
}

func (r *AccountRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	st, err := r.store.write(tx)
	if err != nil {
		return err
	}
	if _, ok := st.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(st.accounts, id)
	return nil
}

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	store *Store

	CreateBatchFunc func(ctx context.Context, tx usecase.Transaction, entries []*domain.LedgerEntry) (int64, error)
}

func (r *EntryRepository) insert(st *state, entry *domain.LedgerEntry) error {
	if _, ok := st.accounts[entry.AccountID]; !ok {
		return domain.ErrAccountNotFound
	}
	if entry.SourceLineID != nil {
		for _, e := range st.entries {
			if e.SourceLineID != nil && *e.SourceLineID == *entry.SourceLineID {
				return fmt.Errorf("duplicate source line %s", *entry.SourceLineID)
			}
		}
	}
	st.entries[entry.ID] = *entry
	return nil
}

func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	st, err := r.store.write(tx)
	if err != nil {
		return err
	}
	return r.insert(st, entry)
}

func (r *EntryRepository) CreateBatch(ctx context.Context, tx usecase.Transaction, entries []*domain.LedgerEntry) (int64, error) {
	if r.CreateBatchFunc != nil {
		return r.CreateBatchFunc(ctx, tx, entries)
	}
	st, err := r.store.write(tx)
	if err != nil {
		return 0, err
	}
	for _, e := range entries {
		if err := r.insert(st, e); err != nil {
			return 0, err
		}
	}
	return int64(len(entries)), nil
}

func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	e, ok := r.store.read(nil).entries[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	return &e, nil
}

func (r *EntryRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.LedgerEntry, error) {
	st, err := r.store.write(tx)
	if err != nil {
		return nil, err
	}
	e, ok := st.entries[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	return &e, nil
}

func (r *EntryRepository) GetBySourceLine(ctx context.Context, tx usecase.Transaction, accountID, lineID string) (*domain.LedgerEntry, error) {
	for _, e := range r.store.read(tx).entries {
		if e.AccountID == accountID && e.SourceLineID != nil && *e.SourceLineID == lineID {
			return &e, nil
		}
	}
	return nil, domain.ErrEntryNotFound
}

func (r *EntryRepository) Update(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	st, err := r.store.write(tx)
	if err != nil {
		return err
	}
	if _, ok := st.entries[entry.ID]; !ok {
		return domain.ErrEntryNotFound
	}
	st.entries[entry.ID] = *entry
	return nil
}

func (r *EntryRepository) UpdateDescription(ctx context.Context, tx usecase.Transaction, id, description string, updatedAt time.Time) error {
	st, err := r.store.write(tx)
	if err != nil {
		return err
	}
	e, ok := st.entries[id]
	if !ok {
		return domain.ErrEntryNotFound
	}
	e.Description = description
	e.UpdatedAt = updatedAt
	st.entries[id] = e
	return nil
}

func (r *EntryRepository) SetMatched(ctx context.Context, tx usecase.Transaction, id string, matched bool, updatedAt time.Time) error {
	st, err := r.store.write(tx)
	if err != nil {
		return err
	}
	e, ok := st.entries[id]
	if !ok {
		return domain.ErrEntryNotFound
	}
	e.IsMatched = matched
	e.UpdatedAt = updatedAt
	st.entries[id] = e
	return nil
}

func (r *EntryRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	st, err := r.store.write(tx)
	if err != nil {
		return err
	}
	if _, ok := st.entries[id]; !ok {
		return domain.ErrEntryNotFound
	}
	delete(st.entries, id)
	return nil
}

func (r *EntryRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	all := make([]*domain.LedgerEntry, 0)
	for _, e := range r.store.read(nil).entries {
		if e.AccountID == accountID {
			e := e
			all = append(all, &e)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].EffectiveDate.Equal(all[j].EffectiveDate) {
			return all[i].EffectiveDate.After(all[j].EffectiveDate)
		}
		return all[i].ID > all[j].ID
	})
	return page(all, limit, offset), nil
}

func (r *EntryRepository) SumSignedByAccount(ctx context.Context, tx usecase.Transaction, accountID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range r.store.read(tx).entries {
		if e.AccountID == accountID {
			sum = sum.Add(e.SignedAmount)
		}
	}
	return sum, nil
}

func (r *EntryRepository) CountByAccount(ctx context.Context, tx usecase.Transaction, accountID string) (int64, error) {
	var n int64
	for _, e := range r.store.read(tx).entries {
		if e.AccountID == accountID {
			n++
		}
	}
	return n, nil
}

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	store *Store

	CreateFunc func(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error
}

func (r *TransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	if r.CreateFunc != nil {
		return r.CreateFunc(ctx, tx, transfer)
	}
	st, err := r.store.write(tx)
	if err != nil {
		return err
	}
	for _, t := range st.transfers {
		if t.FromEntryID == transfer.FromEntryID || t.ToEntryID == transfer.ToEntryID {
			return fmt.Errorf("entry already linked to transfer %s", t.ID)
		}
	}
	stored := *transfer
	stored.FromEntry, stored.ToEntry = nil, nil
	st.transfers[transfer.ID] = stored
	return nil
}

func (r *TransferRepository) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	t, ok := r.store.read(nil).transfers[id]
	if !ok {
		return nil, domain.ErrTransferNotFound
	}
	return &t, nil
}

func (r *TransferRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transfer, error) {
	st, err := r.store.write(tx)
	if err != nil {
		return nil, err
	}
	t, ok := st.transfers[id]
	if !ok {
		return nil, domain.ErrTransferNotFound
	}
	return &t, nil
}

func (r *TransferRepository) GetByEntryID(ctx context.Context, tx usecase.Transaction, entryID string) (*domain.Transfer, error) {
	for _, t := range r.store.read(tx).transfers {
		if t.FromEntryID == entryID || t.ToEntryID == entryID {
			return &t, nil
		}
	}
	return nil, domain.ErrTransferNotFound
}

func (r *TransferRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	st, err := r.store.write(tx)
	if err != nil {
		return err
	}
	if _, ok := st.transfers[id]; !ok {
		return domain.ErrTransferNotFound
	}
	delete(st.transfers, id)
	return nil
}

// CategoryRepository implements usecase.CategoryRepository.
type CategoryRepository struct {
	store *Store
}

func (r *CategoryRepository) GetByID(ctx context.Context, tx usecase.Transaction, id string) (*domain.Category, error) {
	c, ok := r.store.read(tx).categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	return &c, nil
}

func (r *CategoryRepository) GetOrCreate(ctx context.Context, tx usecase.Transaction, category *domain.Category) (*domain.Category, error) {
	st, err := r.store.write(tx)
	if err != nil {
		return nil, err
	}
	for _, c := range st.categories {
		if c.OwnerID == category.OwnerID && c.Name == category.Name {
			return &c, nil
		}
	}
	st.categories[category.ID] = *category
	created := *category
	return &created, nil
}

// StatementRepository implements usecase.StatementRepository.
type StatementRepository struct {
	store *Store
}

func (r *StatementRepository) Create(ctx context.Context, tx usecase.Transaction, statement *domain.Statement) error {
	st, err := r.store.write(tx)
	if err != nil {
		return err
	}
	for _, s := range st.statements {
		if s.AccountID == statement.AccountID && s.PeriodStart.Equal(statement.PeriodStart) && s.PeriodEnd.Equal(statement.PeriodEnd) {
			return domain.ErrStatementExists
		}
	}
	st.statements[statement.ID] = *statement
	return nil
}

func (r *StatementRepository) CreateLines(ctx context.Context, tx usecase.Transaction, lines []*domain.StatementLine) (int64, error) {
	st, err := r.store.write(tx)
	if err != nil {
		return 0, err
	}
	for _, l := range lines {
		if l.ExternalID != "" {
			for _, existing := range st.lines {
				if existing.StatementID == l.StatementID && existing.ExternalID == l.ExternalID {
					return 0, fmt.Errorf("%w: duplicate external id %q", domain.ErrInvalidArgument, l.ExternalID)
				}
			}
		}
		st.lines[l.ID] = *l
	}
	return int64(len(lines)), nil
}

func (r *StatementRepository) GetByID(ctx context.Context, id string) (*domain.Statement, error) {
	s, ok := r.store.read(nil).statements[id]
	if !ok {
		return nil, domain.ErrStatementNotFound
	}
	return &s, nil
}

func (r *StatementRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Statement, error) {
	st, err := r.store.write(tx)
	if err != nil {
		return nil, err
	}
	s, ok := st.statements[id]
	if !ok {
		return nil, domain.ErrStatementNotFound
	}
	return &s, nil
}

func (r *StatementRepository) GetLines(ctx context.Context, tx usecase.Transaction, statementID string) ([]*domain.StatementLine, error) {
	st := r.store.read(tx)
	lines := make([]*domain.StatementLine, 0)
	for _, l := range st.lines {
		if l.StatementID != statementID {
			continue
		}
		l := l
		l.RealizedEntryID = realizedEntry(st, l.ID)
		lines = append(lines, &l)
	}
	sort.Slice(lines, func(i, j int) bool {
		if !lines[i].PostedAt.Equal(lines[j].PostedAt) {
			return lines[i].PostedAt.Before(lines[j].PostedAt)
		}
		return lines[i].ID < lines[j].ID
	})
	return lines, nil
}

func (r *StatementRepository) GetLineForUpdate(ctx context.Context, tx usecase.Transaction, lineID string) (*domain.StatementLine, error) {
	st, err := r.store.write(tx)
	if err != nil {
		return nil, err
	}
	l, ok := st.lines[lineID]
	if !ok {
		return nil, domain.ErrLineNotFound
	}
	l.RealizedEntryID = realizedEntry(st, l.ID)
	return &l, nil
}

func (r *StatementRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	st, err := r.store.write(tx)
	if err != nil {
		return err
	}
	if _, ok := st.statements[id]; !ok {
		return domain.ErrStatementNotFound
	}
	for lid, l := range st.lines {
		if l.StatementID == id {
			delete(st.lines, lid)
		}
	}
	delete(st.statements, id)
	return nil
}

func realizedEntry(st *state, lineID string) *string {
	for _, e := range st.entries {
		if e.SourceLineID != nil && *e.SourceLineID == lineID {
			id := e.ID
			return &id
		}
	}
	return nil
}

// OutboxRepository implements usecase.OutboxRepository.
type OutboxRepository struct {
	store *Store
}

func (r *OutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	st, err := r.store.write(tx)
	if err != nil {
		return err
	}
	st.events = append(st.events, *event)
	return nil
}

func (r *OutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	events := make([]*domain.OutboxEvent, 0)
	for _, e := range r.store.read(nil).events {
		if e.Published {
			continue
		}
		e := e
		events = append(events, &e)
		if len(events) == limit {
			break
		}
	}
	return events, nil
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	r.store.dataMu.Lock()
	defer r.store.dataMu.Unlock()
	for i, e := range r.store.committed.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
			r.store.committed.events[i] = e
			return nil
		}
	}
	return fmt.Errorf("outbox event %s not found", id)
}

func (r *OutboxRepository) GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error) {
	events := make([]*domain.OutboxEvent, 0)
	for _, e := range r.store.read(nil).events {
		if e.AggregateType == aggregateType && e.AggregateID == aggregateID {
			e := e
			events = append(events, &e)
		}
	}
	return page(events, limit, offset), nil
}

func (r *OutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	r.store.dataMu.Lock()
	defer r.store.dataMu.Unlock()
	kept := r.store.committed.events[:0:0]
	for _, e := range r.store.committed.events {
		if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
			continue
		}
		kept = append(kept, e)
	}
	r.store.committed.events = kept
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return items[:0]
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

// SequentialIDGenerator generates predictable, ordered IDs.
type SequentialIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDGenerator creates a generator producing prefix-000001, prefix-000002, ...
func NewSequentialIDGenerator(prefix string) *SequentialIDGenerator {
	return &SequentialIDGenerator{prefix: prefix}
}

func (g *SequentialIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%06d", g.prefix, g.n)
}

var (
	_ usecase.TransactionManager  = (*Store)(nil)
	_ usecase.AccountRepository   = (*AccountRepository)(nil)
	_ usecase.EntryRepository     = (*EntryRepository)(nil)
	_ usecase.TransferRepository  = (*TransferRepository)(nil)
	_ usecase.CategoryRepository  = (*CategoryRepository)(nil)
	_ usecase.StatementRepository = (*StatementRepository)(nil)
	_ usecase.OutboxRepository    = (*OutboxRepository)(nil)
	_ usecase.IDGenerator         = (*SequentialIDGenerator)(nil)
)
