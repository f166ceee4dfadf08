package memory

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/repository"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
)

const auditPrefix = "log"

type collection struct {
	order []string
	items map[string]model.Entity
}

func newCollection() *collection {
	return &collection{items: make(map[string]model.Entity)}
}

// Store keeps every collection and the audit trail under a single lock so a
// mutation and its audit entry always become visible together.
type Store struct {
	mu          sync.RWMutex
	collections map[model.EntityKind]*collection
	counters    map[model.EntityKind]int
	audit       []model.AuditEntry
	auditSeq    int
	nowFn       func() time.Time
}

type Option func(*Store)

// WithClock overrides the clock used for audit timestamps.
func WithClock(fn func() time.Time) Option {
	return func(s *Store) {
		s.nowFn = fn
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		collections: make(map[model.EntityKind]*collection),
		counters:    make(map[model.EntityKind]int),
		nowFn:       func() time.Time { return time.Now().UTC() },
	}
	for _, kind := range model.Kinds() {
		s.collections[kind] = newCollection()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	_ repository.RecordRepository = (*Store)(nil)
	_ repository.AuditRepository  = (*Store)(nil)
	_ repository.RecordTx         = (*Tx)(nil)
)

// Now returns the store clock reading.
func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nowFn()
}

func (s *Store) Get(ctx context.Context, kind model.EntityKind, id string) (model.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.collection(kind)
	if err != nil {
		return nil, err
	}
	e, ok := c.items[id]
	if !ok {
		return nil, apperrors.NotFound(fmt.Sprintf("%s %s", kind, id), nil)
	}
	return e, nil
}

// List returns every record of kind in insertion order.
func (s *Store) List(ctx context.Context, kind model.EntityKind) ([]model.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.collection(kind)
	if err != nil {
		return nil, err
	}
	out := make([]model.Entity, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out, nil
}

// ListAudit returns a copy of the audit trail, oldest first.
func (s *Store) ListAudit(ctx context.Context) ([]model.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.AuditEntry, len(s.audit))
	copy(out, s.audit)
	return out, nil
}

// WithTx runs fn against a staged view of the store. Writes and audit
// entries staged by fn are committed together only if fn returns nil and ctx
// is still live; otherwise the store is left exactly as it was.
func (s *Store) WithTx(ctx context.Context, fn func(tx repository.RecordTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{
		store:    s,
		now:      s.nowFn(),
		writes:   make(map[model.EntityKind]map[string]model.Entity),
		inserted: make(map[model.EntityKind][]string),
		counters: make(map[model.EntityKind]int),
		auditSeq: s.auditSeq,
	}

	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.commit(tx)
	return nil
}

func (s *Store) commit(tx *Tx) {
	for kind, writes := range tx.writes {
		c := s.collections[kind]
		for id, e := range writes {
			c.items[id] = e
		}
		c.order = append(c.order, tx.inserted[kind]...)
	}
	for kind, n := range tx.counters {
		s.counters[kind] = n
	}
	s.audit = append(s.audit, tx.audit...)
	s.auditSeq = tx.auditSeq
}

// Load inserts fixture records and audit entries without auditing them. Id
// counters advance past every loaded id so minted ids never collide.
func (s *Store) Load(entities []model.Entity, audit []model.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entities {
		c, err := s.collection(e.Kind())
		if err != nil {
			return err
		}
		id := e.EntityID()
		if id == "" {
			return apperrors.BadRequest("fixture record has no id", nil)
		}
		if _, exists := c.items[id]; exists {
			return apperrors.BadRequest(fmt.Sprintf("duplicate fixture id %s", id), nil)
		}
		c.items[id] = e
		c.order = append(c.order, id)

		spec, _ := model.Spec(e.Kind())
		s.counters[e.Kind()] = max(s.counters[e.Kind()], len(c.order), sequenceOf(spec.Prefix, id))
	}

	for _, entry := range audit {
		s.audit = append(s.audit, entry)
		s.auditSeq = max(s.auditSeq, len(s.audit), sequenceOf(auditPrefix, entry.ID))
	}
	return nil
}

func (s *Store) collection(kind model.EntityKind) (*collection, error) {
	c, ok := s.collections[kind]
	if !ok {
		return nil, apperrors.NotFound(fmt.Sprintf("entity kind %q", kind), nil)
	}
	return c, nil
}

// sequenceOf parses the numeric suffix of id, or 0 when it has another shape.
func sequenceOf(prefix, id string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
	if err != nil || !strings.HasPrefix(id, prefix) || n < 0 {
		return 0
	}
	return n
}

// Tx stages writes for Store.WithTx. It must not be used after the callback
// returns.
type Tx struct {
	store    *Store
	now      time.Time
	writes   map[model.EntityKind]map[string]model.Entity
	inserted map[model.EntityKind][]string
	counters map[model.EntityKind]int
	audit    []model.AuditEntry
	auditSeq int
}

func (tx *Tx) Now() time.Time {
	return tx.now
}

func (tx *Tx) Get(kind model.EntityKind, id string) (model.Entity, error) {
	c, err := tx.store.collection(kind)
	if err != nil {
		return nil, err
	}
	if e, ok := tx.writes[kind][id]; ok {
		return e, nil
	}
	if e, ok := c.items[id]; ok {
		return e, nil
	}
	return nil, apperrors.NotFound(fmt.Sprintf("%s %s", kind, id), nil)
}

func (tx *Tx) NextID(kind model.EntityKind) (string, error) {
	spec, ok := model.Spec(kind)
	if !ok {
		return "", apperrors.NotFound(fmt.Sprintf("entity kind %q", kind), nil)
	}
	n, staged := tx.counters[kind]
	if !staged {
		n = tx.store.counters[kind]
	}
	n++
	tx.counters[kind] = n
	return spec.Prefix + strconv.Itoa(n), nil
}

func (tx *Tx) Insert(e model.Entity) error {
	kind, id := e.Kind(), e.EntityID()
	if id == "" {
		return apperrors.BadRequest("record id is required", nil)
	}
	if _, err := tx.Get(kind, id); err == nil {
		return apperrors.BadRequest(fmt.Sprintf("%s %s already exists", kind, id), nil)
	} else if !apperrors.IsNotFound(err) {
		return err
	}
	tx.stage(e)
	tx.inserted[kind] = append(tx.inserted[kind], id)
	return nil
}

func (tx *Tx) Replace(e model.Entity) error {
	if _, err := tx.Get(e.Kind(), e.EntityID()); err != nil {
		return err
	}
	tx.stage(e)
	return nil
}

func (tx *Tx) AppendAudit(entry model.AuditEntry) model.AuditEntry {
	tx.auditSeq++
	entry.ID = auditPrefix + strconv.Itoa(tx.auditSeq)
	entry.Timestamp = tx.now
	tx.audit = append(tx.audit, entry)
	return entry
}

func (tx *Tx) stage(e model.Entity) {
	if tx.writes[e.Kind()] == nil {
		tx.writes[e.Kind()] = make(map[string]model.Entity)
	}
	tx.writes[e.Kind()][e.EntityID()] = e
}
