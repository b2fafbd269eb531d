// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package backup

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/ledgerline/internal/audit"
	"github.com/tomtom215/ledgerline/internal/auth"
	"github.com/tomtom215/ledgerline/internal/authz"
	"github.com/tomtom215/ledgerline/internal/snapshot"
	"github.com/tomtom215/ledgerline/internal/storage"
)

const testSecret = "scheduler-secret-0123456789"

var (
	adminActor   = &auth.Actor{ID: "u-admin", Name: "Ana Admin", Role: "ADMIN"}
	cashierActor = &auth.Actor{ID: "u-cashier", Name: "Carl Cashier", Role: "CASHIER"}
	baseTime     = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
)

// fakeStore is an in-memory transactional store that enforces the
// parent/child references declared in the kind registry.
type fakeStore struct {
	mu        sync.Mutex
	tables    map[snapshot.Kind][]snapshot.Record
	readErr   map[snapshot.Kind]error
	commitErr error
	begins    int
	lastOps   []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tables:  make(map[snapshot.Kind][]snapshot.Record),
		readErr: make(map[snapshot.Kind]error),
	}
}

func (s *fakeStore) ReadKind(_ context.Context, kind snapshot.Kind) ([]snapshot.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readErr[kind]; err != nil {
		return nil, err
	}
	return cloneRows(s.tables[kind]), nil
}

func (s *fakeStore) BeginReplace(_ context.Context) (Tx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begins++
	work := make(map[snapshot.Kind][]snapshot.Record, len(s.tables))
	for k, rows := range s.tables {
		work[k] = cloneRows(rows)
	}
	return &fakeTx{store: s, work: work}, nil
}

func (s *fakeStore) seed(data map[snapshot.Kind][]snapshot.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, rows := range data {
		s.tables[k] = cloneRows(rows)
	}
}

func (s *fakeStore) rows(kind snapshot.Kind) []snapshot.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRows(s.tables[kind])
}

func (s *fakeStore) counts() map[snapshot.Kind]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[snapshot.Kind]int)
	for _, spec := range snapshot.Kinds() {
		out[spec.Kind] = len(s.tables[spec.Kind])
	}
	return out
}

func (s *fakeStore) beginCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.begins
}

func (s *fakeStore) ops() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lastOps...)
}

type fakeTx struct {
	store *fakeStore
	work  map[snapshot.Kind][]snapshot.Record
	ops   []string
	done  bool
}

var errTxDone = errors.New("transaction already finished")

func referenceColumn(parent snapshot.Kind) string {
	return string(parent) + "Id"
}

func idSet(rows []snapshot.Record) map[string]bool {
	ids := make(map[string]bool, len(rows))
	for _, row := range rows {
		if id, ok := row[snapshot.IDColumn].(string); ok {
			ids[id] = true
		}
	}
	return ids
}

func (tx *fakeTx) DeleteAll(_ context.Context, kind snapshot.Kind) (int64, error) {
	if tx.done {
		return 0, errTxDone
	}
	ids := idSet(tx.work[kind])
	for _, spec := range snapshot.Kinds() {
		for _, parent := range spec.Parents {
			if parent != kind {
				continue
			}
			for _, row := range tx.work[spec.Kind] {
				if ref, ok := row[referenceColumn(parent)].(string); ok && ids[ref] {
					return 0, fmt.Errorf("foreign key violation: %s %v still references %s %s", spec.Kind, row[snapshot.IDColumn], kind, ref)
				}
			}
		}
	}
	n := int64(len(tx.work[kind]))
	delete(tx.work, kind)
	tx.ops = append(tx.ops, "delete:"+string(kind))
	return n, nil
}

func isNumeric(v any) bool {
	switch n := v.(type) {
	case json.Number:
		_, err := n.Float64()
		return err == nil
	case float64, float32, int, int64:
		return true
	default:
		return false
	}
}

func (tx *fakeTx) Insert(_ context.Context, kind snapshot.Kind, rows []snapshot.Record) error {
	if tx.done {
		return errTxDone
	}
	spec, ok := snapshot.Lookup(kind)
	if !ok {
		return fmt.Errorf("unknown kind %s", kind)
	}
	tx.ops = append(tx.ops, "insert:"+string(kind))

	ids := idSet(tx.work[kind])
	for i, row := range rows {
		id, ok := row[snapshot.IDColumn].(string)
		if !ok || id == "" {
			return fmt.Errorf("%s[%d]: missing id", kind, i)
		}
		if ids[id] {
			return fmt.Errorf("%s[%d]: duplicate id %s", kind, i, id)
		}
		for _, col := range spec.Columns {
			v, present := row[col.Name]
			if !present || v == nil {
				continue
			}
			if (col.Type == snapshot.TypeFloat || col.Type == snapshot.TypeInt) && !isNumeric(v) {
				return fmt.Errorf("%s[%d].%s: %v is not numeric", kind, i, col.Name, v)
			}
		}
		for _, parent := range spec.Parents {
			ref, ok := row[referenceColumn(parent)].(string)
			if !ok || ref == "" {
				continue
			}
			if !idSet(tx.work[parent])[ref] {
				return fmt.Errorf("foreign key violation: %s %s references missing %s %s", kind, id, parent, ref)
			}
		}
		ids[id] = true
	}
	tx.work[kind] = append(tx.work[kind], cloneRows(rows)...)
	return nil
}

func (tx *fakeTx) Commit() error {
	if tx.done {
		return errTxDone
	}
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	tx.store.lastOps = tx.ops
	if tx.store.commitErr != nil {
		return tx.store.commitErr
	}
	tx.done = true
	tx.store.tables = tx.work
	return nil
}

func (tx *fakeTx) Rollback() error {
	if !tx.done {
		tx.store.mu.Lock()
		tx.store.lastOps = tx.ops
		tx.store.mu.Unlock()
	}
	tx.done = true
	return nil
}

func cloneRows(rows []snapshot.Record) []snapshot.Record {
	if rows == nil {
		return nil
	}
	out := make([]snapshot.Record, len(rows))
	for i, row := range rows {
		c := make(snapshot.Record, len(row))
		for k, v := range row {
			c[k] = v
		}
		out[i] = c
	}
	return out
}

// sampleData uses the value types Decode produces so a round trip can be
// compared with reflect.DeepEqual.
func sampleData() map[snapshot.Kind][]snapshot.Record {
	ts := "2026-01-02T03:04:05.000Z"
	return map[snapshot.Kind][]snapshot.Record{
		snapshot.KindCategory: {
			{"id": "cat-1", "name": "Drinks", "description": nil, "createdAt": ts, "updatedAt": ts},
		},
		snapshot.KindProduct: {
			{"id": "p-1", "name": "Cola", "categoryId": "cat-1", "price": json.Number("2.5"), "costPrice": json.Number("1.2"),
				"stock": json.Number("40"), "minStock": json.Number("5"), "createdAt": ts, "updatedAt": ts},
			{"id": "p-2", "name": "Water", "categoryId": "cat-1", "price": json.Number("1"), "costPrice": json.Number("0"),
				"stock": json.Number("100"), "minStock": json.Number("0"), "createdAt": ts, "updatedAt": ts},
		},
		snapshot.KindCustomer: {
			{"id": "c-1", "name": "Maria", "phone": "555-0100", "createdAt": ts, "updatedAt": ts},
			{"id": "c-2", "name": "Tomas", "phone": nil, "createdAt": ts, "updatedAt": ts},
		},
		snapshot.KindSale: {
			{"id": "s-1", "customerId": "c-1", "productId": "p-1", "quantity": json.Number("2"),
				"unitPrice": json.Number("2.5"), "total": json.Number("5"), "createdAt": ts, "updatedAt": ts},
		},
		snapshot.KindCredit: {
			{"id": "cr-1", "customerId": "c-2", "amount": json.Number("20"), "type": "DEBT", "paid": false,
				"createdAt": ts, "updatedAt": ts},
		},
		snapshot.KindProfit: {
			{"id": "pf-1", "amount": json.Number("3.8"), "date": ts, "createdAt": ts, "updatedAt": ts},
		},
		snapshot.KindActivity: {
			{"id": "a-1", "userId": "u-admin", "action": "CREATE", "entityType": "PRODUCT", "createdAt": ts},
		},
		snapshot.KindUser: {
			{"id": "u-admin", "name": "Ana Admin", "email": "ana@example.com", "role": "ADMIN", "createdAt": ts, "updatedAt": ts},
		},
	}
}

// stepClock advances one second per reading so consecutive backups get
// distinct filenames.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

// memBackend is a storage.Backend that lists in insertion order and can
// inject failures.
type memBackend struct {
	mu        sync.Mutex
	order     []string
	objects   map[string][]byte
	writeErr  error
	listErr   error
	deleteErr map[string]error
	writes    int
}

func newMemBackend() *memBackend {
	return &memBackend{objects: make(map[string][]byte), deleteErr: make(map[string]error)}
}

func (b *memBackend) Name() string { return "memory" }

func (b *memBackend) List(_ context.Context, prefix string) ([]storage.ArtifactMeta, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listErr != nil {
		return nil, b.listErr
	}
	var out []storage.ArtifactMeta
	for _, name := range b.order {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		parsed, err := storage.ParseFilename(name)
		if err != nil {
			continue
		}
		out = append(out, storage.ArtifactMeta{
			Filename:  name,
			Size:      int64(len(b.objects[name])),
			CreatedAt: parsed.CreatedAt,
			Origin:    parsed.Origin,
		})
	}
	return out, nil
}

func (b *memBackend) Write(_ context.Context, name string, data []byte) (storage.ArtifactMeta, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writes++
	if b.writeErr != nil {
		return storage.ArtifactMeta{}, b.writeErr
	}
	parsed, err := storage.ParseFilename(name)
	if err != nil {
		return storage.ArtifactMeta{}, err
	}
	if _, ok := b.objects[name]; ok {
		return storage.ArtifactMeta{}, storage.ErrExists
	}
	b.objects[name] = append([]byte(nil), data...)
	b.order = append(b.order, name)
	return storage.ArtifactMeta{Filename: name, Size: int64(len(data)), CreatedAt: parsed.CreatedAt, Origin: parsed.Origin}, nil
}

func (b *memBackend) Read(_ context.Context, name string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (b *memBackend) Delete(_ context.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.deleteErr[name]; err != nil {
		return err
	}
	if _, ok := b.objects[name]; !ok {
		return storage.ErrNotFound
	}
	delete(b.objects, name)
	for i, n := range b.order {
		if n == name {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return nil
}

func (b *memBackend) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := append([]string(nil), b.order...)
	sort.Strings(out)
	return out
}

func (b *memBackend) put(t *testing.T, origin snapshot.Origin, at time.Time) string {
	t.Helper()
	name := storage.FormatFilename(origin, at)
	if _, err := b.Write(context.Background(), name, []byte(`{}`)); err != nil {
		t.Fatalf("put %s: %v", name, err)
	}
	return name
}

func testConfig() Config {
	return Config{
		CronSecret:           testSecret,
		MaxAutomatic:         DefaultMaxAutomatic,
		GracePeriod:          DefaultGracePeriod,
		Schedule:             "0 2 * * *",
		RetentionDescription: "keep last 30 automatic backups; automatic backups younger than 7 days are protected",
		MaxRestoreSize:       1 << 20,
	}
}

type harness struct {
	store   *fakeStore
	backend *memBackend
	audit   *audit.MemoryStore
	clock   *stepClock
	manager *Manager
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	enforcer, err := authz.NewEnforcer(authz.EnforcerConfig{AdminRole: "ADMIN"})
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}

	h := &harness{
		store:   newFakeStore(),
		backend: newMemBackend(),
		audit:   audit.NewMemoryStore(100),
		clock:   &stepClock{t: baseTime},
	}
	h.store.seed(sampleData())

	h.manager, err = NewManager(testConfig(), Dependencies{
		Backend:    h.backend,
		Source:     h.store,
		Store:      h.store,
		Audit:      h.audit,
		Authorizer: enforcer,
		Now:        h.clock.Now,
	})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	return h
}

// newLocalHarness swaps the in-memory backend for a LocalBackend in a temp dir.
func newLocalHarness(t *testing.T) (*harness, *storage.LocalBackend) {
	t.Helper()
	h := newHarness(t)
	local, err := storage.NewLocalBackend(filepath.Join(t.TempDir(), "backups"))
	if err != nil {
		t.Fatalf("NewLocalBackend() error = %v", err)
	}
	h.manager.backend = local
	return h, local
}

func lastAudit(t *testing.T, store *audit.MemoryStore) audit.Entry {
	t.Helper()
	entries := store.Entries()
	if len(entries) == 0 {
		t.Fatal("no audit entries recorded")
	}
	return entries[len(entries)-1]
}
