package backup

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/backup"
	"github.com/lats/backend/internal/domain/shared"
)

type memRecords struct {
	mu   sync.Mutex
	rows map[uuid.UUID]backup.Record
}

func newMemRecords() *memRecords {
	return &memRecords{rows: map[uuid.UUID]backup.Record{}}
}

func (r *memRecords) Save(_ context.Context, rec *backup.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[rec.ID] = *rec
	return nil
}

func (r *memRecords) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*backup.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.rows[id]
	if !ok || rec.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &rec, nil
}

func (r *memRecords) FindAllForTenant(_ context.Context, tenantID uuid.UUID) ([]backup.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]backup.Record, 0)
	for _, rec := range r.rows {
		if rec.TenantID == tenantID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}

func (r *memRecords) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

type memSettings struct {
	mu   sync.Mutex
	rows map[uuid.UUID]backup.Settings
}

func newMemSettings() *memSettings {
	return &memSettings{rows: map[uuid.UUID]backup.Settings{}}
}

func (r *memSettings) Find(_ context.Context, tenantID uuid.UUID) (*backup.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.rows[tenantID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &st, nil
}

func (r *memSettings) Save(_ context.Context, s *backup.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[s.TenantID] = *s
	return nil
}

func (r *memSettings) FindEnabled(_ context.Context) ([]backup.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]backup.Settings, 0)
	for _, st := range r.rows {
		if st.Enabled {
			out = append(out, st)
		}
	}
	return out, nil
}

// fakeDumper serves fixed rows per table and records restores
type fakeDumper struct {
	mu       sync.Mutex
	data     map[string][]map[string]any
	failOn   string
	pingErr  error
	restored map[string][]map[string]any
}

func (d *fakeDumper) Tables() []string {
	out := make([]string, 0, len(d.data))
	for t := range d.data {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func (d *fakeDumper) Dump(_ context.Context, _ uuid.UUID, table string) ([]map[string]any, error) {
	if table == d.failOn {
		return nil, errors.New("relation \"" + table + "\" does not exist")
	}
	return d.data[table], nil
}

func (d *fakeDumper) Restore(_ context.Context, _ uuid.UUID, tables map[string][]map[string]any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.restored = tables
	return nil
}

func (d *fakeDumper) Ping(context.Context) error { return d.pingErr }

// memStore is an in-memory cloud store
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (s *memStore) Name() string { return "s3" }

func (s *memStore) Put(_ context.Context, key string, r io.Reader, _ int64) error {
	if s.putErr != nil {
		return s.putErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = b
	return nil
}

func (s *memStore) Get(_ context.Context, key string) (io.ReadCloser, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[key]
	if !ok {
		return nil, 0, shared.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), int64(len(b)), nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *memStore) Ping(context.Context) error { return s.putErr }

func (s *memStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

type recordingMetrics struct {
	mu       sync.Mutex
	finished []string
}

func (m *recordingMetrics) BackupFinished(backupType, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finished = append(m.finished, backupType+":"+outcome)
}
