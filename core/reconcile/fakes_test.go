package reconcile

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// testRecord is a concrete live record.
type testRecord struct {
	id      uint
	typ     string
	updated time.Time
}

func (r testRecord) EntityID() uint          { return r.id }
func (r testRecord) EntityType() string      { return r.typ }
func (r testRecord) LastModified() time.Time { return r.updated }

// testHandle is a loaded row that may be soft-deleted or dangling.
type testHandle struct {
	record   testRecord
	deleted  bool
	dangling bool
}

func live(id uint, typ string, updated time.Time) testHandle {
	return testHandle{record: testRecord{id: id, typ: typ, updated: updated}}
}

// testConverter maps an entity type to a base type.
type testConverter struct {
	entity string
	base   BaseType
}

func (c testConverter) EntityType() string { return c.entity }
func (c testConverter) BaseType() BaseType { return c.base }
func (c testConverter) Convert(r Record) (Document, error) {
	return Document{DisplayName: fmt.Sprintf("%s %d", c.entity, r.EntityID())}, nil
}

// fakeSource serves handles per base type.
type fakeSource struct {
	mu      sync.Mutex
	handles map[BaseType][]Handle
	errs    map[BaseType]error
	loads   int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		handles: make(map[BaseType][]Handle),
		errs:    make(map[BaseType]error),
	}
}

func (s *fakeSource) put(base BaseType, handles ...testHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range handles {
		s.handles[base] = append(s.handles[base], h)
	}
}

func (s *fakeSource) set(base BaseType, handles ...testHandle) {
	s.mu.Lock()
	s.handles[base] = nil
	s.mu.Unlock()
	s.put(base, handles...)
}

func (s *fakeSource) loadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads
}

func (s *fakeSource) LoadAll(ctx context.Context, base BaseType) ([]Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if err := s.errs[base]; err != nil {
		return nil, err
	}
	out := make([]Handle, len(s.handles[base]))
	copy(out, s.handles[base])
	return out, nil
}

func (s *fakeSource) Resolve(h Handle) (Record, bool) {
	th, ok := h.(testHandle)
	if !ok || th.deleted || th.dangling {
		return nil, false
	}
	return th.record, true
}

type entryKey struct {
	id  uint
	typ string
}

// memoryIndex is an in-memory index store implementing both Index and Updater.
type memoryIndex struct {
	mu         sync.Mutex
	registry   *Registry
	entries    map[entryKey]IndexEntry
	nextID     uint
	loadErr    error
	addErr     error
	deleteErr  error
	failUpdate map[uint]error
	calls      []string
	addStarted chan struct{}
	addRelease chan struct{}
}

func newMemoryIndex(registry *Registry) *memoryIndex {
	return &memoryIndex{
		registry:   registry,
		entries:    make(map[entryKey]IndexEntry),
		failUpdate: make(map[uint]error),
	}
}

func (m *memoryIndex) seed(id uint, typ string, updated time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.entries[entryKey{id, typ}] = IndexEntry{ID: m.nextID, EntityID: id, EntityType: typ, EntityUpdatedOn: updated}
}

func (m *memoryIndex) snapshot() map[entryKey]time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[entryKey]time.Time, len(m.entries))
	for k, e := range m.entries {
		out[k] = e.EntityUpdatedOn
	}
	return out
}

func (m *memoryIndex) callLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *memoryIndex) LoadEntries(ctx context.Context, typeName string) ([]IndexEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	var out []IndexEntry
	for k, e := range m.entries {
		if k.typ == typeName {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntityID < out[j].EntityID })
	return out, nil
}

func (m *memoryIndex) write(r Record) {
	conv, ok := m.registry.ConverterFor(r.EntityType())
	if !ok {
		return
	}
	key := entryKey{r.EntityID(), conv.BaseType().String()}
	entry, exists := m.entries[key]
	if !exists {
		m.nextID++
		entry = IndexEntry{ID: m.nextID, EntityID: r.EntityID(), EntityType: key.typ}
	}
	entry.EntityUpdatedOn = r.LastModified()
	m.entries[key] = entry
}

func (m *memoryIndex) Add(ctx context.Context, records []Record) error {
	if m.addStarted != nil {
		close(m.addStarted)
		<-m.addRelease
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, fmt.Sprintf("add:%d", len(records)))
	if m.addErr != nil {
		return m.addErr
	}
	for _, r := range records {
		m.write(r)
	}
	return nil
}

func (m *memoryIndex) Update(ctx context.Context, record Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, fmt.Sprintf("update:%d", record.EntityID()))
	if err := m.failUpdate[record.EntityID()]; err != nil {
		return err
	}
	m.write(record)
	return nil
}

func (m *memoryIndex) Delete(ctx context.Context, entries []IndexEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, fmt.Sprintf("delete:%d", len(entries)))
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for _, e := range entries {
		delete(m.entries, entryKey{e.EntityID, e.EntityType})
	}
	return nil
}

// recordingSink collects saved reports.
type recordingSink struct {
	mu      sync.Mutex
	reports []*RunReport
	err     error
}

func (s *recordingSink) Save(ctx context.Context, report *RunReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, report)
	return s.err
}

func ids(records []Record) []uint {
	out := make([]uint, 0, len(records))
	for _, r := range records {
		out = append(out, r.EntityID())
	}
	return out
}

func entryIDs(entries []IndexEntry) []uint {
	out := make([]uint, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.EntityID)
	}
	return out
}
