package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/uuid"
)

// document is the on-disk layout: three top-level arrays.
type document struct {
	Users   []models.User         `json:"users"`
	People  []models.Person       `json:"people"`
	Entries []models.FinanceEntry `json:"entries"`
}

// collection is a key-indexed set of records guarded by its own lock.
type collection[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

func newCollection[T any]() *collection[T] {
	return &collection[T]{items: make(map[string]T)}
}

func (c *collection[T]) snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.items))
	for _, v := range c.items {
		out = append(out, v)
	}
	return out
}

// commit applies change to the items under the lock, then persists them
// with flush. If flush fails the record under key is put back as it was, so
// a failed write is never visible to readers.
func (c *collection[T]) commit(key string, change func(items map[string]T), flush func() error) error {
	c.mu.Lock()
	prev, had := c.items[key]
	change(c.items)
	c.mu.Unlock()

	if err := flush(); err != nil {
		c.mu.Lock()
		if had {
			c.items[key] = prev
		} else {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return err
	}
	return nil
}

// FileStore keeps users, people and entries in memory and rewrites the whole
// JSON document after every mutation. It implements all three repositories.
type FileStore struct {
	path string

	users   *collection[models.User]
	people  *collection[models.Person]
	entries *collection[models.FinanceEntry]

	// flushMu serializes writers of the document file.
	flushMu sync.Mutex
	now     func() time.Time
}

// OpenFileStore loads the document at path, creating it (and its directory)
// when it does not exist yet.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:    path,
		users:   newCollection[models.User](),
		people:  newCollection[models.Person](),
		entries: newCollection[models.FinanceEntry](),
		now:     time.Now,
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if err := s.flush(); err != nil {
			return nil, err
		}
		logger.Get().Infow("initialized empty data file", "path", path)
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse data file %s: %w", path, err)
	}
	for _, u := range doc.Users {
		s.users.items[u.ID] = u
	}
	for _, p := range doc.People {
		s.people.items[p.ID] = p
	}
	for _, e := range doc.Entries {
		s.entries.items[e.ID] = e
	}

	logger.Get().Infow("loaded data file",
		"path", path,
		"users", len(doc.Users),
		"people", len(doc.People),
		"entries", len(doc.Entries),
	)
	return s, nil
}

// Repositories exposes the store through the repository interfaces.
func (s *FileStore) Repositories() Repositories {
	return Repositories{
		Users:   &fileUserRepository{s},
		People:  &filePersonRepository{s},
		Entries: &fileEntryRepository{s},
	}
}

// Close writes the document one last time.
func (s *FileStore) Close() error {
	return s.flush()
}

// flush serializes a snapshot of every collection and atomically replaces
// the data file. Collections are snapshotted in a fixed order.
func (s *FileStore) flush() error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	doc := document{
		Users:   s.users.snapshot(),
		People:  s.people.snapshot(),
		Entries: s.entries.snapshot(),
	}
	// Stable file contents make the document diffable.
	sortUsers(doc.Users)
	sortByCreation(doc.People, func(p models.Person) (time.Time, string) { return p.CreatedAt, p.ID })
	sortByCreation(doc.Entries, func(e models.FinanceEntry) (time.Time, string) { return e.CreatedAt, e.ID })

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode data file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".database-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp data file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write data file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write data file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace data file: %w", err)
	}
	return nil
}

// --- users ---

type fileUserRepository struct{ s *FileStore }

func (r *fileUserRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	c := r.s.users
	c.mu.RLock()
	defer c.mu.RUnlock()
	u, ok := c.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *fileUserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	c := r.s.users
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, u := range c.items {
		if strings.ToLower(u.Email) == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fileUserRepository) Create(_ context.Context, user *models.User) error {
	r.s.stamp(&user.Base)
	return r.s.users.commit(user.ID, func(items map[string]models.User) {
		items[user.ID] = *user
	}, r.s.flush)
}

// --- people ---

type filePersonRepository struct{ s *FileStore }

func (r *filePersonRepository) FindByID(_ context.Context, id string) (*models.Person, error) {
	c := r.s.people
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *filePersonRepository) FindByUserID(_ context.Context, userID string) ([]models.Person, error) {
	c := r.s.people
	c.mu.RLock()
	people := make([]models.Person, 0)
	for _, p := range c.items {
		if p.UserID == userID {
			people = append(people, p)
		}
	}
	c.mu.RUnlock()
	SortPeople(people)
	return people, nil
}

func (r *filePersonRepository) FindByName(_ context.Context, name, userID string) (*models.Person, error) {
	key := NormalizeName(name)
	c := r.s.people
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.items {
		if p.UserID == userID && NormalizeName(p.Name) == key {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (r *filePersonRepository) Create(_ context.Context, person *models.Person) error {
	person.Name = strings.TrimSpace(person.Name)
	r.s.stamp(&person.Base)
	return r.s.people.commit(person.ID, func(items map[string]models.Person) {
		items[person.ID] = *person
	}, r.s.flush)
}

func (r *filePersonRepository) Delete(ctx context.Context, id string) (bool, error) {
	if _, err := r.FindByID(ctx, id); err != nil {
		return false, nil
	}
	err := r.s.people.commit(id, func(items map[string]models.Person) {
		delete(items, id)
	}, r.s.flush)
	return err == nil, err
}

// --- entries ---

type fileEntryRepository struct{ s *FileStore }

func (r *fileEntryRepository) FindByID(_ context.Context, id string) (*models.FinanceEntry, error) {
	c := r.s.entries
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (r *fileEntryRepository) FindByUserID(_ context.Context, userID string) ([]models.FinanceEntry, error) {
	return r.filter(func(e *models.FinanceEntry) bool { return e.UserID == userID }), nil
}

func (r *fileEntryRepository) FindByPersonID(_ context.Context, personID string) ([]models.FinanceEntry, error) {
	return r.filter(func(e *models.FinanceEntry) bool { return e.Person == personID }), nil
}

func (r *fileEntryRepository) filter(keep func(*models.FinanceEntry) bool) []models.FinanceEntry {
	c := r.s.entries
	c.mu.RLock()
	entries := make([]models.FinanceEntry, 0)
	for _, e := range c.items {
		if keep(&e) {
			entries = append(entries, e)
		}
	}
	c.mu.RUnlock()
	SortEntries(entries)
	return entries
}

func (r *fileEntryRepository) Create(_ context.Context, entry *models.FinanceEntry) error {
	entry.Description = strings.TrimSpace(entry.Description)
	r.s.stamp(&entry.Base)
	return r.s.entries.commit(entry.ID, func(items map[string]models.FinanceEntry) {
		items[entry.ID] = *entry
	}, r.s.flush)
}

func (r *fileEntryRepository) Update(ctx context.Context, id string, update EntryUpdate) (*models.FinanceEntry, error) {
	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}
	var (
		updated models.FinanceEntry
		found   bool
	)
	err := r.s.entries.commit(id, func(items map[string]models.FinanceEntry) {
		e, ok := items[id]
		if !ok {
			return
		}
		ApplyEntryUpdate(&e, update, r.s.now())
		items[id] = e
		updated, found = e, true
	}, r.s.flush)
	if !found {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *fileEntryRepository) Delete(ctx context.Context, id string) (bool, error) {
	if _, err := r.FindByID(ctx, id); err != nil {
		return false, nil
	}
	err := r.s.entries.commit(id, func(items map[string]models.FinanceEntry) {
		delete(items, id)
	}, r.s.flush)
	return err == nil, err
}

// stamp assigns an id and creation time to records that lack them.
func (s *FileStore) stamp(b *models.Base) {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = s.now().UTC()
	}
}

// ApplyEntryUpdate shallow-merges the non-empty fields of update into e.
func ApplyEntryUpdate(e *models.FinanceEntry, update EntryUpdate, now time.Time) {
	if update.Type != "" {
		e.Type = update.Type
	}
	if update.Person != "" {
		e.Person = update.Person
	}
	if update.Date != "" {
		e.Date = update.Date
	}
	if update.Value != 0 {
		e.Value = update.Value
	}
	if d := strings.TrimSpace(update.Description); d != "" {
		e.Description = d
	}
	ts := now.UTC()
	e.UpdatedAt = &ts
}

func sortUsers(users []models.User) {
	sortByCreation(users, func(u models.User) (time.Time, string) { return u.CreatedAt, u.ID })
}
