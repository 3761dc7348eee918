// Package cache is the client's local key-value store. It remembers the
// session and the last known people and entries so the client keeps working
// while the API is unreachable.
package cache

import (
	"encoding/json"
	"sync"

	"fintrack/internal/logger"
	"fintrack/internal/models"
)

// Keys of the stored values.
const (
	KeyToken       = "auth_token"
	KeyCurrentUser = "currentUser"
	KeyPeople      = "offline_people"
	KeyEntries     = "offline_entries"
)

// Cache stores the client session and offline copies of the user's data.
// Setters replace the stored value wholesale; the last write wins.
type Cache interface {
	Token() (string, bool)
	SetToken(token string) error
	CurrentUser() (*models.Profile, bool)
	SetCurrentUser(user *models.Profile) error
	People() []models.Person
	SetPeople(people []models.Person) error
	Entries() []models.EntryWithPerson
	SetEntries(entries []models.EntryWithPerson) error
	Clear() error
}

// store holds raw JSON values by key. persist is called with a copy of the
// values after every change.
type store struct {
	mu      sync.RWMutex
	values  map[string]json.RawMessage
	persist func(map[string]json.RawMessage) error
}

func newStore(values map[string]json.RawMessage, persist func(map[string]json.RawMessage) error) *store {
	if values == nil {
		values = make(map[string]json.RawMessage)
	}
	return &store{values: values, persist: persist}
}

func (s *store) get(key string, dst interface{}) bool {
	s.mu.RLock()
	raw, ok := s.values[key]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		logger.Get().Warnw("ignoring unreadable cache value", "key", key, "error", err)
		return false
	}
	return true
}

func (s *store) set(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.snapshot(key)
	s.values[key] = raw
	if err := s.flush(); err != nil {
		s.restore(prev)
		return err
	}
	return nil
}

func (s *store) remove(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.snapshot(keys...)
	for _, k := range keys {
		delete(s.values, k)
	}
	if err := s.flush(); err != nil {
		s.restore(prev)
		return err
	}
	return nil
}

// snapshot records the current values of keys; absent keys map to nil.
// Must be called with mu held.
func (s *store) snapshot(keys ...string) map[string]json.RawMessage {
	prev := make(map[string]json.RawMessage, len(keys))
	for _, k := range keys {
		prev[k] = s.values[k]
	}
	return prev
}

// restore undoes a change whose flush failed. Must be called with mu held.
func (s *store) restore(prev map[string]json.RawMessage) {
	for k, v := range prev {
		if v == nil {
			delete(s.values, k)
		} else {
			s.values[k] = v
		}
	}
}

// flush must be called with mu held.
func (s *store) flush() error {
	if s.persist == nil {
		return nil
	}
	snapshot := make(map[string]json.RawMessage, len(s.values))
	for k, v := range s.values {
		snapshot[k] = v
	}
	return s.persist(snapshot)
}

func (s *store) Token() (string, bool) {
	var token string
	if !s.get(KeyToken, &token) || token == "" {
		return "", false
	}
	return token, true
}

func (s *store) SetToken(token string) error {
	if token == "" {
		return s.remove(KeyToken)
	}
	return s.set(KeyToken, token)
}

func (s *store) CurrentUser() (*models.Profile, bool) {
	var user models.Profile
	if !s.get(KeyCurrentUser, &user) || user.ID == "" {
		return nil, false
	}
	return &user, true
}

func (s *store) SetCurrentUser(user *models.Profile) error {
	if user == nil {
		return s.remove(KeyCurrentUser)
	}
	return s.set(KeyCurrentUser, user)
}

// People returns the cached people, or an empty slice when nothing usable
// is stored.
func (s *store) People() []models.Person {
	var people []models.Person
	if !s.get(KeyPeople, &people) || people == nil {
		return []models.Person{}
	}
	return people
}

func (s *store) SetPeople(people []models.Person) error {
	if people == nil {
		people = []models.Person{}
	}
	return s.set(KeyPeople, people)
}

// Entries returns the cached entries, or an empty slice when nothing usable
// is stored.
func (s *store) Entries() []models.EntryWithPerson {
	var entries []models.EntryWithPerson
	if !s.get(KeyEntries, &entries) || entries == nil {
		return []models.EntryWithPerson{}
	}
	return entries
}

func (s *store) SetEntries(entries []models.EntryWithPerson) error {
	if entries == nil {
		entries = []models.EntryWithPerson{}
	}
	return s.set(KeyEntries, entries)
}

// Clear forgets the session and both offline collections.
func (s *store) Clear() error {
	return s.remove(KeyToken, KeyCurrentUser, KeyPeople, KeyEntries)
}

// MemoryCache keeps values in memory only.
type MemoryCache struct {
	*store
}

// NewMemoryCache returns an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{store: newStore(nil, nil)}
}

var (
	_ Cache = (*MemoryCache)(nil)
	_ Cache = (*FileCache)(nil)
)
