package client

import (
	"context"
	"math"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"fintrack/internal/models"
)

// EntryInput is the payload for creating or updating an entry.
type EntryInput struct {
	Type        models.EntryType `json:"type"`
	Person      string           `json:"person"`
	Date        string           `json:"date"`
	Value       float64          `json:"value"`
	Description string           `json:"description"`
}

// Message is the acknowledgement returned by delete calls.
type Message struct {
	Message string `json:"message"`
}

// People lists the user's people. A successful read replaces the cached
// copy; an unreachable server yields the cached copy.
func (g *Gateway) People(ctx context.Context) Result[[]models.Person] {
	var people []models.Person
	unreachable, err := g.do(ctx, http.MethodGet, "/people", nil, &people)
	if unreachable {
		return Unreachable(g.cache.People(), err)
	}
	if err != nil {
		return Err[[]models.Person](err)
	}
	if people == nil {
		people = []models.Person{}
	}
	g.mu.Lock()
	err = g.cache.SetPeople(people)
	g.mu.Unlock()
	if err != nil {
		return Err[[]models.Person](err)
	}
	return OK(people)
}

// Entries lists the user's entries, newest first, with the same cache
// behavior as People.
func (g *Gateway) Entries(ctx context.Context) Result[[]models.EntryWithPerson] {
	var entries []models.EntryWithPerson
	unreachable, err := g.do(ctx, http.MethodGet, "/entries", nil, &entries)
	if unreachable {
		return Unreachable(g.cache.Entries(), err)
	}
	if err != nil {
		return Err[[]models.EntryWithPerson](err)
	}
	if entries == nil {
		entries = []models.EntryWithPerson{}
	}
	g.mu.Lock()
	err = g.cache.SetEntries(entries)
	g.mu.Unlock()
	if err != nil {
		return Err[[]models.EntryWithPerson](err)
	}
	return OK(entries)
}

// CreatePerson adds a person. Offline, the person is created in the cache
// with a locally generated id.
func (g *Gateway) CreatePerson(ctx context.Context, name string) Result[models.Person] {
	var resp struct {
		Person models.Person `json:"person"`
	}
	unreachable, err := g.do(ctx, http.MethodPost, "/people", map[string]string{"name": name}, &resp)
	if !unreachable {
		if err != nil {
			return Err[models.Person](err)
		}
		return OK(resp.Person)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return Err[models.Person](ErrBlankName)
	}

	person := models.Person{
		Base:   models.Base{ID: uuid.NewString(), CreatedAt: g.now().UTC()},
		Name:   name,
		UserID: g.currentUserID(),
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if serr := g.cache.SetPeople(append(g.cache.People(), person)); serr != nil {
		return Err[models.Person](serr)
	}
	return Unreachable(person, err)
}

// DeletePerson removes a person. Offline, it is removed from the cache.
func (g *Gateway) DeletePerson(ctx context.Context, id string) Result[Message] {
	var msg Message
	unreachable, err := g.do(ctx, http.MethodDelete, "/people/"+url.PathEscape(id), nil, &msg)
	if !unreachable {
		if err != nil {
			return Err[Message](err)
		}
		return OK(msg)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	people := g.cache.People()
	kept := people[:0]
	for _, p := range people {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if serr := g.cache.SetPeople(kept); serr != nil {
		return Err[Message](serr)
	}
	return Unreachable(Message{Message: "Person removed offline"}, err)
}

// CreateEntry adds an entry. Offline, the entry is stored in the cache,
// newest first, with its person resolved from the cached people.
func (g *Gateway) CreateEntry(ctx context.Context, input EntryInput) Result[models.EntryWithPerson] {
	var resp struct {
		Entry models.EntryWithPerson `json:"entry"`
	}
	unreachable, err := g.do(ctx, http.MethodPost, "/entries", input, &resp)
	if !unreachable {
		if err != nil {
			return Err[models.EntryWithPerson](err)
		}
		return OK(resp.Entry)
	}

	fields := models.FinanceEntry{
		Type:        input.Type,
		Person:      input.Person,
		Date:        input.Date,
		Value:       input.Value,
		Description: input.Description,
	}
	if verr := validateEntry(&fields); verr != nil {
		return Err[models.EntryWithPerson](verr)
	}
	fields.Base = models.Base{ID: uuid.NewString(), CreatedAt: g.now().UTC()}
	fields.UserID = g.currentUserID()
	entry := models.EntryWithPerson{FinanceEntry: fields, PersonRef: g.cachedPersonRef(fields.Person)}

	g.mu.Lock()
	defer g.mu.Unlock()
	entries := append([]models.EntryWithPerson{entry}, g.cache.Entries()...)
	if serr := g.cache.SetEntries(entries); serr != nil {
		return Err[models.EntryWithPerson](serr)
	}
	return Unreachable(entry, err)
}

// UpdateEntry changes an entry. Offline, the non-empty input fields are
// merged into the cached entry with that id.
func (g *Gateway) UpdateEntry(ctx context.Context, id string, input EntryInput) Result[models.EntryWithPerson] {
	var resp struct {
		Entry models.EntryWithPerson `json:"entry"`
	}
	unreachable, err := g.do(ctx, http.MethodPut, "/entries/"+url.PathEscape(id), input, &resp)
	if !unreachable {
		if err != nil {
			return Err[models.EntryWithPerson](err)
		}
		return OK(resp.Entry)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	entries := g.cache.Entries()
	idx := -1
	for i := range entries {
		if entries[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Err[models.EntryWithPerson](ErrNotCached)
	}

	merged := entries[idx]
	mergeEntry(&merged, input)
	if verr := validateEntry(&merged.FinanceEntry); verr != nil {
		return Err[models.EntryWithPerson](verr)
	}
	merged.PersonRef = g.cachedPersonRef(merged.Person)
	now := g.now().UTC()
	merged.UpdatedAt = &now

	entries[idx] = merged
	if serr := g.cache.SetEntries(entries); serr != nil {
		return Err[models.EntryWithPerson](serr)
	}
	return Unreachable(merged, err)
}

// DeleteEntry removes an entry. Offline, it is removed from the cache.
func (g *Gateway) DeleteEntry(ctx context.Context, id string) Result[Message] {
	var msg Message
	unreachable, err := g.do(ctx, http.MethodDelete, "/entries/"+url.PathEscape(id), nil, &msg)
	if !unreachable {
		if err != nil {
			return Err[Message](err)
		}
		return OK(msg)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	entries := g.cache.Entries()
	kept := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if serr := g.cache.SetEntries(kept); serr != nil {
		return Err[Message](serr)
	}
	return Unreachable(Message{Message: "Entry removed offline"}, err)
}

// validateEntry applies the server's entry rules to a record built offline,
// in the same order, and normalizes its date and description.
func validateEntry(e *models.FinanceEntry) error {
	switch {
	case e.Type == "" || strings.TrimSpace(e.Person) == "" || strings.TrimSpace(e.Date) == "":
		return ErrMissingFields
	case !e.Type.IsValid():
		return ErrInvalidEntryType
	case !(e.Value > 0) || math.IsInf(e.Value, 1):
		return ErrInvalidValue
	case strings.TrimSpace(e.Description) == "":
		return ErrBlankDescription
	}

	date, err := models.NormalizeDate(e.Date)
	if err != nil {
		return ErrInvalidDate
	}
	e.Date = date
	e.Description = strings.TrimSpace(e.Description)
	return nil
}

func mergeEntry(e *models.EntryWithPerson, in EntryInput) {
	if in.Type != "" {
		e.Type = in.Type
	}
	if in.Person != "" {
		e.Person = in.Person
	}
	if in.Date != "" {
		e.Date = in.Date
	}
	if in.Value != 0 {
		e.Value = in.Value
	}
	if d := strings.TrimSpace(in.Description); d != "" {
		e.Description = d
	}
}

func (g *Gateway) cachedPersonRef(personID string) *models.PersonRef {
	for _, p := range g.cache.People() {
		if p.ID == personID {
			return p.Ref()
		}
	}
	return nil
}
