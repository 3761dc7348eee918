package repository

import (
	"sort"
	"strings"
	"time"

	"fintrack/internal/models"
)

// SortPeople orders people case-insensitively by name, then by id.
func SortPeople(people []models.Person) {
	sort.Slice(people, func(i, j int) bool {
		a, b := strings.ToLower(people[i].Name), strings.ToLower(people[j].Name)
		if a != b {
			return a < b
		}
		return people[i].ID < people[j].ID
	})
}

// SortEntries orders entries newest first by creation time, then by id.
func SortEntries(entries []models.FinanceEntry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].CreatedAt, entries[j].CreatedAt
		if !a.Equal(b) {
			return a.After(b)
		}
		return entries[i].ID > entries[j].ID
	})
}

// NormalizeName is the comparison key for person-name uniqueness.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// sortByCreation orders records oldest first, then by id.
func sortByCreation[T any](items []T, key func(T) (time.Time, string)) {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return idi < idj
	})
}
