// Package summary computes monthly income and expense totals. It has no I/O
// so the server and the command-line client share the same arithmetic.
package summary

import (
	"sort"
	"strings"
	"time"

	"fintrack/internal/models"
)

// PersonTotals is one person's share of a month.
type PersonTotals struct {
	PersonID string  `json:"personId"`
	Name     string  `json:"name"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`
}

// Summary aggregates the entries dated within one calendar month.
type Summary struct {
	Year             int            `json:"year"`
	Month            int            `json:"month"`
	Income           float64        `json:"income"`
	FixedExpenses    float64        `json:"fixedExpenses"`
	VariableExpenses float64        `json:"variableExpenses"`
	Expenses         float64        `json:"expenses"`
	Balance          float64        `json:"balance"`
	EntryCount       int            `json:"entryCount"`
	ByPerson         []PersonTotals `json:"byPerson"`
}

// Monthly totals the entries whose date falls in year/month. People are used
// only to resolve names; entries whose person is unknown are still counted
// under their raw person id. Entries with an unparseable date are skipped.
func Monthly(entries []models.FinanceEntry, people []models.Person, year int, month time.Month) Summary {
	names := make(map[string]string, len(people))
	for _, p := range people {
		names[p.ID] = p.Name
	}

	s := Summary{Year: year, Month: int(month), ByPerson: []PersonTotals{}}
	byPerson := make(map[string]*PersonTotals)

	for i := range entries {
		e := &entries[i]
		y, m, ok := e.Month()
		if !ok || y != year || m != month {
			continue
		}
		s.EntryCount++

		var pt *PersonTotals
		if e.Person != "" {
			pt = byPerson[e.Person]
			if pt == nil {
				pt = &PersonTotals{PersonID: e.Person, Name: names[e.Person]}
				byPerson[e.Person] = pt
			}
		}

		switch e.Type {
		case models.EntryTypeIncome:
			s.Income += e.Value
			if pt != nil {
				pt.Income += e.Value
			}
		default:
			if e.Type == models.EntryTypeFixedExpense {
				s.FixedExpenses += e.Value
			} else {
				s.VariableExpenses += e.Value
			}
			s.Expenses += e.Value
			if pt != nil {
				pt.Expenses += e.Value
			}
		}
	}
	s.Balance = s.Income - s.Expenses

	for _, pt := range byPerson {
		pt.Balance = pt.Income - pt.Expenses
		s.ByPerson = append(s.ByPerson, *pt)
	}
	sort.Slice(s.ByPerson, func(i, j int) bool {
		a, b := strings.ToLower(s.ByPerson[i].Name), strings.ToLower(s.ByPerson[j].Name)
		if a != b {
			return a < b
		}
		return s.ByPerson[i].PersonID < s.ByPerson[j].PersonID
	})
	return s
}
