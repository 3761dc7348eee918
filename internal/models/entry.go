package models

import (
	"strings"
	"time"
)

// EntryType represents the kind of finance entry
type EntryType string

const (
	EntryTypeIncome          EntryType = "income"
	EntryTypeFixedExpense    EntryType = "fixed-expense"
	EntryTypeVariableExpense EntryType = "variable-expense"
)

// EntryTypes lists every supported entry type.
var EntryTypes = []EntryType{EntryTypeIncome, EntryTypeFixedExpense, EntryTypeVariableExpense}

// IsValid reports whether t is one of the supported entry types.
func (t EntryType) IsValid() bool {
	switch t {
	case EntryTypeIncome, EntryTypeFixedExpense, EntryTypeVariableExpense:
		return true
	}
	return false
}

// IsExpense reports whether t counts against the balance.
func (t EntryType) IsExpense() bool {
	return t == EntryTypeFixedExpense || t == EntryTypeVariableExpense
}

// DateLayout is the canonical layout of FinanceEntry.Date.
const DateLayout = "2006-01-02"

// FinanceEntry represents a single income or expense record.
type FinanceEntry struct {
	Base
	Type        EntryType  `gorm:"type:varchar(20);not null" json:"type"`
	Person      string     `gorm:"column:person_id;type:varchar(36);index;not null" json:"person"`
	Date        string     `gorm:"type:varchar(10);not null" json:"date"`
	Value       float64    `gorm:"not null" json:"value"`
	Description string     `gorm:"not null" json:"description"`
	UserID      string     `gorm:"type:varchar(36);index;not null" json:"userId"`
	UpdatedAt   *time.Time `gorm:"autoUpdateTime:false" json:"updatedAt,omitempty"`
}

// TableName keeps the table name aligned with the document collection.
func (FinanceEntry) TableName() string { return "entries" }

// EntryWithPerson is a FinanceEntry enriched with its person's current name.
// PersonRef is nil when the referenced person no longer exists or belongs to
// another user.
type EntryWithPerson struct {
	FinanceEntry
	PersonRef *PersonRef `json:"personRef"`
}

// NormalizeDate accepts a calendar date or an RFC3339 timestamp and returns
// it in DateLayout.
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(DateLayout, s); err == nil {
		return d.Format(DateLayout), nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return "", err
	}
	return ts.UTC().Format(DateLayout), nil
}

// AddMonths shifts a DateLayout date by n calendar months. Days past the end
// of the target month roll over into the next one, so 2024-01-31 plus one
// month is 2024-03-02.
func AddMonths(date string, n int) (string, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", err
	}
	return d.AddDate(0, n, 0).Format(DateLayout), nil
}

// Month returns the year and month the entry's date falls in.
func (e *FinanceEntry) Month() (int, time.Month, bool) {
	d, err := time.Parse(DateLayout, e.Date)
	if err != nil {
		return 0, 0, false
	}
	return d.Year(), d.Month(), true
}
