package models

// Person is a named participant that finance entries are attributed to.
// The (lower-cased trimmed name, UserID) pair is unique.
type Person struct {
	Base
	Name   string `gorm:"not null" json:"name"`
	UserID string `gorm:"type:varchar(36);index;not null" json:"userId"`
}

// PersonRef is the denormalized person reference attached to listed entries.
type PersonRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Ref returns the PersonRef for p.
func (p *Person) Ref() *PersonRef {
	return &PersonRef{ID: p.ID, Name: p.Name}
}
