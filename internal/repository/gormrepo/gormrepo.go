// Package gormrepo implements the repository interfaces over GORM so the
// API can run on SQLite or PostgreSQL instead of the JSON document.
package gormrepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/models"
	"fintrack/internal/repository"
)

// New returns the repositories backed by db.
func New(db *gorm.DB) repository.Repositories {
	return repository.Repositories{
		Users:   &userRepository{db: db},
		People:  &personRepository{db: db},
		Entries: &entryRepository{db: db, now: time.Now},
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.ErrNotFound
	}
	return err
}

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

type personRepository struct {
	db *gorm.DB
}

func (r *personRepository) FindByID(ctx context.Context, id string) (*models.Person, error) {
	var person models.Person
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&person).Error; err != nil {
		return nil, notFound(err)
	}
	return &person, nil
}

func (r *personRepository) FindByUserID(ctx context.Context, userID string) ([]models.Person, error) {
	people := make([]models.Person, 0)
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&people).Error; err != nil {
		return nil, err
	}
	repository.SortPeople(people)
	return people, nil
}

func (r *personRepository) FindByName(ctx context.Context, name, userID string) (*models.Person, error) {
	var person models.Person
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND LOWER(TRIM(name)) = ?", userID, repository.NormalizeName(name)).
		First(&person).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &person, nil
}

func (r *personRepository) Create(ctx context.Context, person *models.Person) error {
	person.Name = strings.TrimSpace(person.Name)
	return r.db.WithContext(ctx).Create(person).Error
}

func (r *personRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Person{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

type entryRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func (r *entryRepository) FindByID(ctx context.Context, id string) (*models.FinanceEntry, error) {
	var entry models.FinanceEntry
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error; err != nil {
		return nil, notFound(err)
	}
	return &entry, nil
}

func (r *entryRepository) FindByUserID(ctx context.Context, userID string) ([]models.FinanceEntry, error) {
	return r.find(ctx, "user_id = ?", userID)
}

func (r *entryRepository) FindByPersonID(ctx context.Context, personID string) ([]models.FinanceEntry, error) {
	return r.find(ctx, "person_id = ?", personID)
}

func (r *entryRepository) find(ctx context.Context, query string, arg string) ([]models.FinanceEntry, error) {
	entries := make([]models.FinanceEntry, 0)
	if err := r.db.WithContext(ctx).Where(query, arg).Find(&entries).Error; err != nil {
		return nil, err
	}
	repository.SortEntries(entries)
	return entries, nil
}

func (r *entryRepository) Create(ctx context.Context, entry *models.FinanceEntry) error {
	entry.Description = strings.TrimSpace(entry.Description)
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *entryRepository) Update(ctx context.Context, id string, update repository.EntryUpdate) (*models.FinanceEntry, error) {
	var updated *models.FinanceEntry
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry models.FinanceEntry
		if err := tx.Where("id = ?", id).First(&entry).Error; err != nil {
			return notFound(err)
		}
		repository.ApplyEntryUpdate(&entry, update, r.now())
		if err := tx.Save(&entry).Error; err != nil {
			return err
		}
		updated = &entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *entryRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.FinanceEntry{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
