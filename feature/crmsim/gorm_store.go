package crmsim

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// leadRow represents the 'leads' table.
type leadRow struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name"`
	Email     string    `gorm:"column:email;uniqueIndex"`
	Company   string    `gorm:"column:company"`
	Source    string    `gorm:"column:source"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName overrides the table name.
func (leadRow) TableName() string {
	return "leads"
}

func (r leadRow) toRecord() Record {
	return Record{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Company:   r.Company,
		Source:    r.Source,
		UpdatedAt: r.UpdatedAt,
	}
}

// GormStore persists leads in MySQL. It backs the sample backend when a
// database connection is configured.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store backed by the given connection and ensures
// the leads table exists.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&leadRow{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) FindByEmail(ctx context.Context, email string) (*Record, error) {
	var row leadRow
	err := s.db.WithContext(ctx).Where("email = ?", key(email)).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rec := row.toRecord()
	return &rec, nil
}

func (s *GormStore) Insert(ctx context.Context, rec Record) (*Record, error) {
	if _, err := s.FindByEmail(ctx, rec.Email); err == nil {
		return nil, ErrExists
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	row := leadRow{
		ID:        uuid.NewString(),
		Name:      rec.Name,
		Email:     key(rec.Email),
		Company:   rec.Company,
		Source:    rec.Source,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	out := row.toRecord()
	return &out, nil
}

func (s *GormStore) Update(ctx context.Context, email string, rec Record) (*Record, error) {
	existing, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	newKey := key(rec.Email)
	if newKey != key(email) {
		if _, err := s.FindByEmail(ctx, newKey); err == nil {
			return nil, ErrExists
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	row := leadRow{
		ID:        existing.ID,
		Name:      rec.Name,
		Email:     newKey,
		Company:   rec.Company,
		Source:    rec.Source,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return nil, err
	}
	out := row.toRecord()
	return &out, nil
}
