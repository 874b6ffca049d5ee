package persistence

import (
	"context"
	"errors"
	"sync"

	"github.com/lcree/backend/internal/domain/settings"
	"gorm.io/gorm"
)

// GormSettingsRepository stores the system settings singleton
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Load returns the stored settings, or defaults when none exist yet
func (r *GormSettingsRepository) Load(ctx context.Context) (*settings.SystemSettings, error) {
	var s settings.SystemSettings
	err := r.db.WithContext(ctx).Order("created_at ASC").First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return settings.Defaults(), nil
		}
		return nil, err
	}
	return &s, nil
}

// Save persists the settings row
func (r *GormSettingsRepository) Save(ctx context.Context, s *settings.SystemSettings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(s).Error
}

var _ settings.Repository = (*GormSettingsRepository)(nil)

// CachedSettingsRepository wraps a settings repository with an in-memory
// cache. Settings change rarely but are read on every production commit;
// Save invalidates the cache.
type CachedSettingsRepository struct {
	inner settings.Repository

	mu     sync.RWMutex
	cached *settings.SystemSettings
}

// NewCachedSettingsRepository creates a caching wrapper around a repository
func NewCachedSettingsRepository(inner settings.Repository) *CachedSettingsRepository {
	return &CachedSettingsRepository{inner: inner}
}

// Load returns the cached settings, falling through to the inner repository
func (r *CachedSettingsRepository) Load(ctx context.Context) (*settings.SystemSettings, error) {
	r.mu.RLock()
	if r.cached != nil {
		s := *r.cached
		r.mu.RUnlock()
		return &s, nil
	}
	r.mu.RUnlock()

	s, err := r.inner.Load(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cached = s
	r.mu.Unlock()
	copied := *s
	return &copied, nil
}

// Save persists through the inner repository and invalidates the cache
func (r *CachedSettingsRepository) Save(ctx context.Context, s *settings.SystemSettings) error {
	if err := r.inner.Save(ctx, s); err != nil {
		return err
	}
	r.mu.Lock()
	r.cached = nil
	r.mu.Unlock()
	return nil
}

var _ settings.Repository = (*CachedSettingsRepository)(nil)
