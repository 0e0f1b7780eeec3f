// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/keywatch/keywatch/internal/cache"
	"github.com/keywatch/keywatch/internal/metrics"
	"github.com/keywatch/keywatch/internal/model"
	"github.com/keywatch/keywatch/internal/repository"
)

// Service errors.
var (
	ErrMonitorNotFound = errors.New("monitor not found")
	ErrInvalidKeyword  = errors.New("invalid keyword")
	ErrInvalidEmail    = errors.New("invalid user email")
	ErrKeywordTooLong  = errors.New("keyword too long")
)

// maxKeywordLength is counted in characters, not bytes.
const maxKeywordLength = 200

// MonitorCache is the subset of the cache used by MonitorService.
type MonitorCache interface {
	GetMonitor(ctx context.Context, id string) (*model.Monitor, error)
	SetMonitor(ctx context.Context, monitor *model.Monitor) error
	DeleteMonitor(ctx context.Context, id string) error
}

// MonitorService handles monitor business logic.
// Each method runs as a single unit of work on one pooled connection.
type MonitorService struct {
	session *repository.Session
	cache   MonitorCache
	metrics metrics.Recorder
	logger  *slog.Logger

	// fillMu orders read-path cache fills against deletes. deletes is
	// bumped under the write lock after every storage delete; a fill that
	// observes a different value than it saw before its read is dropped.
	fillMu  sync.RWMutex
	deletes uint64
}

// NewMonitorService creates a new MonitorService.
// cache may be nil to disable caching.
func NewMonitorService(session *repository.Session, cache MonitorCache, recorder metrics.Recorder, logger *slog.Logger) *MonitorService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MonitorService{
		session: session,
		cache:   cache,
		metrics: recorder,
		logger:  logger,
	}
}

// CreateMonitorInput defines input for creating a monitor.
type CreateMonitorInput struct {
	Keyword   string
	UserEmail string
}

// CreateMonitor validates and stores a new monitor.
func (s *MonitorService) CreateMonitor(ctx context.Context, input CreateMonitorInput) (*model.Monitor, error) {
	keyword := strings.TrimSpace(input.Keyword)
	if keyword == "" {
		return nil, ErrInvalidKeyword
	}
	if utf8.RuneCountInString(keyword) > maxKeywordLength {
		return nil, ErrKeywordTooLong
	}

	email, err := normalizeEmail(input.UserEmail)
	if err != nil {
		return nil, err
	}

	monitor, err := observe(ctx, s, func(repo *repository.MonitorRepository) (*model.Monitor, error) {
		return repo.SaveMonitor(ctx, &model.Monitor{Keyword: keyword, UserEmail: email})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create monitor: %w", err)
	}

	s.metrics.IncMonitorCreated()
	s.cacheSet(ctx, monitor)

	return monitor, nil
}

// GetMonitor retrieves a monitor by ID, consulting the cache first.
func (s *MonitorService) GetMonitor(ctx context.Context, id string) (*model.Monitor, error) {
	if s.cache != nil {
		cached, err := s.cache.GetMonitor(ctx, id)
		switch {
		case err == nil:
			s.metrics.IncMonitorCacheHit()
			return cached, nil
		case errors.Is(err, cache.ErrCacheMiss):
			s.metrics.IncMonitorCacheMiss()
		default:
			s.metrics.IncMonitorCacheMiss()
			s.logger.Warn("monitor cache read failed", "monitor_id", id, "error", err)
		}
	}

	generation := s.deleteGeneration()

	monitor, err := observe(ctx, s, func(repo *repository.MonitorRepository) (*model.Monitor, error) {
		return repo.GetMonitor(ctx, id)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get monitor: %w", err)
	}
	if monitor == nil {
		return nil, ErrMonitorNotFound
	}

	s.cacheFill(ctx, monitor, generation)

	return monitor, nil
}

// ListMonitors returns all monitors owned by userEmail.
func (s *MonitorService) ListMonitors(ctx context.Context, userEmail string) ([]*model.Monitor, error) {
	email, err := normalizeEmail(userEmail)
	if err != nil {
		return nil, err
	}

	monitors, err := observe(ctx, s, func(repo *repository.MonitorRepository) ([]*model.Monitor, error) {
		return repo.GetAllMonitors(ctx, email)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list monitors: %w", err)
	}

	return monitors, nil
}

// DeleteMonitor removes a monitor. Deleting an unknown ID succeeds.
func (s *MonitorService) DeleteMonitor(ctx context.Context, id string) error {
	_, err := observe(ctx, s, func(repo *repository.MonitorRepository) (struct{}, error) {
		return struct{}{}, repo.DeleteMonitor(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete monitor: %w", err)
	}

	s.metrics.IncMonitorDeleteRequest()

	s.fillMu.Lock()
	defer s.fillMu.Unlock()
	s.deletes++

	if s.cache != nil {
		if err := s.cache.DeleteMonitor(ctx, id); err != nil {
			s.logger.Warn("monitor cache invalidation failed", "monitor_id", id, "error", err)
		}
	}

	return nil
}

// observe runs work in a session and records its duration and failures.
func observe[T any](ctx context.Context, s *MonitorService, work func(*repository.MonitorRepository) (T, error)) (T, error) {
	start := time.Now()
	result, err := repository.Run(ctx, s.session, work)
	s.metrics.ObserveSessionDuration(time.Since(start))
	if err != nil {
		s.metrics.IncSessionError()
	}
	return result, err
}

func (s *MonitorService) deleteGeneration() uint64 {
	s.fillMu.RLock()
	defer s.fillMu.RUnlock()
	return s.deletes
}

// cacheFill caches a monitor read from storage unless a delete finished
// after the read began.
func (s *MonitorService) cacheFill(ctx context.Context, monitor *model.Monitor, generation uint64) {
	if s.cache == nil {
		return
	}

	s.fillMu.RLock()
	defer s.fillMu.RUnlock()
	if s.deletes != generation {
		s.logger.DebugContext(ctx, "skipping monitor cache fill after concurrent delete", "monitor_id", monitor.ID)
		return
	}
	s.cacheSet(ctx, monitor)
}

func (s *MonitorService) cacheSet(ctx context.Context, monitor *model.Monitor) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetMonitor(ctx, monitor); err != nil {
		s.logger.Warn("monitor cache write failed", "monitor_id", monitor.ID, "error", err)
	}
}

// normalizeEmail validates a bare email address and trims surrounding space.
func normalizeEmail(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidEmail
	}

	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed || addr.Name != "" {
		return "", ErrInvalidEmail
	}

	return addr.Address, nil
}
