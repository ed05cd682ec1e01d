package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/preseasonhq/backoffice/internal/cache"
	"github.com/preseasonhq/backoffice/internal/domain"
	"github.com/preseasonhq/backoffice/internal/repository"
	"github.com/preseasonhq/backoffice/internal/suggest"
)

// sessionTTL is how long an order-building session survives without activity.
const sessionTTL = 2 * time.Hour

var ErrSessionNotFound = fmt.Errorf("suggestion session not found or expired")

type session struct {
	store    *suggest.Store
	lastUsed time.Time
}

// SuggestionService owns one suggest.Store per order-building session and
// runs the suggestion engines against it. Velocity is fetched once per
// filter context: first from redis, then from the sales repository.
type SuggestionService struct {
	inventoryRepo repository.InventoryRepository
	salesRepo     repository.SalesRepository
	velocityCache cache.VelocityCache

	mu       sync.Mutex
	sessions map[string]*session
}

func NewSuggestionService(inventoryRepo repository.InventoryRepository, salesRepo repository.SalesRepository, velocityCache cache.VelocityCache) *SuggestionService {
	if velocityCache == nil {
		velocityCache = cache.NewNoopVelocityCache()
	}
	return &SuggestionService{
		inventoryRepo: inventoryRepo,
		salesRepo:     salesRepo,
		velocityCache: velocityCache,
		sessions:      make(map[string]*session),
	}
}

// OpenSession starts a session for the given filter, loads its inventory and
// returns the session id with the loaded items.
func (s *SuggestionService) OpenSession(ctx context.Context, filter domain.InventoryFilter) (string, []domain.InventoryItem, domain.InventorySummary, error) {
	items, summary, err := s.inventoryRepo.GetInventory(ctx, filter)
	if err != nil {
		return "", nil, domain.InventorySummary{}, err
	}

	store := suggest.NewStore()
	store.OnFilterChanged(filter)
	store.SetInventory(items)

	id := uuid.NewString()
	s.mu.Lock()
	s.pruneLocked()
	s.sessions[id] = &session{store: store, lastUsed: time.Now()}
	s.mu.Unlock()

	return id, items, summary, nil
}

// SetFilter repoints an existing session at a new filter scope. Pending
// suggestions and cached velocity are dropped before the new inventory loads.
func (s *SuggestionService) SetFilter(ctx context.Context, sessionID string, filter domain.InventoryFilter) ([]domain.InventoryItem, domain.InventorySummary, error) {
	store, err := s.getStore(sessionID)
	if err != nil {
		return nil, domain.InventorySummary{}, err
	}

	store.OnFilterChanged(filter)

	items, summary, err := s.inventoryRepo.GetInventory(ctx, filter)
	if err != nil {
		return nil, domain.InventorySummary{}, err
	}
	store.SetInventory(items)

	return items, summary, nil
}

// RunStockRules replaces the session's suggestion map with a fresh
// stock-rule run over the trailing velocity window.
func (s *SuggestionService) RunStockRules(ctx context.Context, sessionID string, cfg suggest.StockRuleConfig, trailingMonths int) (suggest.SuggestionMap, error) {
	store, err := s.getStore(sessionID)
	if err != nil {
		return nil, err
	}

	velocity, err := s.velocity(ctx, store, trailingMonths)
	if err != nil {
		return nil, err
	}

	result := suggest.StockRules(store.Items(), velocity, cfg)
	store.Replace(result)
	return store.Suggestions(), nil
}

// RunVelocityTargets merges flat coverage-target suggestions into the
// session's map.
func (s *SuggestionService) RunVelocityTargets(ctx context.Context, sessionID string, coverageMonths, trailingMonths int) (suggest.SuggestionMap, error) {
	if !suggest.ValidCoverageTarget(coverageMonths) {
		return nil, fmt.Errorf("coverage target must be one of %v months, got %d", suggest.CoverageTargets, coverageMonths)
	}

	store, err := s.getStore(sessionID)
	if err != nil {
		return nil, err
	}

	velocity, err := s.velocity(ctx, store, trailingMonths)
	if err != nil {
		return nil, err
	}

	store.Merge(suggest.VelocityTargets(store.Items(), velocity, coverageMonths))
	return store.Suggestions(), nil
}

// ScaleToBudget scales current quantities to hit the dollar budget. A budget
// of zero or less is a no-op, not an error.
func (s *SuggestionService) ScaleToBudget(sessionID string, budget decimal.Decimal) (suggest.SuggestionMap, error) {
	store, err := s.getStore(sessionID)
	if err != nil {
		return nil, err
	}

	store.Merge(suggest.ScaleToBudget(store.Items(), store.Suggestions(), budget))
	return store.Suggestions(), nil
}

func (s *SuggestionService) BatchAdjust(sessionID string, selected []int64, mode suggest.BatchMode, value float64) (suggest.SuggestionMap, error) {
	if !suggest.ValidBatchMode(mode) {
		return nil, fmt.Errorf("unknown batch mode %q", mode)
	}

	store, err := s.getStore(sessionID)
	if err != nil {
		return nil, err
	}

	store.Merge(suggest.BatchAdjust(store.Items(), store.Suggestions(), selected, mode, value))
	return store.Suggestions(), nil
}

func (s *SuggestionService) Clamp(sessionID string, min int, max *int) (suggest.SuggestionMap, error) {
	store, err := s.getStore(sessionID)
	if err != nil {
		return nil, err
	}

	store.Merge(suggest.ClampRange(store.Items(), store.Suggestions(), min, max))
	return store.Suggestions(), nil
}

func (s *SuggestionService) Suggestions(sessionID string) (suggest.SuggestionMap, error) {
	store, err := s.getStore(sessionID)
	if err != nil {
		return nil, err
	}
	return store.Suggestions(), nil
}

func (s *SuggestionService) ClearSuggestions(sessionID string) error {
	store, err := s.getStore(sessionID)
	if err != nil {
		return err
	}
	store.ClearSuggestions()
	return nil
}

// velocity returns the session's velocity map, fetching and caching it on
// first use for the current filter.
func (s *SuggestionService) velocity(ctx context.Context, store *suggest.Store, trailingMonths int) (domain.VelocityMap, error) {
	if v := store.Velocity(); v != nil {
		return v, nil
	}

	filter := store.Filter()
	if cached, ok, err := s.velocityCache.Get(ctx, filter, trailingMonths); err == nil && ok {
		store.SetVelocity(cached)
		return cached, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("velocity: cache get failed")
	}

	velocity, err := s.salesRepo.GetVelocity(ctx, filter, trailingMonths)
	if err != nil {
		return nil, err
	}

	if err := s.velocityCache.Set(ctx, filter, trailingMonths, velocity); err != nil {
		log.Warn().Err(err).Msg("velocity: cache set failed")
	}

	store.SetVelocity(velocity)
	return velocity, nil
}

func (s *SuggestionService) getStore(sessionID string) (*suggest.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.lastUsed = time.Now()
	return sess.store, nil
}

func (s *SuggestionService) pruneLocked() {
	cutoff := time.Now().Add(-sessionTTL)
	for id, sess := range s.sessions {
		if sess.lastUsed.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
