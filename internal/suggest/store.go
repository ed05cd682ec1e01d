// internal/suggest/store.go
package suggest

import (
	"sync"

	"github.com/preseasonhq/backoffice/internal/domain"
)

// SuggestionMap maps an order item id to a proposed override quantity. The
// map is sparse: an absent item keeps its effective quantity.
type SuggestionMap map[int64]int

// Store holds one order-building session's canonical inventory list, the
// pending suggestion map, and the velocity map cached for the active filter.
// Engines read the store and produce a SuggestionMap which is applied with
// either Replace (stock rules) or Merge (everything else).
type Store struct {
	mu          sync.Mutex
	filter      domain.InventoryFilter
	items       []domain.InventoryItem
	velocity    domain.VelocityMap
	suggestions SuggestionMap
}

func NewStore() *Store {
	return &Store{suggestions: make(SuggestionMap)}
}

// SetInventory replaces the canonical inventory list for the current filter.
func (s *Store) SetInventory(items []domain.InventoryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]domain.InventoryItem(nil), items...)
}

// Items returns a copy of the canonical inventory list.
func (s *Store) Items() []domain.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.InventoryItem(nil), s.items...)
}

// OnFilterChanged records the new filter scope and drops all transient state
// derived from the previous one: pending suggestions and cached velocity.
func (s *Store) OnFilterChanged(filter domain.InventoryFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = filter
	s.suggestions = make(SuggestionMap)
	s.velocity = nil
	s.items = nil
}

func (s *Store) Filter() domain.InventoryFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// SetVelocity caches the velocity map fetched for the current filter.
func (s *Store) SetVelocity(v domain.VelocityMap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.velocity = v
}

// Velocity returns the cached velocity map, or nil if none was fetched yet.
func (s *Store) Velocity() domain.VelocityMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.velocity
}

// Replace swaps the entire suggestion map for m. Stock rules use this: a new
// run discards every prior suggestion, including ones for items the run left
// unclassified.
func (s *Store) Replace(m SuggestionMap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suggestions = make(SuggestionMap, len(m))
	for id, qty := range m {
		s.suggestions[id] = clampQty(qty)
	}
}

// Merge writes m on top of the existing suggestion map, keeping entries for
// items m does not mention.
func (s *Store) Merge(m SuggestionMap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, qty := range m {
		s.suggestions[id] = clampQty(qty)
	}
}

// Suggestions returns a copy of the pending suggestion map.
func (s *Store) Suggestions() SuggestionMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(SuggestionMap, len(s.suggestions))
	for id, qty := range s.suggestions {
		out[id] = qty
	}
	return out
}

// ClearSuggestions drops pending suggestions without touching inventory or
// cached velocity.
func (s *Store) ClearSuggestions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suggestions = make(SuggestionMap)
}

// clampQty guards against negative quantities reaching the suggestion map.
// Bad input is clamped, never rejected.
func clampQty(qty int) int {
	if qty < 0 {
		return 0
	}
	return qty
}

// baseQuantity is the quantity an engine transforms: the pending suggestion
// when one exists, else the item's effective quantity.
func baseQuantity(item domain.InventoryItem, suggestions SuggestionMap) int {
	if qty, ok := suggestions[item.ItemID]; ok {
		return qty
	}
	return item.EffectiveQuantity()
}
