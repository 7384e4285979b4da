package shopping

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mealmate/internal/logger"
	"mealmate/internal/plan"
)

// ErrEmptyList is returned when an operation needs existing items and
// the shopping list has none.
var ErrEmptyList = errors.New("no items in shopping list")

// ItemStore is the persistence surface the service writes through.
type ItemStore interface {
	List(ctx context.Context) ([]Item, error)
	Insert(ctx context.Context, item Item) error
	ReplaceAll(ctx context.Context, items []Item) error
	SetChecked(ctx context.Context, id string, checked bool) error
	SetPrice(ctx context.Context, id string, price float64) error
	SetAvailableAtHome(ctx context.Context, id string, available bool) error
	Delete(ctx context.Context, id string) error
	DeleteChecked(ctx context.Context) error
}

// PlanSource supplies the meal entries the generated list is built from.
type PlanSource interface {
	List(ctx context.Context) ([]plan.Entry, error)
}

// Assistant is the AI surface the service talks to for sectioning,
// cost optimization and availability analysis.
type Assistant interface {
	OptimizeShoppingList(ctx context.Context, items []string) (string, error)
	OptimizeWithPrompt(ctx context.Context, prompt string) (string, error)
	AnalyzeAvailableIngredients(ctx context.Context, prompt string) (string, error)
}

// Service owns the shopping list lifecycle. The mutex serializes the
// generate, optimize and scan pipelines so two concurrent runs cannot
// interleave their replace-all writes.
type Service struct {
	mu        sync.Mutex
	store     ItemStore
	plans     PlanSource
	aggregate *Aggregator
	ai        Assistant
}

// NewService creates a new shopping-list service.
func NewService(store ItemStore, plans PlanSource, aggregator *Aggregator, ai Assistant) *Service {
	return &Service{store: store, plans: plans, aggregate: aggregator, ai: ai}
}

// GenerateFromPlan rebuilds the shopping list from the current meal
// plan. Ingredients are aggregated across every planned recipe, sent to
// the assistant for store-section grouping, and written back as a full
// replacement of whatever list existed before. Manual edits to the
// previous list do not survive regeneration. A failure at any stage
// propagates and leaves the stored list as it was; a blank sectioning
// response is not a failure and puts every item in Other.
func (s *Service) GenerateFromPlan(ctx context.Context) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.plans.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load meal plan: %w", err)
	}

	quantities, order, err := s.aggregate.Aggregate(ctx, entries)
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(order))
	for _, name := range order {
		lines = append(lines, fmt.Sprintf("%s (%s)", name, strings.Join(quantities[name], ", ")))
	}

	response, err := s.ai.OptimizeShoppingList(ctx, lines)
	if err != nil {
		return nil, fmt.Errorf("failed to optimize shopping list: %w", err)
	}
	sections := ParseSections(response)

	items := make([]Item, 0, len(order))
	for _, name := range order {
		section, ok := sections[name]
		if !ok {
			section = SectionOther
		}
		items = append(items, Item{
			ID:             uuid.NewString(),
			IngredientName: name,
			Quantity:       strings.Join(quantities[name], ", "),
			Section:        section,
		})
	}

	if err := s.store.ReplaceAll(ctx, items); err != nil {
		return nil, fmt.Errorf("failed to save shopping list: %w", err)
	}
	logger.Info("generated shopping list", zap.Int("items", len(items)))
	return items, nil
}

// OptimizeWithAI asks the assistant to consolidate the current list and
// estimate prices, then replaces the list with the parsed result. A
// response with no parseable item lines leaves the stored list exactly
// as it was and reports success; the caller sees the unchanged list.
func (s *Service) OptimizeWithAI(ctx context.Context) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping list: %w", err)
	}
	if len(current) == 0 {
		return nil, fmt.Errorf("no items in shopping list to optimize: %w", ErrEmptyList)
	}

	response, err := s.ai.OptimizeWithPrompt(ctx, optimizationPrompt(current))
	if err != nil {
		return nil, fmt.Errorf("failed to optimize shopping list: %w", err)
	}

	optimized := ParseOptimizedItems(response)
	if len(optimized) == 0 {
		logger.Warn("optimization response contained no parseable items, keeping current list")
		return current, nil
	}

	if err := s.store.ReplaceAll(ctx, optimized); err != nil {
		return nil, fmt.Errorf("failed to save optimized list: %w", err)
	}
	logger.Info("optimized shopping list",
		zap.Int("before", len(current)), zap.Int("after", len(optimized)))
	return optimized, nil
}

// optimizationPrompt builds the consolidation prompt from the current
// items. Prices and notes already on the list are included so the
// assistant can refine rather than invent them.
func optimizationPrompt(items []Item) string {
	var b strings.Builder
	b.WriteString("Optimize this shopping list for cost and efficiency:\n\n")
	for _, item := range items {
		b.WriteString(fmt.Sprintf("- %s (%s)", item.IngredientName, item.Quantity))
		if item.EstimatedPrice != nil {
			b.WriteString(fmt.Sprintf(", about $%.2f", *item.EstimatedPrice))
		}
		b.WriteString("\n")
	}
	b.WriteString(`
Consolidate duplicate or similar items, suggest sensible quantities, and estimate a realistic price for each item.
Assign every item to one of these sections: Produce, Dairy, Meat, Pantry, Frozen, Bakery, Other.

Respond with one line per item in exactly this format:
Item: [name] | Quantity: [amount] | Price: $[price] | Section: [section] | Notes: [brief note]`)
	return b.String()
}

// ScanAvailable asks the assistant what ingredients are already at home
// and marks matching shopping items. Matching is a case-insensitive
// substring check in both directions, so "tomato" marks "Tomatoes" and
// vice versa. Items no longer detected are never unmarked.
func (s *Service) ScanAvailable(ctx context.Context) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping list: %w", err)
	}
	if len(current) == 0 {
		return nil, fmt.Errorf("no items in shopping list to scan: %w", ErrEmptyList)
	}

	analysis, err := s.ai.AnalyzeAvailableIngredients(ctx, availabilityPrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze available ingredients: %w", err)
	}

	available := parseAvailableNames(analysis)
	marked := 0
	for i, item := range current {
		if item.AvailableAtHome || !matchesAny(item.IngredientName, available) {
			continue
		}
		if err := s.store.SetAvailableAtHome(ctx, item.ID, true); err != nil {
			return nil, err
		}
		current[i].AvailableAtHome = true
		marked++
	}

	logger.Info("availability scan complete",
		zap.Int("detected", len(available)), zap.Int("marked", marked))
	return current, nil
}

const availabilityPrompt = `Analyze the provided fridge and pantry photos and identify every food ingredient you can see.

Respond with one line per ingredient in this format:
[ingredient name] | [approximate quantity] | [freshness]`

// matchesAny reports whether the item name contains, or is contained
// by, any detected ingredient name.
func matchesAny(itemName string, available []string) bool {
	name := strings.ToLower(strings.TrimSpace(itemName))
	if name == "" {
		return false
	}
	for _, candidate := range available {
		if strings.Contains(name, candidate) || strings.Contains(candidate, name) {
			return true
		}
	}
	return false
}

// List returns the current shopping list.
func (s *Service) List(ctx context.Context) ([]Item, error) {
	return s.store.List(ctx)
}

// Add appends a manually entered item, defaulting its section to Other.
func (s *Service) Add(ctx context.Context, name, quantity, section string) (Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Item{}, errors.New("ingredient name is required")
	}
	if section == "" {
		section = SectionOther
	}
	item := Item{
		ID:             uuid.NewString(),
		IngredientName: name,
		Quantity:       strings.TrimSpace(quantity),
		Section:        section,
	}
	if err := s.store.Insert(ctx, item); err != nil {
		return Item{}, err
	}
	return item, nil
}

// Remove deletes one item.
func (s *Service) Remove(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// ToggleChecked flips the checked state of one item.
func (s *Service) ToggleChecked(ctx context.Context, id string) error {
	items, err := s.store.List(ctx)
	if err != nil {
		return err
	}
	for _, item := range items {
		if item.ID == id {
			return s.store.SetChecked(ctx, id, !item.Checked)
		}
	}
	return fmt.Errorf("shopping item %s not found", id)
}

// SetPrice records a manually entered price estimate for one item.
func (s *Service) SetPrice(ctx context.Context, id string, price float64) error {
	if price < 0 {
		return fmt.Errorf("price must not be negative, got %.2f", price)
	}
	items, err := s.store.List(ctx)
	if err != nil {
		return err
	}
	for _, item := range items {
		if item.ID == id {
			return s.store.SetPrice(ctx, id, price)
		}
	}
	return fmt.Errorf("shopping item %s not found", id)
}

// ClearChecked removes every checked item from the list.
func (s *Service) ClearChecked(ctx context.Context) error {
	return s.store.DeleteChecked(ctx)
}
