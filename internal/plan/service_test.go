package plan

import (
	"context"
	"errors"
	"testing"

	"mealmate/internal/recipe"
)

// mockRecipeSource is a mock implementation of the RecipeSource interface.
type mockRecipeSource struct {
	cached     map[string]*recipe.Recipe
	fetchErr   error
	fetchCalls []string
}

func (m *mockRecipeSource) Cached(ctx context.Context, id string) (*recipe.Recipe, error) {
	return m.cached[id], nil
}

func (m *mockRecipeSource) Fetch(ctx context.Context, id string) (*recipe.Recipe, error) {
	m.fetchCalls = append(m.fetchCalls, id)
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	rec := &recipe.Recipe{ID: id, Title: "Fetched " + id, Ingredients: []recipe.Ingredient{{Name: "salt", Quantity: "a pinch"}}}
	m.cached[id] = rec
	return rec, nil
}

func (m *mockRecipeSource) ListCached(ctx context.Context) ([]recipe.Recipe, error) {
	var out []recipe.Recipe
	for _, rec := range m.cached {
		out = append(out, *rec)
	}
	return out, nil
}

// memoryStore is an in-memory Store.
type memoryStore struct {
	entries []Entry
}

func (s *memoryStore) List(ctx context.Context) ([]Entry, error) {
	return s.entries, nil
}

func (s *memoryStore) Insert(ctx context.Context, e Entry) error {
	s.entries = append(s.entries, e)
	return nil
}

func (s *memoryStore) InsertMany(ctx context.Context, entries []Entry) error {
	s.entries = append(s.entries, entries...)
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, id string) error {
	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *memoryStore) Clear(ctx context.Context) error {
	s.entries = nil
	return nil
}

type stubPlanGenerator struct {
	text string
	err  error
}

func (g *stubPlanGenerator) GenerateWeeklyPlan(ctx context.Context, preferences map[string]string) (string, error) {
	return g.text, g.err
}

func TestAddMeal(t *testing.T) {
	ctx := context.Background()

	t.Run("FetchesIncompleteRecipeFirst", func(t *testing.T) {
		recipes := &mockRecipeSource{cached: map[string]*recipe.Recipe{
			"1": {ID: "1", Title: "Empty shell"}, // no ingredients
		}}
		store := &memoryStore{}
		svc := NewService(store, recipes, &stubPlanGenerator{})

		if err := svc.AddMeal(ctx, "1", 3, SlotDinner); err != nil {
			t.Fatalf("AddMeal failed: %v", err)
		}
		if len(recipes.fetchCalls) != 1 || recipes.fetchCalls[0] != "1" {
			t.Errorf("Expected one fetch for recipe 1, got %v", recipes.fetchCalls)
		}
		if len(store.entries) != 1 {
			t.Fatalf("Expected 1 entry, got %d", len(store.entries))
		}
		if store.entries[0].RecipeName != "Fetched 1" {
			t.Errorf("Expected denormalized title from fetched recipe, got '%s'", store.entries[0].RecipeName)
		}
	})

	t.Run("FetchFailureStillStoresEntry", func(t *testing.T) {
		recipes := &mockRecipeSource{
			cached:   map[string]*recipe.Recipe{},
			fetchErr: errors.New("network is down"),
		}
		store := &memoryStore{}
		svc := NewService(store, recipes, &stubPlanGenerator{})

		if err := svc.AddMeal(ctx, "404", 1, SlotLunch); err != nil {
			t.Fatalf("AddMeal failed: %v", err)
		}
		if len(store.entries) != 1 {
			t.Fatalf("Expected entry to be stored despite fetch failure, got %d entries", len(store.entries))
		}
		if store.entries[0].RecipeID != "404" {
			t.Errorf("Expected dangling recipe reference to be preserved, got '%s'", store.entries[0].RecipeID)
		}
		if store.entries[0].RecipeName != "" {
			t.Errorf("Expected empty denormalized title, got '%s'", store.entries[0].RecipeName)
		}
	})

	t.Run("RejectsInvalidDayAndSlot", func(t *testing.T) {
		svc := NewService(&memoryStore{}, &mockRecipeSource{cached: map[string]*recipe.Recipe{}}, &stubPlanGenerator{})

		if err := svc.AddMeal(ctx, "1", 0, SlotLunch); err == nil {
			t.Error("Expected an error for day 0")
		}
		if err := svc.AddMeal(ctx, "1", 8, SlotLunch); err == nil {
			t.Error("Expected an error for day 8")
		}
		if err := svc.AddMeal(ctx, "1", 2, Slot("BRUNCH")); err == nil {
			t.Error("Expected an error for an unknown slot")
		}
	})
}

func TestGenerateWeekly(t *testing.T) {
	ctx := context.Background()

	t.Run("FillsAllSlots", func(t *testing.T) {
		recipes := &mockRecipeSource{cached: map[string]*recipe.Recipe{
			"1": {ID: "1", Title: "Pasta", Ingredients: []recipe.Ingredient{{Name: "pasta", Quantity: "200g"}}},
			"2": {ID: "2", Title: "Salad", Ingredients: []recipe.Ingredient{{Name: "lettuce", Quantity: "1 head"}}},
		}}
		store := &memoryStore{entries: []Entry{{ID: "stale", RecipeID: "9", DayOfWeek: 1, Slot: SlotBreakfast}}}
		svc := NewService(store, recipes, &stubPlanGenerator{text: "Monday: pasta..."})

		text, err := svc.GenerateWeekly(ctx, map[string]string{"diet": "vegetarian"})
		if err != nil {
			t.Fatalf("GenerateWeekly failed: %v", err)
		}
		if text != "Monday: pasta..." {
			t.Errorf("Expected plan text to be returned, got %q", text)
		}
		if len(store.entries) != 21 {
			t.Fatalf("Expected 21 entries (7 days x 3 slots), got %d", len(store.entries))
		}
		for _, e := range store.entries {
			if e.ID == "stale" {
				t.Fatal("Expected the previous plan to be replaced")
			}
		}
	})

	t.Run("FailsWithoutCachedRecipes", func(t *testing.T) {
		recipes := &mockRecipeSource{cached: map[string]*recipe.Recipe{}}
		svc := NewService(&memoryStore{}, recipes, &stubPlanGenerator{text: "plan"})

		if _, err := svc.GenerateWeekly(ctx, nil); err == nil {
			t.Fatal("Expected an error with an empty recipe cache")
		}
	})

	t.Run("AIFailurePropagates", func(t *testing.T) {
		recipes := &mockRecipeSource{cached: map[string]*recipe.Recipe{
			"1": {ID: "1", Title: "Pasta", Ingredients: []recipe.Ingredient{{Name: "pasta", Quantity: "200g"}}},
		}}
		store := &memoryStore{entries: []Entry{{ID: "keep"}}}
		svc := NewService(store, recipes, &stubPlanGenerator{err: errors.New("429 from upstream")})

		if _, err := svc.GenerateWeekly(ctx, nil); err == nil {
			t.Fatal("Expected the AI error to propagate")
		}
		if len(store.entries) != 1 || store.entries[0].ID != "keep" {
			t.Error("Expected the existing plan to remain untouched when generation fails")
		}
	})
}
