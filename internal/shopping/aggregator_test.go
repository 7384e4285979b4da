package shopping

import (
	"context"
	"errors"
	"testing"

	"mealmate/internal/plan"
	"mealmate/internal/recipe"
)

type mockRecipeSource struct {
	cache      map[string]*recipe.Recipe
	fetched    map[string]*recipe.Recipe
	fetchErr   error
	fetchCalls []string
}

func (m *mockRecipeSource) Cached(ctx context.Context, id string) (*recipe.Recipe, error) {
	return m.cache[id], nil
}

func (m *mockRecipeSource) Fetch(ctx context.Context, id string) (*recipe.Recipe, error) {
	m.fetchCalls = append(m.fetchCalls, id)
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	if rec, ok := m.fetched[id]; ok {
		if m.cache == nil {
			m.cache = map[string]*recipe.Recipe{}
		}
		m.cache[id] = rec
		return rec, nil
	}
	return nil, errors.New("recipe not found")
}

func entry(recipeID string) plan.Entry {
	return plan.Entry{ID: "entry-" + recipeID, RecipeID: recipeID, DayOfWeek: 1, Slot: plan.SlotDinner}
}

func TestAggregate(t *testing.T) {
	t.Run("EmptyPlanFails", func(t *testing.T) {
		agg := NewAggregator(&mockRecipeSource{})
		_, _, err := agg.Aggregate(context.Background(), nil)
		if !errors.Is(err, ErrEmptyPlan) {
			t.Fatalf("expected ErrEmptyPlan, got %v", err)
		}
	})

	t.Run("DeduplicatesByNormalizedName", func(t *testing.T) {
		source := &mockRecipeSource{cache: map[string]*recipe.Recipe{
			"1": {ID: "1", Ingredients: []recipe.Ingredient{
				{Name: "Tomato ", Quantity: "2 cups"},
				{Name: "Onion", Quantity: "1"},
			}},
			"2": {ID: "2", Ingredients: []recipe.Ingredient{
				{Name: "tomato", Quantity: "1 cup"},
			}},
		}}
		agg := NewAggregator(source)

		quantities, order, err := agg.Aggregate(context.Background(), []plan.Entry{entry("1"), entry("2")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(quantities) != 2 {
			t.Fatalf("expected 2 unique ingredients, got %d: %v", len(quantities), quantities)
		}
		got := quantities["tomato"]
		if len(got) != 2 || got[0] != "2 cups" || got[1] != "1 cup" {
			t.Errorf("expected tomato quantities [2 cups, 1 cup], got %v", got)
		}
		if len(order) != 2 || order[0] != "tomato" || order[1] != "onion" {
			t.Errorf("expected first-seen order [tomato onion], got %v", order)
		}
	})

	t.Run("FetchesMissingRecipe", func(t *testing.T) {
		source := &mockRecipeSource{fetched: map[string]*recipe.Recipe{
			"5": {ID: "5", Ingredients: []recipe.Ingredient{{Name: "Rice", Quantity: "500g"}}},
		}}
		agg := NewAggregator(source)

		quantities, _, err := agg.Aggregate(context.Background(), []plan.Entry{entry("5")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(source.fetchCalls) != 1 || source.fetchCalls[0] != "5" {
			t.Errorf("expected fetch of recipe 5, got %v", source.fetchCalls)
		}
		if _, ok := quantities["rice"]; !ok {
			t.Errorf("expected rice from fetched recipe, got %v", quantities)
		}
	})

	t.Run("FetchesIncompleteCachedRecipe", func(t *testing.T) {
		source := &mockRecipeSource{
			cache: map[string]*recipe.Recipe{"7": {ID: "7"}},
			fetched: map[string]*recipe.Recipe{
				"7": {ID: "7", Ingredients: []recipe.Ingredient{{Name: "Flour", Quantity: "1kg"}}},
			},
		}
		agg := NewAggregator(source)

		quantities, _, err := agg.Aggregate(context.Background(), []plan.Entry{entry("7")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := quantities["flour"]; !ok {
			t.Errorf("expected incomplete cache entry to be refetched, got %v", quantities)
		}
	})

	t.Run("FailedFetchSkipsEntry", func(t *testing.T) {
		source := &mockRecipeSource{
			cache: map[string]*recipe.Recipe{
				"1": {ID: "1", Ingredients: []recipe.Ingredient{{Name: "Egg", Quantity: "2"}}},
			},
			fetchErr: errors.New("network down"),
		}
		agg := NewAggregator(source)

		quantities, _, err := agg.Aggregate(context.Background(), []plan.Entry{entry("1"), entry("missing")})
		if err != nil {
			t.Fatalf("expected partial aggregation to succeed, got %v", err)
		}
		if len(quantities) != 1 {
			t.Errorf("expected only the resolvable recipe's ingredients, got %v", quantities)
		}
	})

	t.Run("NoIngredientsAnywhereFails", func(t *testing.T) {
		source := &mockRecipeSource{fetchErr: errors.New("network down")}
		agg := NewAggregator(source)

		_, _, err := agg.Aggregate(context.Background(), []plan.Entry{entry("1"), entry("2")})
		if !errors.Is(err, ErrNoIngredients) {
			t.Fatalf("expected ErrNoIngredients, got %v", err)
		}
	})

	t.Run("BlankIngredientNamesSkipped", func(t *testing.T) {
		source := &mockRecipeSource{cache: map[string]*recipe.Recipe{
			"1": {ID: "1", Ingredients: []recipe.Ingredient{
				{Name: "  ", Quantity: "1"},
				{Name: "Salt", Quantity: "a pinch"},
			}},
		}}
		agg := NewAggregator(source)

		quantities, order, err := agg.Aggregate(context.Background(), []plan.Entry{entry("1")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(order) != 1 || order[0] != "salt" {
			t.Errorf("expected only salt, got %v", order)
		}
		if len(quantities) != 1 {
			t.Errorf("expected blank name skipped, got %v", quantities)
		}
	})
}
