package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"mealmate/internal/logger"
)

// Service builds the application's prompts and runs them against a
// Completer. Each method carries the temperature, token budget, and
// empty-response fallback that suits its task; none of them retry —
// that decision belongs to the caller.
type Service struct {
	completer Completer
	timeout   time.Duration
}

// NewService creates a new Service. A non-positive timeout falls back
// to DefaultTimeout per call.
func NewService(completer Completer, timeout time.Duration) *Service {
	return &Service{completer: completer, timeout: timeout}
}

// GenerateWeeklyPlan asks for a balanced 7-day meal plan honoring the
// given preferences. Preference keys are sorted so the prompt is stable.
func (s *Service) GenerateWeeklyPlan(ctx context.Context, preferences map[string]string) (string, error) {
	var b strings.Builder
	b.WriteString("Generate a weekly meal plan with the following preferences:\n")
	keys := make([]string, 0, len(preferences))
	for k := range preferences {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %s\n", k, preferences[k])
	}
	b.WriteString("\nProvide a balanced meal plan for breakfast, lunch, and dinner for 7 days. ")
	b.WriteString("Format the response as a clear weekly schedule.")

	logger.Debug("generating weekly plan", zap.Int("preferences", len(preferences)))
	return s.completer.Complete(ctx, Request{
		System:      "You are a helpful meal planning assistant.",
		User:        b.String(),
		Temperature: 0.7,
		MaxTokens:   2048,
		Timeout:     s.timeout,
		Fallback:    "No plan generated",
	})
}

// GenerateRecipeSummary produces a short description of a recipe.
func (s *Service) GenerateRecipeSummary(ctx context.Context, title string, ingredients []string) (string, error) {
	prompt := fmt.Sprintf(`Create a brief, engaging summary for this recipe:
Title: %s
Ingredients: %s

Provide a 2-3 sentence description highlighting key flavors and appeal.`, title, strings.Join(ingredients, ", "))

	logger.Debug("generating recipe summary", zap.String("title", title))
	return s.completer.Complete(ctx, Request{
		System:      "You are a helpful culinary assistant.",
		User:        prompt,
		Temperature: 0.7,
		MaxTokens:   500,
		Timeout:     s.timeout,
		Fallback:    "No summary generated",
	})
}

// OptimizeShoppingList asks for the list to be grouped by store section.
func (s *Service) OptimizeShoppingList(ctx context.Context, items []string) (string, error) {
	prompt := fmt.Sprintf(`Optimize this shopping list by grouping items by store section:
%s

Group items into: Produce, Dairy, Meat, Pantry, Frozen, Bakery, Other`, strings.Join(items, "\n"))

	logger.Debug("optimizing shopping list", zap.Int("items", len(items)))
	return s.completer.Complete(ctx, Request{
		System:      "You are a helpful shopping assistant.",
		User:        prompt,
		Temperature: 0.7,
		MaxTokens:   1000,
		Timeout:     s.timeout,
		Fallback:    "No optimization generated",
	})
}

// OptimizeWithPrompt runs a caller-built consolidation prompt. The low
// temperature favors deterministic, parseable output.
func (s *Service) OptimizeWithPrompt(ctx context.Context, prompt string) (string, error) {
	return s.completer.Complete(ctx, Request{
		System:      "You are an expert grocery shopping optimizer and meal planning assistant.",
		User:        prompt,
		Temperature: 0.3,
		MaxTokens:   2048,
		Timeout:     s.timeout,
		Fallback:    "No optimization suggestions available",
	})
}

// AnalyzeAvailableIngredients runs an ingredient-identification prompt.
func (s *Service) AnalyzeAvailableIngredients(ctx context.Context, prompt string) (string, error) {
	return s.completer.Complete(ctx, Request{
		System:      "You are an expert food recognition and inventory management assistant. Analyze images of fridges and pantries to identify available ingredients.",
		User:        prompt,
		Temperature: 0.2,
		MaxTokens:   1024,
		Timeout:     s.timeout,
		Fallback:    "No ingredients identified",
	})
}

// SuggestSubstitution proposes a replacement for an ingredient,
// optionally constrained to a dietary style.
func (s *Service) SuggestSubstitution(ctx context.Context, ingredient, dietary string) (string, error) {
	var prompt string
	if dietary != "" {
		prompt = fmt.Sprintf("Suggest a %s-friendly substitution for: %s", dietary, ingredient)
	} else {
		prompt = fmt.Sprintf("Suggest a healthy substitution for: %s", ingredient)
	}

	logger.Debug("suggesting substitution", zap.String("ingredient", ingredient))
	return s.completer.Complete(ctx, Request{
		System:      "You are a helpful nutrition assistant.",
		User:        prompt,
		Temperature: 0.7,
		MaxTokens:   500,
		Timeout:     s.timeout,
		Fallback:    "No substitution found",
	})
}

// GenerateInstantMealPlan builds a same-day plan from what is already at home.
func (s *Service) GenerateInstantMealPlan(ctx context.Context, availableIngredients []string) (string, error) {
	prompt := fmt.Sprintf(`Create an instant meal plan for today (breakfast, lunch, dinner) using ONLY these available ingredients:

AVAILABLE INGREDIENTS:
%s

REQUIREMENTS:
- Use only ingredients from the list above
- Create balanced, nutritious meals
- Provide quick, simple recipes (15-30 minutes max)
- Suggest substitutions if certain ingredients are missing
- Include cooking instructions and estimated prep/cook times

FORMAT:
BREAKFAST:
- Recipe Name
- Ingredients used: [list]
- Instructions: [brief steps]
- Prep time: X minutes

LUNCH:
[same format]

DINNER:
[same format]

SHOPPING NOTES:
[Any critical missing ingredients needed for better meals]`, strings.Join(availableIngredients, "\n"))

	logger.Debug("generating instant meal plan", zap.Int("ingredients", len(availableIngredients)))
	return s.completer.Complete(ctx, Request{
		System:      "You are an expert chef and meal planning assistant. Create practical, delicious meals from available ingredients.",
		User:        prompt,
		Temperature: 0.7,
		MaxTokens:   2048,
		Timeout:     s.timeout,
		Fallback:    "Unable to generate meal plan",
	})
}
