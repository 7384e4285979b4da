package recipe

import "time"

// Recipe is the normalized domain form of a recipe, as cached locally.
type Recipe struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	ImageURL       string       `json:"image_url,omitempty"`
	Servings       int          `json:"servings"`
	ReadyInMinutes int          `json:"ready_in_minutes"`
	Cuisines       []string     `json:"cuisines"`
	Diets          []string     `json:"diets"`
	Ingredients    []Ingredient `json:"ingredients"`
	Steps          []string     `json:"steps"`
	Nutrients      Nutrients    `json:"nutrients"`
	IsFavorite     bool         `json:"-"`
	CachedAt       time.Time    `json:"-"`
}

// Ingredient is a single recipe ingredient. Quantity stays free text;
// no unit parsing happens anywhere in the pipeline.
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Section  string `json:"section,omitempty"`
}

// Nutrients is the per-recipe nutrient summary.
type Nutrients struct {
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Complete reports whether the recipe carries ingredient data. A cached
// recipe without ingredients is treated as incomplete and re-fetched
// before aggregation.
func (r *Recipe) Complete() bool {
	return len(r.Ingredients) > 0
}
