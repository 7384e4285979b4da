package recipe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"mealmate/internal/config"
)

const spoonacularBaseURL = "https://api.spoonacular.com"

// ErrQuotaExceeded marks a remote failure caused by API quota or
// rate limiting (HTTP 402 or a quota message in the response body).
var ErrQuotaExceeded = errors.New("api quota exceeded")

// RemoteRecipe is the Spoonacular recipe payload.
type RemoteRecipe struct {
	ID                   int                  `json:"id"`
	Title                string               `json:"title"`
	Image                string               `json:"image"`
	Servings             int                  `json:"servings"`
	ReadyInMinutes       int                  `json:"readyInMinutes"`
	Cuisines             []string             `json:"cuisines"`
	Diets                []string             `json:"diets"`
	Instructions         string               `json:"instructions"`
	ExtendedIngredients  []RemoteIngredient   `json:"extendedIngredients"`
	AnalyzedInstructions []RemoteInstructions `json:"analyzedInstructions"`
	Nutrition            *RemoteNutrition     `json:"nutrition"`
}

// RemoteIngredient is a single ingredient in a Spoonacular recipe.
type RemoteIngredient struct {
	Name     string `json:"name"`
	Original string `json:"original"`
	Aisle    string `json:"aisle"`
}

// RemoteInstructions is one instruction section with its steps.
type RemoteInstructions struct {
	Name  string       `json:"name"`
	Steps []RemoteStep `json:"steps"`
}

// RemoteStep is a single instruction step.
type RemoteStep struct {
	Number int    `json:"number"`
	Step   string `json:"step"`
}

// RemoteNutrition is the flat nutrient list attached to a recipe.
type RemoteNutrition struct {
	Nutrients []RemoteNutrient `json:"nutrients"`
}

// RemoteNutrient is one {name, amount, unit} nutrient triple.
type RemoteNutrient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

type searchResponse struct {
	Results []RemoteRecipe `json:"results"`
}

// API is the remote recipe search/detail surface consumed by Service.
type API interface {
	Search(ctx context.Context, query, diet string, intolerances []string) ([]RemoteRecipe, error)
	GetByID(ctx context.Context, id string) (*RemoteRecipe, error)
}

// SpoonacularClient talks to the Spoonacular REST API.
type SpoonacularClient struct {
	client *resty.Client
	apiKey string
}

// NewSpoonacularClient creates a new Spoonacular API client.
func NewSpoonacularClient(cfg *config.Config) *SpoonacularClient {
	return &SpoonacularClient{
		client: resty.New().SetBaseURL(spoonacularBaseURL),
		apiKey: cfg.SpoonacularAPIKey,
	}
}

// Search queries recipes by text, with optional diet and intolerance
// filters. Nutrition data is always requested so cached results stay
// usable for aggregation.
func (c *SpoonacularClient) Search(ctx context.Context, query, diet string, intolerances []string) ([]RemoteRecipe, error) {
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("query", query).
		SetQueryParam("addRecipeInformation", "true").
		SetQueryParam("addRecipeNutrition", "true").
		SetQueryParam("number", "20").
		SetQueryParam("apiKey", c.apiKey)
	if diet != "" {
		req.SetQueryParam("diet", diet)
	}
	if len(intolerances) > 0 {
		req.SetQueryParam("intolerances", strings.Join(intolerances, ","))
	}

	var out searchResponse
	resp, err := req.SetResult(&out).Get("/recipes/complexSearch")
	if err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	if resp.IsError() {
		return nil, remoteError(resp)
	}

	return out.Results, nil
}

// GetByID fetches full recipe detail, including nutrition.
func (c *SpoonacularClient) GetByID(ctx context.Context, id string) (*RemoteRecipe, error) {
	if _, err := strconv.Atoi(id); err != nil {
		return nil, fmt.Errorf("invalid recipe id %q: %w", id, err)
	}

	var out RemoteRecipe
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("includeNutrition", "true").
		SetQueryParam("apiKey", c.apiKey).
		SetResult(&out).
		Get(fmt.Sprintf("/recipes/%s/information", id))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recipe %s: %w", id, err)
	}
	if resp.IsError() {
		return nil, remoteError(resp)
	}

	return &out, nil
}

// remoteError translates an HTTP-level failure, detecting the quota
// signal Spoonacular uses (status 402, or quota wording in the body).
func remoteError(resp *resty.Response) error {
	body := resp.String()
	if resp.StatusCode() == http.StatusPaymentRequired ||
		strings.Contains(strings.ToLower(body), "quota") ||
		strings.Contains(body, "daily points limit") {
		return fmt.Errorf("spoonacular api error: status=%d body=%s: %w", resp.StatusCode(), body, ErrQuotaExceeded)
	}
	return fmt.Errorf("spoonacular api error: status=%d body=%s", resp.StatusCode(), body)
}
