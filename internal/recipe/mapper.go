package recipe

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Normalize converts a remote payload into the domain Recipe. Nutrient
// totals come from the flat nutrient list by exact name match and
// default to zero when absent; servings default to 1.
func Normalize(r *RemoteRecipe) Recipe {
	servings := r.Servings
	if servings < 1 {
		servings = 1
	}
	readyIn := r.ReadyInMinutes
	if readyIn < 0 {
		readyIn = 0
	}

	ingredients := make([]Ingredient, 0, len(r.ExtendedIngredients))
	for _, ing := range r.ExtendedIngredients {
		ingredients = append(ingredients, Ingredient{
			Name:     ing.Name,
			Quantity: ing.Original,
			Section:  ing.Aisle,
		})
	}

	var steps []string
	if len(r.AnalyzedInstructions) > 0 {
		for _, s := range r.AnalyzedInstructions[0].Steps {
			steps = append(steps, s.Step)
		}
	}
	if len(steps) == 0 && strings.TrimSpace(r.Instructions) != "" {
		steps = stepsFromHTML(r.Instructions)
	}

	return Recipe{
		ID:             strconv.Itoa(r.ID),
		Title:          r.Title,
		ImageURL:       r.Image,
		Servings:       servings,
		ReadyInMinutes: readyIn,
		Cuisines:       r.Cuisines,
		Diets:          r.Diets,
		Ingredients:    ingredients,
		Steps:          steps,
		Nutrients: Nutrients{
			Calories: int(nutrientAmount(r.Nutrition, "Calories")),
			Protein:  nutrientAmount(r.Nutrition, "Protein"),
			Carbs:    nutrientAmount(r.Nutrition, "Carbohydrates"),
			Fat:      nutrientAmount(r.Nutrition, "Fat"),
		},
	}
}

func nutrientAmount(n *RemoteNutrition, name string) float64 {
	if n == nil {
		return 0
	}
	for _, nutrient := range n.Nutrients {
		if nutrient.Name == name {
			return nutrient.Amount
		}
	}
	return 0
}

// stepsFromHTML extracts instruction steps from the raw HTML
// instructions field. Some recipes ship only this field, with steps as
// list items or paragraphs.
func stepsFromHTML(html string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var steps []string
	collect := func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			steps = append(steps, text)
		}
	}

	doc.Find("li").Each(collect)
	if len(steps) == 0 {
		doc.Find("p").Each(collect)
	}
	if len(steps) == 0 {
		if text := strings.TrimSpace(doc.Text()); text != "" {
			steps = append(steps, text)
		}
	}
	return steps
}
