package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"mealmate/internal/app"
	"mealmate/internal/config"
	"mealmate/internal/llm"
	"mealmate/internal/logger"
	"mealmate/internal/plan"
	"mealmate/internal/recipe"
	"mealmate/internal/shopping"
)

func main() {
	// A missing .env file is fine; keys come from the environment then.
	_ = godotenv.Load()

	logger.Init()
	defer logger.Sync()

	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer application.Close()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "search":
		searchCmd := flag.NewFlagSet("search", flag.ExitOnError)
		diet := searchCmd.String("diet", "", "Diet filter, e.g. vegetarian")
		intolerances := searchCmd.String("intolerances", "", "Comma-separated intolerances")
		searchCmd.Parse(os.Args[2:])
		if searchCmd.NArg() < 1 {
			log.Fatal("Usage: mealmate search [flags] <query>")
		}

		results, err := application.Recipes.Search(ctx, strings.Join(searchCmd.Args(), " "), *diet, splitList(*intolerances))
		if err != nil {
			log.Fatalf("Search failed: %v", llm.UserMessage(err))
		}
		for _, rec := range results {
			fmt.Printf("%s  %s (%d min, serves %d)\n", rec.ID, rec.Title, rec.ReadyInMinutes, rec.Servings)
		}

	case "recipe":
		if len(os.Args) < 3 {
			log.Fatal("Usage: mealmate recipe <id>")
		}
		rec, err := application.Recipes.Fetch(ctx, os.Args[2])
		if err != nil {
			log.Fatalf("Failed to fetch recipe: %v", err)
		}
		printRecipe(rec)

	case "favorite":
		if len(os.Args) < 3 {
			log.Fatal("Usage: mealmate favorite <id>")
		}
		if err := application.Recipes.ToggleFavorite(ctx, os.Args[2]); err != nil {
			log.Fatalf("Failed to toggle favorite: %v", err)
		}

	case "favorites":
		recs, err := application.Recipes.Favorites(ctx)
		if err != nil {
			log.Fatalf("Failed to list favorites: %v", err)
		}
		for _, rec := range recs {
			fmt.Printf("%s  %s\n", rec.ID, rec.Title)
		}

	case "add-meal":
		addCmd := flag.NewFlagSet("add-meal", flag.ExitOnError)
		day := addCmd.Int("day", 1, "Day of week, 1 (Monday) to 7 (Sunday)")
		slot := addCmd.String("slot", "DINNER", "Meal slot: BREAKFAST, LUNCH or DINNER")
		addCmd.Parse(os.Args[2:])
		if addCmd.NArg() < 1 {
			log.Fatal("Usage: mealmate add-meal [flags] <recipe-id>")
		}

		if err := application.Plans.AddMeal(ctx, addCmd.Arg(0), *day, plan.Slot(strings.ToUpper(*slot))); err != nil {
			log.Fatalf("Failed to add meal: %v", err)
		}

	case "plan-week":
		planCmd := flag.NewFlagSet("plan-week", flag.ExitOnError)
		diet := planCmd.String("diet", "", "Dietary preference for the generated plan")
		cuisine := planCmd.String("cuisine", "", "Preferred cuisine")
		planCmd.Parse(os.Args[2:])

		prefs := map[string]string{}
		if *diet != "" {
			prefs["diet"] = *diet
		}
		if *cuisine != "" {
			prefs["cuisine"] = *cuisine
		}

		text, err := application.Plans.GenerateWeekly(ctx, prefs)
		if err != nil {
			log.Fatalf("Failed to generate weekly plan: %v", llm.UserMessage(err))
		}
		fmt.Println(text)

	case "show-plan":
		entries, err := application.Plans.Weekly(ctx)
		if err != nil {
			log.Fatalf("Failed to load meal plan: %v", err)
		}
		for _, e := range entries {
			fmt.Printf("Day %d  %-9s  %s\n", e.DayOfWeek, e.Slot, e.RecipeName)
		}

	case "clear-plan":
		if err := application.Plans.Clear(ctx); err != nil {
			log.Fatalf("Failed to clear meal plan: %v", err)
		}

	case "shopping-generate":
		items, err := application.Shopping.GenerateFromPlan(ctx)
		if err != nil {
			log.Fatalf("Failed to generate shopping list: %v", llm.UserMessage(err))
		}
		printItems(items)

	case "shopping-optimize":
		items, err := application.Shopping.OptimizeWithAI(ctx)
		if err != nil {
			log.Fatalf("Failed to optimize shopping list: %v", llm.UserMessage(err))
		}
		printItems(items)

	case "shopping-scan":
		items, err := application.Shopping.ScanAvailable(ctx)
		if err != nil {
			log.Fatalf("Failed to scan available ingredients: %v", llm.UserMessage(err))
		}
		printItems(items)

	case "shopping-show":
		items, err := application.Shopping.List(ctx)
		if err != nil {
			log.Fatalf("Failed to load shopping list: %v", err)
		}
		printItems(items)

	case "shopping-add":
		addCmd := flag.NewFlagSet("shopping-add", flag.ExitOnError)
		quantity := addCmd.String("quantity", "", "Free-text quantity")
		section := addCmd.String("section", "", "Store section")
		addCmd.Parse(os.Args[2:])
		if addCmd.NArg() < 1 {
			log.Fatal("Usage: mealmate shopping-add [flags] <name>")
		}

		item, err := application.Shopping.Add(ctx, strings.Join(addCmd.Args(), " "), *quantity, *section)
		if err != nil {
			log.Fatalf("Failed to add shopping item: %v", err)
		}
		fmt.Printf("Added %s (%s)\n", item.IngredientName, item.ID)

	case "shopping-check":
		if len(os.Args) < 3 {
			log.Fatal("Usage: mealmate shopping-check <item-id>")
		}
		if err := application.Shopping.ToggleChecked(ctx, os.Args[2]); err != nil {
			log.Fatalf("Failed to toggle item: %v", err)
		}

	case "shopping-price":
		if len(os.Args) < 4 {
			log.Fatal("Usage: mealmate shopping-price <item-id> <price>")
		}
		price, err := strconv.ParseFloat(os.Args[3], 64)
		if err != nil {
			log.Fatalf("Invalid price %q: %v", os.Args[3], err)
		}
		if err := application.Shopping.SetPrice(ctx, os.Args[2], price); err != nil {
			log.Fatalf("Failed to set item price: %v", err)
		}

	case "shopping-clear-checked":
		if err := application.Shopping.ClearChecked(ctx); err != nil {
			log.Fatalf("Failed to clear checked items: %v", err)
		}

	case "substitute":
		subCmd := flag.NewFlagSet("substitute", flag.ExitOnError)
		dietary := subCmd.String("dietary", "", "Dietary constraint, e.g. vegan")
		subCmd.Parse(os.Args[2:])
		if subCmd.NArg() < 1 {
			log.Fatal("Usage: mealmate substitute [flags] <ingredient>")
		}

		suggestion, err := application.AI.SuggestSubstitution(ctx, strings.Join(subCmd.Args(), " "), *dietary)
		if err != nil {
			log.Fatalf("Failed to suggest substitution: %v", llm.UserMessage(err))
		}
		fmt.Println(suggestion)

	case "summarize":
		if len(os.Args) < 3 {
			log.Fatal("Usage: mealmate summarize <recipe-id>")
		}
		rec, err := application.Recipes.Fetch(ctx, os.Args[2])
		if err != nil {
			log.Fatalf("Failed to fetch recipe: %v", err)
		}
		names := make([]string, 0, len(rec.Ingredients))
		for _, ing := range rec.Ingredients {
			names = append(names, ing.Name)
		}
		summary, err := application.AI.GenerateRecipeSummary(ctx, rec.Title, names)
		if err != nil {
			log.Fatalf("Failed to summarize recipe: %v", llm.UserMessage(err))
		}
		fmt.Println(summary)

	case "instant-meal":
		if len(os.Args) < 3 {
			log.Fatal("Usage: mealmate instant-meal <ingredient> [ingredient...]")
		}
		text, err := application.AI.GenerateInstantMealPlan(ctx, os.Args[2:])
		if err != nil {
			log.Fatalf("Failed to generate instant meal plan: %v", llm.UserMessage(err))
		}
		fmt.Println(text)

	case "cache-cleanup":
		evicted, err := application.CleanupCache(ctx)
		if err != nil {
			log.Fatalf("Cache cleanup failed: %v", err)
		}
		fmt.Printf("Successfully removed %d old cached recipes.\n", evicted)

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printRecipe(rec *recipe.Recipe) {
	fmt.Printf("%s (serves %d, %d min)\n\n", rec.Title, rec.Servings, rec.ReadyInMinutes)
	fmt.Println("Ingredients:")
	for _, ing := range rec.Ingredients {
		fmt.Printf("  - %s (%s)\n", ing.Name, ing.Quantity)
	}
	if len(rec.Steps) > 0 {
		fmt.Println("\nSteps:")
		for i, step := range rec.Steps {
			fmt.Printf("  %d. %s\n", i+1, step)
		}
	}
	n := rec.Nutrients
	fmt.Printf("\nPer serving: %d kcal, %.1fg protein, %.1fg carbs, %.1fg fat\n",
		n.Calories, n.Protein, n.Carbs, n.Fat)
}

func printItems(items []shopping.Item) {
	for _, item := range items {
		mark := " "
		if item.Checked {
			mark = "x"
		}
		line := fmt.Sprintf("[%s] %-10s %s", mark, item.Section, item.IngredientName)
		if item.Quantity != "" {
			line += fmt.Sprintf(" (%s)", item.Quantity)
		}
		if item.EstimatedPrice != nil {
			line += fmt.Sprintf("  ~$%.2f", *item.EstimatedPrice)
		}
		if item.AvailableAtHome {
			line += "  [at home]"
		}
		fmt.Println(line)
	}
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func printUsage() {
	fmt.Println("Usage: mealmate <command> [arguments]")
	fmt.Println("\nRecipes:")
	fmt.Println("  search [flags] <query>    Search recipes and cache the results")
	fmt.Println("  recipe <id>               Show a recipe, fetching it if needed")
	fmt.Println("  favorite <id>             Toggle a cached recipe's favorite flag")
	fmt.Println("  favorites                 List favorite recipes")
	fmt.Println("\nMeal plan:")
	fmt.Println("  add-meal [flags] <id>     Add a recipe to the weekly plan")
	fmt.Println("  plan-week [flags]         Generate a weekly plan from cached recipes")
	fmt.Println("  show-plan                 Show the current weekly plan")
	fmt.Println("  clear-plan                Remove every planned meal")
	fmt.Println("\nShopping list:")
	fmt.Println("  shopping-generate         Build the shopping list from the meal plan")
	fmt.Println("  shopping-optimize         Consolidate the list and estimate prices")
	fmt.Println("  shopping-scan             Mark items already available at home")
	fmt.Println("  shopping-show             Show the shopping list")
	fmt.Println("  shopping-add [flags] <n>  Add an item manually")
	fmt.Println("  shopping-check <item-id>  Toggle an item's checked state")
	fmt.Println("  shopping-price <id> <p>   Set an item's estimated price")
	fmt.Println("  shopping-clear-checked    Remove checked items")
	fmt.Println("\nAI helpers:")
	fmt.Println("  substitute [flags] <ing>  Suggest an ingredient substitution")
	fmt.Println("  summarize <recipe-id>     Summarize a recipe")
	fmt.Println("  instant-meal <ing>...     Plan a meal from on-hand ingredients")
	fmt.Println("\nMaintenance:")
	fmt.Println("  cache-cleanup             Evict old non-favorite cached recipes")
}
