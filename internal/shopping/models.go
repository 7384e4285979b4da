package shopping

// SectionOther is the default store section for items the AI did not
// place anywhere.
const SectionOther = "Other"

// Sections lists the store sections the AI is asked to group items
// into, in the order a response is scanned for them.
var Sections = []string{"Produce", "Dairy", "Meat", "Pantry", "Frozen", "Bakery"}

// Item is a single shopping-list entry. Quantity is free text and may
// join several source quantities ("2 cups, 1 cup"). EstimatedPrice is
// nil until an optimization pass supplies one.
type Item struct {
	ID              string
	IngredientName  string
	Quantity        string
	Section         string
	EstimatedPrice  *float64
	Notes           string
	Checked         bool
	AvailableAtHome bool
}
