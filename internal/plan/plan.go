package plan

// Slot identifies a meal slot within a day.
type Slot string

const (
	SlotBreakfast Slot = "BREAKFAST"
	SlotLunch     Slot = "LUNCH"
	SlotDinner    Slot = "DINNER"
)

// Slots lists the meal slots in day order.
var Slots = []Slot{SlotBreakfast, SlotLunch, SlotDinner}

// Valid reports whether the slot is one of the known meal slots.
func (s Slot) Valid() bool {
	switch s {
	case SlotBreakfast, SlotLunch, SlotDinner:
		return true
	}
	return false
}

// Entry is a single meal-plan entry. RecipeID is a plain reference into
// the recipe cache with no enforced integrity; it may dangle, and the
// aggregator treats a lookup miss as an explicit case. RecipeName and
// RecipeImageURL are denormalized for display.
type Entry struct {
	ID             string
	RecipeID       string
	DayOfWeek      int // 1 = Monday, 7 = Sunday
	Slot           Slot
	RecipeName     string
	RecipeImageURL string
}
