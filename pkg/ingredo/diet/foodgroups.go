package diet

import "strings"

// FoodGroups holds the fixed food-group name sets used to derive a tag from a
// reference-database record. Names are compared case-insensitively.
type FoodGroups struct {
	Vegan     map[string]struct{}
	NonVegan  map[string]struct{}
	Aquatic   map[string]struct{}
	Dairy     map[string]struct{}
	Egg       map[string]struct{}
	Uncertain map[string]struct{}
}

// DefaultFoodGroups returns the group sets matching the FooDB food_group
// vocabulary of the bundled dataset.
func DefaultFoodGroups() FoodGroups {
	return FoodGroups{
		Vegan: groupSet(
			"Vegetables", "Fruits", "Herbs and spices", "Nuts", "Pulses",
			"Cereals and cereal products", "Soy", "Gourds", "Teas",
			"Coffee and coffee products", "Cocoa and cocoa products",
		),
		NonVegan:  groupSet("Animal foods"),
		Aquatic:   groupSet("Aquatic foods"),
		Dairy:     groupSet("Milk and milk products"),
		Egg:       groupSet("Eggs"),
		Uncertain: groupSet("Animal & Plant Derived"),
	}
}

// TagFor derives a tag from a food group. Animal and aquatic groups are checked
// before plant groups so that a misfiled record errs on the unsafe side.
func (g FoodGroups) TagFor(group string) (Tag, bool) {
	key := strings.ToLower(strings.TrimSpace(group))
	if key == "" {
		return "", false
	}
	switch {
	case has(g.NonVegan, key):
		return TagAnimal, true
	case has(g.Aquatic, key):
		return TagPescatarian, true
	case has(g.Dairy, key):
		return TagVegetarian, true
	case has(g.Egg, key):
		return TagEggetarian, true
	case has(g.Uncertain, key):
		return TagAmbiguous, true
	case has(g.Vegan, key):
		return TagVegan, true
	}
	return "", false
}

func groupSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = struct{}{}
	}
	return set
}

func has(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}
