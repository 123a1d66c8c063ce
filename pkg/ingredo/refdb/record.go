// Package refdb is the in-memory reference ingredient database. It is built
// once at startup from a static dataset and is read-only afterwards, so an
// *Index may be shared by any number of goroutines.
package refdb

// Record is one reference ingredient. Field names follow the snake_case
// layout of the FooDB food export.
type Record struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	NameScientific string `json:"name_scientific,omitempty"`
	Description    string `json:"description,omitempty"`
	ITISID         string `json:"itis_id,omitempty"`
	WikipediaID    string `json:"wikipedia_id,omitempty"`
	FoodGroup      string `json:"food_group,omitempty"`
	FoodSubgroup   string `json:"food_subgroup,omitempty"`
	FoodType       string `json:"food_type,omitempty"`
	Category       string `json:"category,omitempty"`
	NCBITaxonomyID int    `json:"ncbi_taxonomy_id,omitempty"`
	PublicID       string `json:"public_id,omitempty"`
}
