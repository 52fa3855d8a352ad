// Package recipe contains the core domain model for baking recipes.
package recipe

import (
	"github.com/google/uuid"
)

// Recipe represents a baking recipe. The JSON tags match the schema the
// AI provider is constrained to, so a provider response unmarshals
// directly into this type before an ID is stamped on it.
type Recipe struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	PrepTime    string       `json:"prepTime"`
	CookTime    string       `json:"cookTime"`
	Difficulty  Difficulty   `json:"difficulty"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []Step       `json:"steps"`
	ImageURL    string       `json:"imageUrl,omitempty"`
	Tags        []string     `json:"tags"`
}

// NewFromGeneration stamps a freshly generated ID on a parsed provider
// response and validates the fields the provider schema marks required.
func NewFromGeneration(r Recipe) (*Recipe, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	r.ID = uuid.NewString()
	return &r, nil
}

func (r Recipe) validate() error {
	if r.Title == "" {
		return ErrMissingTitle
	}
	if len(r.Ingredients) == 0 {
		return ErrNoIngredients
	}
	if len(r.Steps) == 0 {
		return ErrNoSteps
	}
	if r.PrepTime == "" || r.CookTime == "" {
		return ErrMissingTimes
	}
	if !r.Difficulty.Valid() {
		return ErrInvalidDifficulty
	}
	return nil
}

// WithImage returns a copy of the recipe with the given image attached.
// Recipes are otherwise immutable once created.
func (r Recipe) WithImage(url string) Recipe {
	r.ImageURL = url
	return r
}
