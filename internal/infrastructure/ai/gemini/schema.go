package gemini

import "github.com/bunnybakes/v1/internal/domain/recipe"

// schema mirrors the subset of the OpenAPI schema object the provider
// accepts as a responseSchema constraint.
type schema struct {
	Type       string             `json:"type"`
	Enum       []string           `json:"enum,omitempty"`
	Properties map[string]*schema `json:"properties,omitempty"`
	Items      *schema            `json:"items,omitempty"`
	Required   []string           `json:"required,omitempty"`
}

// recipeSchema is the fixed constraint every recipe generation uses.
func recipeSchema() *schema {
	return &schema{
		Type: "OBJECT",
		Properties: map[string]*schema{
			"title":       {Type: "STRING"},
			"description": {Type: "STRING"},
			"prepTime":    {Type: "STRING"},
			"cookTime":    {Type: "STRING"},
			"difficulty":  {Type: "STRING", Enum: recipe.DifficultyValues()},
			"ingredients": {
				Type: "ARRAY",
				Items: &schema{
					Type: "OBJECT",
					Properties: map[string]*schema{
						"name":   {Type: "STRING"},
						"amount": {Type: "STRING"},
					},
				},
			},
			"steps": {
				Type: "ARRAY",
				Items: &schema{
					Type: "OBJECT",
					Properties: map[string]*schema{
						"stepNumber":  {Type: "INTEGER"},
						"instruction": {Type: "STRING"},
					},
				},
			},
			"tags": {
				Type:  "ARRAY",
				Items: &schema{Type: "STRING"},
			},
		},
		Required: []string{"title", "ingredients", "steps", "prepTime", "cookTime", "difficulty"},
	}
}
