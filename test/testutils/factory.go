// Package testutils provides test data factories for unit tests.
package testutils

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/bunnybakes/v1/internal/domain/community"
	"github.com/bunnybakes/v1/internal/domain/recipe"
)

// RecipeFactory builds randomized but valid recipes for tests.
type RecipeFactory struct {
	faker *gofakeit.Faker
}

// NewRecipeFactory creates a factory with a deterministic seed.
func NewRecipeFactory(seed int64) *RecipeFactory {
	return &RecipeFactory{faker: gofakeit.New(seed)}
}

// Generation returns a recipe shaped like a parsed provider response,
// without an ID, ready for NewFromGeneration.
func (f *RecipeFactory) Generation() recipe.Recipe {
	steps := make([]recipe.Step, 3)
	for i := range steps {
		steps[i] = recipe.Step{StepNumber: i + 1, Instruction: f.faker.Sentence(8)}
	}
	return recipe.Recipe{
		Title:       f.faker.Dessert(),
		Description: f.faker.Sentence(12),
		PrepTime:    fmt.Sprintf("%d分钟", f.faker.Number(10, 40)),
		CookTime:    fmt.Sprintf("%d分钟", f.faker.Number(15, 60)),
		Difficulty:  recipe.DifficultyEasy,
		Ingredients: []recipe.Ingredient{
			{Name: f.faker.Fruit(), Amount: fmt.Sprintf("%dg", f.faker.Number(50, 500))},
			{Name: "面粉", Amount: "200g"},
		},
		Steps: steps,
		Tags:  []string{f.faker.Word(), f.faker.Word()},
	}
}

// Saved returns a complete recipe with an ID and image, as it would sit
// in the recipe book.
func (f *RecipeFactory) Saved() recipe.Recipe {
	r := f.Generation()
	r.ID = uuid.NewString()
	r.ImageURL = f.faker.URL()
	return r
}

// PostFactory builds randomized community posts for tests.
type PostFactory struct {
	faker *gofakeit.Faker
}

// NewPostFactory creates a factory with a deterministic seed.
func NewPostFactory(seed int64) *PostFactory {
	return &PostFactory{faker: gofakeit.New(seed)}
}

// Post returns a feed post from a random user.
func (f *PostFactory) Post() community.Post {
	return community.Post{
		ID:         uuid.NewString(),
		UserID:     uuid.NewString(),
		UserName:   f.faker.Username(),
		UserAvatar: "🐻",
		Image:      f.faker.URL(),
		Caption:    f.faker.Sentence(10),
		Likes:      f.faker.Number(0, 500),
		Timestamp:  f.faker.Date().UnixMilli(),
	}
}
