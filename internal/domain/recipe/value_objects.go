package recipe

// Value objects for the recipe aggregate.

// Ingredient is a single entry in a recipe's ingredient list.
type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// Step is one instruction in a recipe. StepNumber is the 1-based position
// matching list order; the provider supplies it and it is not separately
// validated against the slice index.
type Step struct {
	StepNumber  int    `json:"stepNumber"`
	Instruction string `json:"instruction"`
}

// Difficulty is the three-value difficulty scale the provider schema is
// constrained to. Values are Simplified Chinese, matching the app's locale.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "简单"
	DifficultyMedium Difficulty = "中等"
	DifficultyHard   Difficulty = "困难"
)

// Valid reports whether d is one of the three schema values.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// DifficultyValues returns the enum literals in schema order.
func DifficultyValues() []string {
	return []string{
		string(DifficultyEasy),
		string(DifficultyMedium),
		string(DifficultyHard),
	}
}
