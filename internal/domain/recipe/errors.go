package recipe

import "errors"

// Domain errors for recipe validation

var (
	ErrMissingTitle      = errors.New("recipe title is required")
	ErrNoIngredients     = errors.New("recipe must have at least one ingredient")
	ErrNoSteps           = errors.New("recipe must have at least one step")
	ErrMissingTimes      = errors.New("recipe prep and cook times are required")
	ErrInvalidDifficulty = errors.New("difficulty must be one of 简单, 中等, 困难")
)
