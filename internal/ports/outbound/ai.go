// Package outbound defines the interfaces the application uses to reach
// external systems. The AI provider sits behind a narrow interface with
// one method per capability so it can be swapped without touching callers.
package outbound

import (
	"context"

	"github.com/bunnybakes/v1/internal/domain/chat"
	"github.com/bunnybakes/v1/internal/domain/recipe"
)

// AIService is the gateway to the generative-AI provider. Calls are
// one-shot: no retries, no backoff, no caching.
type AIService interface {
	// GenerateRecipeFromText requests a schema-constrained recipe for a
	// free-text prompt plus optional dietary restrictions.
	GenerateRecipeFromText(ctx context.Context, prompt, dietary string) (*recipe.Recipe, error)

	// GenerateRecipeFromImage infers a recipe from an uploaded dish photo.
	// The returned recipe keeps the uploaded image as its ImageURL.
	GenerateRecipeFromImage(ctx context.Context, imageData, mimeType string) (*recipe.Recipe, error)

	// GenerateIllustration produces an illustration URL for a recipe title.
	// Best effort: it never fails, falling back to a public prompt-to-image
	// service when synthesis is unavailable. The result is always a usable
	// URL string.
	GenerateIllustration(ctx context.Context, title string) string

	// Chat replays the prior conversation with the Bunny persona and sends
	// the new message, returning the reply text.
	Chat(ctx context.Context, history []chat.Message, message string) (string, error)
}
