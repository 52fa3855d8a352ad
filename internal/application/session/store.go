// Package session implements the view-state controller: a per-session
// store holding the current screen, the active recipe, the saved-recipe
// book, the community feed, the chat history and the transient loading
// state, together with every transition the screens can trigger.
package session

import (
	"context"
	"strings"
	"sync"

	"github.com/bunnybakes/v1/internal/domain/chat"
	"github.com/bunnybakes/v1/internal/domain/community"
	"github.com/bunnybakes/v1/internal/domain/recipe"
	"github.com/bunnybakes/v1/internal/ports/outbound"
	"github.com/bunnybakes/v1/pkg/errors"
	"go.uber.org/zap"
)

// User-visible message literals.
const (
	alertGenerationFailed = "哎呀，魔法失效了！请重试一下。"
	alertMissingImage = "请上传一张照片哦！"
	chatErrorReply        = "(｡•́︿•̀｡) 哎呀！魔法失灵了。请再试一次吧！"
)

// Publishing identity of the (only) local user.
const (
	localUserID     = "currentUser"
	localUserName   = "我"
	localUserAvatar = "👩‍🍳"
)

// Store is the view-state controller for one session. All mutations go
// through its methods; handlers never touch the fields directly. The
// logical session is single-user, but Go's HTTP server invokes handlers
// concurrently, so state is guarded by a mutex.
type Store struct {
	mu sync.RWMutex

	view         View
	loading      LoadingState
	activeRecipe *recipe.Recipe
	savedRecipes []recipe.Recipe
	posts        []community.Post
	chatHistory  []chat.Message
	genDraft     GeneratorDraft
	postDraft    PostDraft
	alert        string

	// illustratingID is the recipe whose illustration is currently
	// pending. Only that task may clear the loading state.
	illustratingID string

	ai     outbound.AIService
	logger *zap.Logger

	// illustrations tracks in-flight second-stage tasks so shutdown and
	// tests can wait for them.
	illustrations sync.WaitGroup
}

// NewStore creates a controller seeded with the mock recipe book and feed.
func NewStore(ai outbound.AIService, logger *zap.Logger) *Store {
	return &Store{
		view:         ViewHome,
		loading:      LoadingIdle,
		savedRecipes: seedRecipes(),
		posts:        seedPosts(),
		genDraft:     GeneratorDraft{Mode: ModeText},
		ai:           ai,
		logger:       logger.Named("session"),
	}
}

// Snapshot is a consistent read of everything the screens render.
type Snapshot struct {
	View         View
	Loading      LoadingState
	ActiveRecipe *recipe.Recipe
	SavedRecipes []recipe.Recipe
	Posts        []community.Post
	ChatHistory  []chat.Message
	GenDraft     GeneratorDraft
	PostDraft    PostDraft
	Alert        string
}

// Snapshot returns a copy of the current state. The alert is consumed:
// it renders once and is cleared.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		View:         s.view,
		Loading:      s.loading,
		SavedRecipes: append([]recipe.Recipe(nil), s.savedRecipes...),
		Posts:        append([]community.Post(nil), s.posts...),
		ChatHistory:  append([]chat.Message(nil), s.chatHistory...),
		GenDraft:     s.genDraft,
		PostDraft:    s.postDraft,
		Alert:        s.alert,
	}
	if s.activeRecipe != nil {
		active := *s.activeRecipe
		snap.ActiveRecipe = &active
	}
	s.alert = ""
	return snap
}

// Navigate switches to the given screen unconditionally. Leaving the
// generator or the create-post screen discards that screen's draft.
func (s *Store) Navigate(v View) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.view == ViewGenerate && v != ViewGenerate {
		s.genDraft = GeneratorDraft{Mode: ModeText}
	}
	if s.view == ViewCreatePost && v != ViewCreatePost {
		s.postDraft = PostDraft{}
	}
	s.view = v
}

// SetGeneratorDraft updates the generation form buffers.
func (s *Store) SetGeneratorDraft(d GeneratorDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.Mode != ModeImage {
		d.Mode = ModeText
	}
	s.genDraft = d
}

// SetPostDraft updates the create-post form buffers.
func (s *Store) SetPostDraft(d PostDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.postDraft = d
}

// Generate runs the two-stage generation flow from the current draft.
// Stage one produces the recipe and navigates to the detail screen; for
// text mode, stage two requests an illustration asynchronously and the
// result is dropped if the active recipe has changed by completion time.
func (s *Store) Generate(ctx context.Context) error {
	s.mu.Lock()
	draft := s.genDraft
	switch draft.Mode {
	case ModeText:
		if strings.TrimSpace(draft.Prompt) == "" {
			s.mu.Unlock()
			return errors.NewValidationError("prompt must not be empty")
		}
	case ModeImage:
		if draft.SelectedImage == "" {
			s.alert = alertMissingImage
			s.mu.Unlock()
			return errors.NewValidationError("no image selected")
		}
	}
	s.loading = LoadingRecipe
	s.mu.Unlock()

	var (
		generated *recipe.Recipe
		err       error
	)
	if draft.Mode == ModeImage {
		generated, err = s.ai.GenerateRecipeFromImage(ctx, draft.SelectedImage, draft.ImageMimeType)
	} else {
		generated, err = s.ai.GenerateRecipeFromText(ctx, draft.Prompt, draft.Dietary)
	}

	s.mu.Lock()
	if err != nil {
		// The screen stays wherever it was; only the loading state resets.
		s.loading = LoadingIdle
		s.alert = alertGenerationFailed
		s.mu.Unlock()
		s.logger.Error("recipe generation failed", zap.Error(err))
		return err
	}

	s.activeRecipe = generated
	s.view = ViewRecipeDetail
	s.genDraft = GeneratorDraft{Mode: ModeText}

	if draft.Mode != ModeText {
		s.loading = LoadingIdle
		s.mu.Unlock()
		return nil
	}

	s.loading = LoadingImage
	s.illustratingID = generated.ID
	s.mu.Unlock()

	s.logger.Info("recipe generated, requesting illustration",
		zap.String("recipe_id", generated.ID),
		zap.String("title", generated.Title),
	)

	s.illustrations.Add(1)
	go s.illustrate(generated.ID, generated.Title)
	return nil
}

// illustrate is the second generation stage. It carries the generated
// recipe's identity so a stale result is discarded instead of being
// attached to whatever recipe is active by then.
func (s *Store) illustrate(recipeID, title string) {
	defer s.illustrations.Done()

	// Detached from the request: the user may have moved on already.
	url := s.ai.GenerateIllustration(context.Background(), title)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Only the task that owns the pending state may clear it; a stale
	// completion must not end a newer generation's loading indicator.
	if s.illustratingID == recipeID {
		if s.loading == LoadingImage {
			s.loading = LoadingIdle
		}
		s.illustratingID = ""
	}
	if s.activeRecipe == nil || s.activeRecipe.ID != recipeID {
		s.logger.Debug("dropping stale illustration", zap.String("recipe_id", recipeID))
		return
	}
	updated := s.activeRecipe.WithImage(url)
	s.activeRecipe = &updated
}

// WaitForIllustration blocks until in-flight illustration tasks finish.
func (s *Store) WaitForIllustration() {
	s.illustrations.Wait()
}

// SaveActiveRecipe adds the active recipe to the recipe book unless an
// entry with the same ID already exists, then navigates home.
func (s *Store) SaveActiveRecipe() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeRecipe != nil && !s.hasSavedLocked(s.activeRecipe.ID) {
		s.savedRecipes = append([]recipe.Recipe{*s.activeRecipe}, s.savedRecipes...)
	}
	s.view = ViewHome
}

// OpenRecipe makes a saved recipe active and shows its detail screen.
func (s *Store) OpenRecipe(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.savedRecipes {
		if s.savedRecipes[i].ID == id {
			r := s.savedRecipes[i]
			s.activeRecipe = &r
			s.view = ViewRecipeDetail
			return nil
		}
	}
	return errors.NewRecipeNotFoundError(id)
}

// ToggleLike flips the like state of the matching post, moving its
// counter by exactly one. Unknown IDs are a no-op.
func (s *Store) ToggleLike(postID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.posts {
		if s.posts[i].ID == postID {
			s.posts[i].ToggleLike()
			return
		}
	}
	s.logger.Debug("like toggle for unknown post", zap.String("post_id", postID))
}

// PublishPost validates the draft, snapshots the linked recipe's title at
// publish time, prepends the new post to the feed, clears the draft and
// navigates to the community screen.
func (s *Store) PublishPost() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.postDraft
	if draft.Image == "" {
		s.alert = alertMissingImage
		return errors.NewValidationError("post requires an attached image")
	}

	var linkedTitle string
	if draft.LinkedRecipeID != "" {
		for i := range s.savedRecipes {
			if s.savedRecipes[i].ID == draft.LinkedRecipeID {
				linkedTitle = s.savedRecipes[i].Title
				break
			}
		}
	}

	post, err := community.NewPost(localUserID, localUserName, localUserAvatar,
		draft.Image, draft.Caption, draft.LinkedRecipeID, linkedTitle)
	if err != nil {
		return errors.Wrap(err, "failed to create post")
	}

	s.posts = append([]community.Post{*post}, s.posts...)
	s.postDraft = PostDraft{}
	s.view = ViewCommunity

	s.logger.Info("post published",
		zap.String("post_id", post.ID),
		zap.String("linked_recipe_id", post.LinkedRecipeID),
	)
	return nil
}

// SendChatMessage appends the user's turn, asks the assistant for a reply
// and appends it. Provider failures degrade to an in-character apology
// appended as a normal reply; they are never surfaced as errors.
func (s *Store) SendChatMessage(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.NewValidationError("message must not be empty")
	}

	s.mu.Lock()
	history := append([]chat.Message(nil), s.chatHistory...)
	s.chatHistory = append(s.chatHistory, chat.NewMessage(chat.RoleUser, text))
	s.loading = LoadingChatting
	s.mu.Unlock()

	reply, err := s.ai.Chat(ctx, history, text)
	if err != nil {
		s.logger.Warn("chat turn failed, replying in character", zap.Error(err))
		reply = chatErrorReply
	}

	s.mu.Lock()
	s.chatHistory = append(s.chatHistory, chat.NewMessage(chat.RoleModel, reply))
	s.loading = LoadingIdle
	s.mu.Unlock()
	return nil
}

func (s *Store) hasSavedLocked(id string) bool {
	for i := range s.savedRecipes {
		if s.savedRecipes[i].ID == id {
			return true
		}
	}
	return false
}
