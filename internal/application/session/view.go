package session

// View enumerates the application's screens. Navigation is unguarded:
// every screen is reachable from every other screen.
type View string

const (
	ViewHome         View = "HOME"
	ViewGenerate     View = "GENERATE"
	ViewRecipeDetail View = "RECIPE_DETAIL"
	ViewChat         View = "CHAT"
	ViewSaved        View = "SAVED"
	ViewCommunity    View = "COMMUNITY"
	ViewCreatePost   View = "CREATE_POST"
)

// Views lists every defined screen.
func Views() []View {
	return []View{
		ViewHome, ViewGenerate, ViewRecipeDetail,
		ViewChat, ViewSaved, ViewCommunity, ViewCreatePost,
	}
}

// LoadingState is the transient status of the one in-flight AI operation.
type LoadingState string

const (
	LoadingIdle     LoadingState = "idle"
	LoadingRecipe   LoadingState = "generating_recipe"
	LoadingImage    LoadingState = "generating_image"
	LoadingChatting LoadingState = "chatting"
)

// GenerationMode selects the generator's input path.
type GenerationMode string

const (
	ModeText  GenerationMode = "text"
	ModeImage GenerationMode = "image"
)

// GeneratorDraft holds the generation form's input buffers. Cleared on
// successful submission or on navigation away from the generator.
type GeneratorDraft struct {
	Mode          GenerationMode
	Prompt        string
	Dietary       string
	SelectedImage string
	ImageMimeType string
}

// PostDraft holds the create-post form's input buffers.
type PostDraft struct {
	Image          string
	Caption        string
	LinkedRecipeID string
}
