package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptSelectProducts asks the model to pick at most five handles from
	// a formatted candidate list. The template expects two %s placeholders:
	// the user's text and the formatted candidate list.
	PromptSelectProducts = "select_products"

	// PromptChatSystem is the default system prompt for new conversations.
	// No format placeholders.
	PromptChatSystem = "chat_system"
)

// PromptStoreAware is an optional interface for services that can use custom
// prompts. If no store is injected the service uses hardcoded defaults.
type PromptStoreAware interface {
	SetPromptStore(store PromptStore)
}
