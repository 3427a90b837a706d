package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a
	// sensible default or an error, depending on whether the prompt
	// is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptChatSystem is the system instruction prepended to every
	// assembled conversation. No format placeholders.
	PromptChatSystem = "chat_system"

	// PromptContext wraps retrieved chunk texts and the raw query
	// into the final user turn. Expects %s (context) and %s (query).
	PromptContext = "context"
)
