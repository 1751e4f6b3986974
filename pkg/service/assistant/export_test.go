package assistant

// Exported for testing
var BuildSystemPrompt = (*Service).buildSystemPrompt
