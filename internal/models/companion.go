package models

// Roles of a CompanionMessage.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// CompanionMessage is one turn of an AI companion conversation. It is kept in
// the session-scoped history store, never in the relational database.
type CompanionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
