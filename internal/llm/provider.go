package llm

// Kind identifies which upstream protocol a provider speaks.
type Kind string

const (
	// Remote providers are reached through the aggregator and need a credential.
	Remote Kind = "remote"
	// Local providers run on a model server next to the backend.
	Local Kind = "local"
)

type Role string

const (
	User      Role = "user"
	Assistant Role = "assistant"
	System    Role = "system"
)

// Message is one entry of a conversation history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Params holds the sampling parameters forwarded upstream as-is.
type Params struct {
	Temperature float64
	TopP        float64
}

const (
	DefaultTemperature = 0.7
	DefaultTopP        = 0.9
)
