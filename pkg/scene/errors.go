package scene

// Error types returned by scene construction
const (
	ErrTypeInvalidNode  = "invalid-node"
	ErrTypeInvalidScene = "invalid-scene"
	ErrTypeUnknownScene = "unknown-scene"
)
