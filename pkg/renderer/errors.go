package renderer

const (
	ErrTypeInvalidConfig     = "invalid-config"
	ErrTypeRenderInProgress  = "render-in-progress"
	ErrTypeRenderNotFinished = "render-not-finished"
	ErrTypeInvalidImage      = "invalid-image"
)
