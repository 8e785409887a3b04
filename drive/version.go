package drive

// Core identification reported to frontends.
const (
	Name    = "emfx"
	Version = "0.1.0"
)
