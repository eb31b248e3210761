package types

// Version is overwritten at build time via -ldflags.
var Version = "dev"

const (
	// ServiceName is used in logs, health responses and generated footers.
	ServiceName = "bumpwatch"

	// DefaultServerURL is the public GitHub web endpoint.
	DefaultServerURL = "https://github.com"
)
