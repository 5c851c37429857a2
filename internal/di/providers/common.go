package providers

import "time"

const (
	// shutdownTimeout is the maximum time to wait for graceful shutdown of services.
	shutdownTimeout = 30 * time.Second

	// ArgsKey names the command-line arguments value in the container.
	ArgsKey = "args"
	// VersionKey names the build version value in the container.
	VersionKey = "version"
)
