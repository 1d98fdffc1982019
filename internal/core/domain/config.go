package domain

// DriverConfig holds settings from swiftplan.yaml. Zero values mean the
// built-in default applies.
type DriverConfig struct {
	// Root is the directory the configuration file was found in.
	Root string
	// ToolchainDir is the bin directory searched before PATH.
	ToolchainDir string
	// TemporaryDirectory overrides where temporary job files are placed.
	TemporaryDirectory string
	// Parallelism bounds the number of jobs run at once.
	Parallelism int
	// CacheDirectory overrides where output cache keys are recorded.
	CacheDirectory string
	// StaticTargetInfo derives target information locally instead of asking the frontend.
	StaticTargetInfo bool
	// Environment is added to the environment of every job.
	Environment map[string]string
	// ResponseFiles selects when response files are used.
	ResponseFiles ResponseFilePolicy
}
