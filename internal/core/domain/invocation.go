package domain

// Invocation is a job with every path resolved, ready to be spawned.
type Invocation struct {
	// Executable is the absolute path of the program.
	Executable string
	// Args excludes the executable itself.
	Args []string
	// Env holds KEY=VALUE pairs added to the inherited environment.
	Env []string
	// Dir is the working directory; empty means the current one.
	Dir string
}
