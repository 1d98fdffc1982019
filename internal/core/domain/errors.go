package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidPath is returned when a path string cannot be turned into a virtual path.
	ErrInvalidPath = zerr.New("invalid path")

	// ErrUnknownOption is returned when the command line contains an option the driver does not know.
	ErrUnknownOption = zerr.New("unknown option")

	// ErrMissingArgument is returned when an option that takes a value is the last argument.
	ErrMissingArgument = zerr.New("missing argument value")

	// ErrInvalidArgumentValue is returned when an option value is not one of the accepted values.
	ErrInvalidArgumentValue = zerr.New("invalid value for option")

	// ErrUnsupportedOption is returned when an option is not supported for the selected target.
	ErrUnsupportedOption = zerr.New("option is not supported for this target")

	// ErrConflictingOptions is returned when two options cannot be used together.
	ErrConflictingOptions = zerr.New("conflicting options")

	// ErrUnexpectedInput is returned when an input file cannot be used in the requested mode.
	ErrUnexpectedInput = zerr.New("unexpected input file")

	// ErrNoInputFiles is returned when a compilation mode requires inputs but none were given.
	ErrNoInputFiles = zerr.New("no input files")

	// ErrMissingRequiredFile is returned when a file the plan depends on does not exist.
	ErrMissingRequiredFile = zerr.New("required file not found")

	// ErrBadModuleName is returned when the module name is not a valid identifier.
	ErrBadModuleName = zerr.New("module name is not a valid identifier")

	// ErrInvalidOutputFileMap is returned when an output file map cannot be decoded.
	ErrInvalidOutputFileMap = zerr.New("invalid output file map")

	// ErrInvalidTriple is returned when a target triple cannot be parsed.
	ErrInvalidTriple = zerr.New("invalid target triple")

	// ErrUnsupportedSanitizer is returned when a sanitizer is requested for a target that cannot run it.
	ErrUnsupportedSanitizer = zerr.New("sanitizer is not supported for this target")

	// ErrUnsupportedProfiling is returned when profiling is requested for a target without profile runtimes.
	ErrUnsupportedProfiling = zerr.New("profiling is not supported for this target")

	// ErrUnsupportedDynamicLibrary is returned when a dynamic library is requested for a target without them.
	ErrUnsupportedDynamicLibrary = zerr.New("dynamic libraries are not supported for this target")

	// ErrToolNotFound is returned when an external executable cannot be located.
	ErrToolNotFound = zerr.New("unable to locate tool")

	// ErrInvalidPlan is returned when a serialized plan cannot be decoded.
	ErrInvalidPlan = zerr.New("invalid serialized plan")

	// ErrInvalidDependencyGraph is returned when a module dependency graph cannot be decoded.
	ErrInvalidDependencyGraph = zerr.New("invalid module dependency graph")

	// ErrMissingModuleDependency is returned when a module references a dependency missing from the graph.
	ErrMissingModuleDependency = zerr.New("missing module dependency")

	// ErrTargetInfoFailed is returned when the frontend target information cannot be obtained.
	ErrTargetInfoFailed = zerr.New("failed to query target information")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrStoreCreateFailed is returned when the cache key store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create cache key store directory")

	// ErrStoreReadFailed is returned when a cache key record cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read cache key record")

	// ErrStoreUnmarshalFailed is returned when a cache key record cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal cache key record")

	// ErrStoreMarshalFailed is returned when a cache key record cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal cache key record")

	// ErrStoreWriteFailed is returned when a cache key record cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write cache key record")

	// ErrTemporaryDirectoryFailed is returned when the temporary directory cannot be prepared.
	ErrTemporaryDirectoryFailed = zerr.New("failed to prepare temporary directory")

	// ErrFileListWriteFailed is returned when a file list or response file cannot be written.
	ErrFileListWriteFailed = zerr.New("failed to write file list")

	// ErrJobFailed is returned when a job exits unsuccessfully.
	ErrJobFailed = zerr.New("job failed")

	// ErrBuildFailed is returned when executing a plan fails.
	ErrBuildFailed = zerr.New("build failed")

	// ErrNoJobs is returned when there is nothing to plan for the given arguments.
	ErrNoJobs = zerr.New("no jobs to run")
)

// newError attaches a specific message and metadata to a sentinel while keeping
// errors.Is working against the sentinel.
func newError(sentinel error, msg string, kv ...any) error {
	err := zerr.Wrap(sentinel, msg)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		err = zerr.With(err, key, kv[i+1])
	}
	return err
}

// NewError is the exported form of newError for the engine and adapter packages.
func NewError(sentinel error, msg string, kv ...any) error {
	return newError(sentinel, msg, kv...)
}

// NewCapabilityError reports a feature the target platform cannot provide.
func NewCapabilityError(sentinel error, triple, feature string) error {
	return newError(sentinel, feature+" is not supported for "+triple, "triple", triple, "feature", feature)
}
