package config

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultSpecsDir is the default spec directory, relative to the project
	DefaultSpecsDir = "cypress/integration"
	// DefaultSpecPattern matches spec file names during discovery
	DefaultSpecPattern = "*.feature"
	// DefaultThreads is the default number of workers
	DefaultThreads = 2
	// DefaultWeightsFile is the default weight file, relative to the project
	DefaultWeightsFile = "cypress/parallel-weights.json"
	// DefaultResultsFile is the default run results file, relative to the project
	DefaultResultsFile = "cypress/parallel-results.json"
	// DefaultReporter is the reporter that speaks the managed event protocol
	DefaultReporter = "cypress-parallel/json-stream.reporter.js"
	// DefaultEnvFile is loaded from the project directory before reading the environment
	DefaultEnvFile = ".env"
	// EnvPrefix is the prefix of environment overrides, e.g. CYPAR_THREADS
	EnvPrefix = "CYPAR"
)

// Scheduling strategies
const (
	StrategyWeighted   = "weighted"
	StrategyRoundRobin = "round-robin"
)

// Suite duration modes
const (
	DurationCumulative = "cumulative"
	DurationPerSuite   = "per-suite"
)

// Suite name collision policies
const (
	CollisionOverwrite = "overwrite"
	CollisionMerge     = "merge"
)

// Progress display modes
const (
	ProgressAuto  = "auto"
	ProgressLines = "lines"
	ProgressBar   = "bar"
)

// DefaultPathsToIgnore are the default directories to ignore when scanning for specs
var DefaultPathsToIgnore = []string{
	"node_modules",
	"fixtures",
	"screenshots",
	"videos",
}
