// Package constants provides shared constants used throughout the whichllm codebase.
// This includes timeouts, validity windows, file permissions and artifact names
// that must stay consistent between the fetch, fusion and query layers.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to upstream sources
	DefaultHTTPTimeout = 30 * time.Second

	// DialTimeout is the timeout for establishing upstream connections
	DialTimeout = 10 * time.Second

	// RefreshContextTimeout bounds a single scheduled refresh run
	RefreshContextTimeout = 5 * time.Minute

	// ShutdownTimeout is how long the CLI waits for in-flight work on exit
	ShutdownTimeout = 5 * time.Second
)

// Validity windows for the per-source refresh policies.
const (
	// SecondaryValidity is how long a secondary snapshot is reused before
	// it is refetched automatically.
	SecondaryValidity = 24 * time.Hour

	// DefaultRefreshSchedule is the cron schedule used by watch mode
	DefaultRefreshSchedule = "@hourly"
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Cache layout constants.
const (
	// CacheDirEnv overrides the cache directory, mostly for tests and portability
	CacheDirEnv = "WHICH_LLM_CACHE_DIR"

	// CacheDirName is the directory created under the user cache dir
	CacheDirName = "which-llm"

	// DataExtension is the extension of columnar artifacts
	DataExtension = ".parquet"

	// MetaExtension is the extension of artifact metadata sidecars
	MetaExtension = ".meta.yaml"

	// ParquetParallelism is the number of goroutines parquet-go uses per file
	ParquetParallelism = 4
)

// Upstream endpoints.
const (
	// ArtificialAnalysisBaseURL is the base URL for the benchmark API
	ArtificialAnalysisBaseURL = "https://artificialanalysis.ai/api/v2"

	// ArtificialAnalysisLLMPath is the bulk LLM listing endpoint
	ArtificialAnalysisLLMPath = "/data/llms/models"

	// ModelsDevAPIURL is the URL for the models.dev API
	ModelsDevAPIURL = "https://models.dev/api.json"

	// UserAgent is sent with every upstream request
	UserAgent = "whichllm"
)
