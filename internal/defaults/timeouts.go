package defaults

import "time"

// BaseURL is used when neither flag, environment nor config file set one.
const BaseURL = "http://localhost:5000"

// HTTP client timeouts for calls to the recipe API.
const (
	// HTTPClientTimeout is the total timeout for a single request.
	HTTPClientTimeout = 15 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second
)

// CLI limits.
const (
	// ImportFetchTimeout bounds fetching one import source.
	ImportFetchTimeout = 20 * time.Second

	// ImportConcurrency caps parallel source fetches during import.
	ImportConcurrency = 4
)
