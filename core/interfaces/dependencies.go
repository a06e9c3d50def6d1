// ABOUTME: Dependencies container provides dependency injection for core services
// ABOUTME: Defines the contract for dependencies required by the extraction pipeline

package interfaces

// Dependencies holds all external dependencies required by the core
// extraction pipeline. It is constructed once per run in main and
// passed down; nothing in core reaches for globals.
type Dependencies struct {
	// Fetcher retrieves raw HTML pages
	Fetcher PageFetcher

	// Logger provides structured logging
	Logger Logger
}
