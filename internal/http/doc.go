// Package http provides the HTTP client used to call the search API.
//
// The Client in this package handles:
//   - The User-Agent header identifying the collector
//   - Timeout handling
//   - Query string encoding
//   - Reporting non-200 responses as *StatusError
//
// # Basic Usage
//
//	client := http.NewClient(settings.UserAgent, settings.Timeout)
//	body, err := client.Get(ctx, settings.Endpoint, params)
package http
