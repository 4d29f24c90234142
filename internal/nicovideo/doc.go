// Package nicovideo queries the niconico snapshot search API for songs
// uploaded on a given calendar day.
//
// # Searching
//
// For a month and day the client builds a filter covering that day in every
// year since 2007 (see package filter), sends it with the fixed query,
// fields, sort and context, and returns the "data" list of the response:
//
//	client := nicovideo.NewClient(config.DefaultSettings(), logger)
//	records := client.Search(ctx, 3, 9, 50)
//
// # Failure Handling
//
// Search is soft-failing: non-200 responses, network errors, timeouts and
// malformed bodies are logged and produce an empty slice. Nothing is
// retried. Use SearchDay to see the underlying error.
package nicovideo
