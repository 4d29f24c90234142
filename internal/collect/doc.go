// Package collect drives a full collection run over every calendar day.
//
// # Collector
//
// The Collector walks months 1-12 and days 1-31:
//
//  1. Skip dates that do not exist in the validation year (a leap year)
//  2. Wait for the request limiter
//  3. Search the day
//  4. Keep the results under "MM-DD" when there are any
//
// # Basic Usage
//
//	c := collect.NewCollector(settings, searchClient, logger, func(e collect.ProgressEvent) {
//	    fmt.Println(e.Message)
//	})
//	mapping, err := c.Run(ctx)
//
// # Pacing
//
// Consecutive searches start at least settings.RequestDelay apart. Skipped
// dates never wait. The run is sequential; there is never more than one
// request in flight.
package collect
