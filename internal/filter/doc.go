// Package filter builds and encodes search filters for the niconico
// snapshot search API.
//
// A filter is a tree of Range, Equal, And, Or and Not nodes. Trees marshal
// to the API's jsonFilter format:
//
//	expr := filter.And{Filters: []filter.Expression{
//	    filter.Range{Field: "startTime", From: from, To: to, IncludeLower: true},
//	    filter.Not{Filter: filter.Equal{Field: "tags", Value: "歌ってみた"}},
//	}}
//	s, _ := filter.Encode(expr)
//	// {"type":"and","filters":[{"type":"range",...},{"type":"not",...}]}
//
// Builder produces the per-day filter used by the collector. Every node can
// also be evaluated locally with Match.
package filter
