package dto

import "github.com/handiism/vocaloid-birthday/internal/model"

// SearchResponse is the envelope returned by the snapshot search API.
//
// Data is kept as raw records; a missing "data" field decodes to nil.
type SearchResponse struct {
	Meta *Meta          `json:"meta"`
	Data []model.Record `json:"data"`
}

// Meta carries request status and the total hit count.
type Meta struct {
	Status       int    `json:"status"`
	TotalCount   int    `json:"totalCount"`
	ID           string `json:"id"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// Records returns the result list, never nil.
func (r *SearchResponse) Records() []model.Record {
	if r == nil || r.Data == nil {
		return []model.Record{}
	}
	return r.Data
}

// TotalCount returns the server-side hit count, or -1 when meta is absent.
func (r *SearchResponse) TotalCount() int {
	if r == nil || r.Meta == nil {
		return -1
	}
	return r.Meta.TotalCount
}
