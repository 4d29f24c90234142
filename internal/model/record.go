package model

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// Record is a single search hit kept exactly as the API returned it.
//
// The collector never inspects or rewrites records; Record marshals back to
// the same bytes it was decoded from. Use Song for typed access to the
// commonly requested fields.
type Record []byte

// MarshalJSON returns r verbatim.
func (r Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	return r, nil
}

// UnmarshalJSON stores a copy of data.
func (r *Record) UnmarshalJSON(data []byte) error {
	if r == nil {
		return errors.New("model.Record: UnmarshalJSON on nil pointer")
	}
	*r = append((*r)[0:0], data...)
	return nil
}

// Song decodes the known optional fields of the record.
func (r Record) Song() (Song, error) {
	var s Song
	err := json.Unmarshal(r, &s)
	return s, err
}

// Song is a typed view of a record's known fields. Any of them may be missing.
type Song struct {
	ContentID     string `json:"contentId,omitempty"`
	Title         string `json:"title,omitempty"`
	StartTime     string `json:"startTime,omitempty"`
	ThumbnailURL  string `json:"thumbnailUrl,omitempty"`
	ViewCounter   int64  `json:"viewCounter,omitempty"`
	LengthSeconds int    `json:"lengthSeconds,omitempty"`

	// Tags is the space-separated tag list. Only present when requested.
	Tags string `json:"tags,omitempty"`
}

// FieldValues returns the values of an API field name for filter evaluation.
//
// Multi-valued fields (tags) are split into one value per tag. Unknown or
// empty fields yield nil.
func (s Song) FieldValues(field string) []string {
	var v string
	switch field {
	case "contentId":
		v = s.ContentID
	case "title":
		v = s.Title
	case "startTime":
		v = s.StartTime
	case "thumbnailUrl":
		v = s.ThumbnailURL
	case "viewCounter":
		v = strconv.FormatInt(s.ViewCounter, 10)
	case "lengthSeconds":
		v = strconv.Itoa(s.LengthSeconds)
	case "tags", "tagsExact":
		return strings.Fields(s.Tags)
	}
	if v == "" {
		return nil
	}
	return []string{v}
}
