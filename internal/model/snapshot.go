package model

import "time"

// DefaultDescription is the description written into every snapshot.
const DefaultDescription = "VOCALOID 곡들의 생일별 데이터베이스"

// Snapshot is the persisted output document: a metadata block plus the
// collected mapping.
type Snapshot struct {
	Metadata Metadata      `json:"metadata"`
	Data     ResultMapping `json:"data"`
}

// Metadata describes one collection run.
type Metadata struct {
	// CollectedAt is when the snapshot was assembled.
	CollectedAt time.Time `json:"collected_at"`

	// TotalDays is the number of day keys in Data.
	TotalDays int `json:"total_days"`

	// TotalSongs is the number of records across all day keys.
	TotalSongs int `json:"total_songs"`

	Description string `json:"description"`
}

// NewSnapshot wraps a mapping with metadata computed from it.
//
// A nil mapping is replaced with an empty one so the document always carries
// a "data" object.
func NewSnapshot(data ResultMapping, collectedAt time.Time, description string) *Snapshot {
	if data == nil {
		data = ResultMapping{}
	}
	return &Snapshot{
		Metadata: Metadata{
			CollectedAt: collectedAt,
			TotalDays:   data.Days(),
			TotalSongs:  data.Songs(),
			Description: description,
		},
		Data: data,
	}
}
