// Package model defines the core data structures shared by the collector,
// the search client and the persister.
//
// # Day keys
//
// DayKey identifies a calendar day across years:
//
//	key := model.NewDayKey(12, 25) // "12-25"
//
// # Records
//
// Record holds one search hit verbatim. The typed Song view exposes the
// fields the search client requests:
//
//	song, err := record.Song()
//	fmt.Println(song.Title, song.ViewCounter)
//
// # Snapshots
//
// ResultMapping maps day keys to records; Snapshot wraps it with metadata
// for persistence:
//
//	snap := model.NewSnapshot(mapping, time.Now(), model.DefaultDescription)
//	fmt.Println(snap.Metadata.TotalDays, snap.Metadata.TotalSongs)
package model
