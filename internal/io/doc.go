// Package ioutils provides file system utilities and snapshot persistence.
//
// # Snapshots
//
// SaveSnapshot wraps a result mapping with its metadata and writes it:
//
//	path, err := ioutils.SaveSnapshot(ctx, "data", "vocaloid_birthday_songs.json",
//	    mapping, time.Now(), model.DefaultDescription)
//
// The written document looks like:
//
//	{
//	  "metadata": {
//	    "collected_at": "2025-01-01T09:00:00+09:00",
//	    "total_days": 366,
//	    "total_songs": 18300,
//	    "description": "..."
//	  },
//	  "data": {
//	    "01-01": [ ... ],
//	    ...
//	  }
//	}
//
// LoadSnapshot reads it back.
//
// # File Operations
//
//	err := ioutils.EnsureDir("/path/to/new/directory")
//	err := ioutils.WriteFile(ctx, "/path/to/file.json", data)
//	safe := ioutils.SanitizeFileName("Song: Part 1/2") // "Song_ Part 1_2"
package ioutils
