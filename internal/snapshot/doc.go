// Package snapshot stores configuration documents as timestamped JSON files.
//
// A Store owns one folder and one file name prefix:
//
//	store := snapshot.NewSegmentStore("backups")
//	path, err := store.Write(doc) // backups/segments_20250114093015.json
//
// Files are written whole: the document goes to a temporary file in the
// same folder first and is renamed into place, so an interrupted run never
// leaves a truncated snapshot behind. Two writes within the same second get
// distinct names (segments_20250114093015_1.json).
//
// Snapshots are never modified after they are written. List, Latest and
// Prune only look at file names that match the store's pattern.
package snapshot
