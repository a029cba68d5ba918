// Package state holds the client's domain collections: brands, themes with
// their posts, the saved posts a user curated for scheduling, and platform
// connections.
//
// # Ownership
//
// Store is the only owner of these collections. Other packages keep ids
// (the selected brand, the selected theme) and resolve them through Brand,
// Theme or a Snapshot on every read, so a view never holds a stale copy.
//
// # Concurrency Model
//
// Store uses a readers-writer lock:
//
//   - mutations (AddBrand, AppendPost, SaveSelectedPosts, ...) take the
//     write lock and are serialized
//   - lookups and Snapshot take the read lock and return deep copies
//
// Stream pumps call AppendPost from their own goroutines while the UI
// reads snapshots; neither side ever sees a partially applied mutation.
//
// # Commit Rules
//
// The store performs no I/O. Operations that must be confirmed by the
// backend (creating a brand or theme, updating a theme) are applied here
// only after the remote call succeeded. AppendPost is the exception: it is
// called once per streamed post because the backend has already persisted
// the post when it emits the event.
//
// # Saved Posts
//
// SaveSelectedPosts copies the selected posts of a theme, keeping their
// ids. A saved post belongs to the brand of the theme it came from, which
// SavedPostsForBrand resolves through the post's ThemeID.
//
// The zero Store is ready to use:
//
//	var s state.Store
//	s.Hydrate(brands, themes)
//	snap := s.Snapshot()
package state
