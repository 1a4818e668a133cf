// Package session persists the two-phase preview/apply workflow. A preview
// run writes a versioned JSON artifact (identification results plus the
// artwork cache) and stages segment audio beside it; apply replays the
// artifact into the library, re-segmenting any source whose staged chunks
// are gone. The artifact and staging directory are removed only after a
// successful apply or an explicit cancel.
package session
