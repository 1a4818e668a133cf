// Package library writes finished tracks into the artist-partitioned output
// library: tagging chunks in place, moving them to their canonical location,
// dropping folder.jpg sidecars, scanning existing output for deduplication,
// and generating run playlists.
package library
