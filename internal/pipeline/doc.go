// Package pipeline runs segment identification: a rate-limited primary
// provider with an optional fallback, a cross-run claim set that makes each
// canonical filename win at most once, metadata enrichment, and artwork URL
// resolution. Segments are processed by a bounded worker pool; results keep
// their input ordering.
package pipeline
