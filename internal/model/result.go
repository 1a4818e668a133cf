package model

// Status classifies the outcome of identifying one segment.
type Status string

const (
	StatusIdentified   Status = "identified"
	StatusUnidentified Status = "unidentified"
	StatusSkipped      Status = "skipped"
)

// SkipReason explains why a segment produced no output.
type SkipReason string

const (
	SkipTooShort      SkipReason = "too_short"
	SkipAlreadyExists SkipReason = "already_exists"
)

// Identification sources.
const (
	SourceACRCloud = "acrcloud"
	SourceAcoustID = "acoustid"
)

// Enrichment holds optional extended metadata looked up after a successful
// identification. Empty fields mean the enrichment provider had nothing.
type Enrichment struct {
	Genres      []string `json:"genres,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"`
	Label       string   `json:"label,omitempty"`
	ISRC        string   `json:"isrc,omitempty"`
	Album       string   `json:"album,omitempty"`
}

// Empty reports whether no enrichment field is set.
func (e Enrichment) Empty() bool {
	return len(e.Genres) == 0 && e.ReleaseDate == "" && e.Label == "" && e.ISRC == "" && e.Album == ""
}

// TrackResult is the outcome of processing one segment through the
// identification pipeline. The populated fields depend on Status:
//
//   - identified: Artist, Title, Album, ExpectedFilename and
//     IdentificationSource are set; ArtURL and Enhanced are optional.
//   - unidentified: UnidentifiedFilename is set.
//   - skipped: Reason is set; identification fields may be present when the
//     skip happened after a successful match (already_exists).
//
// OriginalFile, ChunkIndex and TempChunkPath tie the result back to its
// segment so a session apply can reconstruct the audio later.
type TrackResult struct {
	Status Status     `json:"status"`
	Reason SkipReason `json:"reason,omitempty"`

	// Index is the flat position within the batch's segment list; FileNum
	// the 1-based source number across the run.
	Index   int `json:"index"`
	FileNum int `json:"file_num"`

	Artist string `json:"artist,omitempty"`
	Title  string `json:"title,omitempty"`
	Album  string `json:"album,omitempty"`

	ArtURL               string      `json:"art_url,omitempty"`
	ExpectedFilename     string      `json:"expected_filename,omitempty"`
	IdentificationSource string      `json:"identification_source,omitempty"`
	Enhanced             *Enrichment `json:"enhanced_metadata,omitempty"`

	UnidentifiedFilename string `json:"unidentified_filename,omitempty"`

	OriginalFile  string `json:"original_file"`
	ChunkIndex    int    `json:"chunk_index"`
	TempChunkPath string `json:"temp_chunk_path,omitempty"`
}

// Identified reports whether the result carries a usable identification.
func (r TrackResult) Identified() bool {
	return r.Status == StatusIdentified
}
