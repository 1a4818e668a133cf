package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/go-flac/flacpicture/v2"
	"github.com/go-flac/flacvorbis/v2"
	flac "github.com/go-flac/go-flac/v2"
)

// Metadata holds the tags written to a finished track.
type Metadata struct {
	Artist string
	Title  string
	Album  string
	Date   string // release date, YYYY or YYYY-MM-DD
	Label  string
	ISRC   string
	Genres []string
}

// Tag writes metadata and optional JPEG cover art into the audio file at
// path, dispatching on the file extension. Unsupported extensions are left
// untagged without error.
func Tag(path string, meta Metadata, artwork []byte) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".flac":
		return tagFLAC(path, meta, artwork)
	case ".mp3":
		return tagMP3(path, meta, artwork)
	default:
		return nil
	}
}

// tagFLAC replaces the file's Vorbis comment and picture blocks with fresh
// ones built from meta.
func tagFLAC(path string, meta Metadata, artwork []byte) error {
	f, err := flac.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parse flac: %w", err)
	}

	// Drop stale comment and picture blocks before appending replacements.
	kept := f.Meta[:0]
	for _, block := range f.Meta {
		if block.Type == flac.VorbisComment || block.Type == flac.Picture {
			continue
		}
		kept = append(kept, block)
	}
	f.Meta = kept

	cmt := flacvorbis.New()
	addField(cmt, flacvorbis.FIELD_ARTIST, meta.Artist)
	addField(cmt, flacvorbis.FIELD_TITLE, meta.Title)
	addField(cmt, flacvorbis.FIELD_ALBUM, meta.Album)
	addField(cmt, flacvorbis.FIELD_DATE, meta.Date)
	addField(cmt, flacvorbis.FIELD_ISRC, meta.ISRC)
	addField(cmt, "LABEL", meta.Label)
	for _, genre := range meta.Genres {
		addField(cmt, flacvorbis.FIELD_GENRE, genre)
	}
	cmtBlock := cmt.Marshal()
	f.Meta = append(f.Meta, &cmtBlock)

	if len(artwork) > 0 {
		pic, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, "Cover", artwork, "image/jpeg")
		if err != nil {
			return fmt.Errorf("build picture block: %w", err)
		}
		picBlock := pic.Marshal()
		f.Meta = append(f.Meta, &picBlock)
	}

	return f.Save(path)
}

func addField(cmt *flacvorbis.MetaDataBlockVorbisComment, key, value string) {
	if value != "" {
		cmt.Add(key, value)
	}
}

// tagMP3 writes ID3v2 frames. Sources sliced straight to MP3 keep their
// format, so the organizer still needs this path.
func tagMP3(path string, meta Metadata, artwork []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		if os.IsNotExist(err) {
			tag = id3v2.NewEmptyTag()
		} else {
			return err
		}
	}
	defer tag.Close()

	tag.SetArtist(meta.Artist)
	tag.SetTitle(meta.Title)
	tag.SetAlbum(meta.Album)
	if len(meta.Genres) > 0 {
		tag.SetGenre(meta.Genres[0])
	}
	if meta.Date != "" {
		tag.AddTextFrame("TDRC", id3v2.EncodingUTF8, meta.Date)
		if len(meta.Date) >= 4 {
			tag.AddTextFrame("TYER", id3v2.EncodingUTF8, meta.Date[:4])
		}
	}
	if meta.ISRC != "" {
		tag.AddTextFrame("TSRC", id3v2.EncodingUTF8, meta.ISRC)
	}
	if meta.Label != "" {
		tag.AddTextFrame("TPUB", id3v2.EncodingUTF8, meta.Label)
	}

	if len(artwork) > 0 {
		tag.DeleteFrames(tag.CommonID("Attached picture"))
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     artwork,
		})
	}

	return tag.Save()
}
