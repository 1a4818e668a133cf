package library

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chefkjd/MixSplitR/internal/ioutils"
	"github.com/chefkjd/MixSplitR/internal/model"
	"github.com/chefkjd/MixSplitR/internal/progress"
)

// Organizer moves finished chunks into the artist-partitioned library.
//
// Layout:
//
//	<root>/<Artist>/<Artist> - <Title>.flac
//	<root>/<Artist>/folder.jpg
//	<root>/File3_Track_2_Unidentified.flac
type Organizer struct {
	root     string
	images   *ioutils.ImageService
	coverMax int
	progress progress.Func
}

// NewOrganizer returns an organizer writing under root. coverMax bounds the
// longest edge of embedded and sidecar artwork.
func NewOrganizer(root string, coverMax int, pf progress.Func) *Organizer {
	return &Organizer{
		root:     root,
		images:   ioutils.NewImageService(),
		coverMax: coverMax,
		progress: pf,
	}
}

// Root returns the library root directory.
func (o *Organizer) Root() string { return o.root }

// DestPath returns where an identified chunk will end up. The extension
// follows the chunk so re-encoded and pass-through formats both land right.
func (o *Organizer) DestPath(chunkPath, artist, title string) string {
	name := model.CanonicalFileName(artist, title, filepath.Ext(chunkPath))
	return filepath.Join(o.root, model.SanitizeFileName(artist), name)
}

// PlaceIdentified tags the chunk, moves it to its canonical location, and
// drops a folder.jpg sidecar next to it when the artist directory has none.
// If the destination already exists the chunk is discarded and os.ErrExist
// is returned with the destination path.
//
// Tagging failures are reported but never lose audio: the chunk still moves.
func (o *Organizer) PlaceIdentified(chunkPath string, meta Metadata, artwork []byte) (string, error) {
	dest := o.DestPath(chunkPath, meta.Artist, meta.Title)
	if _, err := os.Stat(dest); err == nil {
		return dest, os.ErrExist
	}
	if err := ioutils.EnsureDir(filepath.Dir(dest)); err != nil {
		return "", err
	}

	cover := o.prepareCover(artwork)
	if err := Tag(chunkPath, meta, cover); err != nil {
		o.progress.Emit(progress.LevelWarning,
			fmt.Sprintf("Could not tag %s: %v", filepath.Base(dest), err))
	}

	if err := ioutils.MoveFile(chunkPath, dest); err != nil {
		return "", fmt.Errorf("move %s: %w", filepath.Base(dest), err)
	}

	if len(cover) > 0 {
		o.writeSidecar(filepath.Dir(dest), cover)
	}
	return dest, nil
}

// PlaceUnidentified moves an unidentifiable chunk to the library root under
// its placeholder name. An existing destination means a previous run already
// placed it; the chunk is discarded and os.ErrExist returned.
func (o *Organizer) PlaceUnidentified(chunkPath, name string) (string, error) {
	dest := filepath.Join(o.root, name)
	if _, err := os.Stat(dest); err == nil {
		return dest, os.ErrExist
	}
	if err := ioutils.EnsureDir(o.root); err != nil {
		return "", err
	}
	if err := ioutils.MoveFile(chunkPath, dest); err != nil {
		return "", fmt.Errorf("move %s: %w", name, err)
	}
	return dest, nil
}

// prepareCover normalizes raw artwork to a bounded JPEG. Bad image data is
// dropped rather than failing the track.
func (o *Organizer) prepareCover(artwork []byte) []byte {
	if len(artwork) == 0 {
		return nil
	}
	cover, err := o.images.PrepareCover(artwork, o.coverMax)
	if err != nil {
		o.progress.Emit(progress.LevelVerbose, fmt.Sprintf("Discarding unusable artwork: %v", err))
		return nil
	}
	return cover
}

// writeSidecar drops folder.jpg in the artist directory once.
func (o *Organizer) writeSidecar(artistDir string, cover []byte) {
	sidecar := filepath.Join(artistDir, "folder.jpg")
	if _, err := os.Stat(sidecar); err == nil {
		return
	}
	if err := os.WriteFile(sidecar, cover, 0o644); err != nil {
		o.progress.Emit(progress.LevelVerbose, fmt.Sprintf("Could not write folder.jpg: %v", err))
	}
}
