package codec

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/example/inkpad/internal/overlay"
)

// Naming selects how image files are named on disk.
type Naming string

const (
	// NamingOrdinal names files by the image's index at save time.
	// Reordering images between saves overwrites by position.
	NamingOrdinal Naming = "ordinal"
	// NamingStable names files by the image's ID.
	NamingStable Naming = "stable"
)

// ParseNaming maps a config value to a Naming, defaulting to ordinal.
func ParseNaming(s string) (Naming, error) {
	switch Naming(s) {
	case "", NamingOrdinal:
		return NamingOrdinal, nil
	case NamingStable:
		return NamingStable, nil
	}
	return NamingOrdinal, fmt.Errorf("unknown image naming %q", s)
}

// Media writes and reads the PNG files behind image overlays.
type Media struct {
	Dir    string
	Naming Naming
}

// NewMedia returns a Media rooted at dir.
func NewMedia(dir string, naming Naming) *Media {
	return &Media{Dir: dir, Naming: naming}
}

// Path returns the file an image of a note is stored at.
func (m *Media) Path(userID, noteID int64, index int, im *overlay.ImageOverlay) string {
	key := fmt.Sprint(index)
	if m.Naming == NamingStable {
		key = im.ID.String()
	}
	return filepath.Join(m.Dir, fmt.Sprintf("%d-%d-%s.png", userID, noteID, key))
}

// Save writes the source bitmap of every image in doc to a staging file
// and fills the final paths in rec. Nothing on disk that an earlier
// record points at changes until the returned Pending is committed.
func (m *Media) Save(rec *Record, doc *overlay.Document, userID, noteID int64) (*Pending, error) {
	if len(rec.Images) != len(doc.Images) {
		return nil, fmt.Errorf("record has %d images, document has %d", len(rec.Images), len(doc.Images))
	}
	if err := os.MkdirAll(m.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	p := &Pending{
		media:  m,
		user:   userID,
		note:   noteID,
		staged: make(map[string]string, len(doc.Images)),
		keep:   make(map[string]bool, len(doc.Images)),
	}
	for i, im := range doc.Images {
		path, err := filepath.Abs(m.Path(userID, noteID, i, im))
		if err != nil {
			p.Discard()
			return nil, err
		}
		tmp, err := writeTemp(m.Dir, im.Source())
		if err != nil {
			p.Discard()
			return nil, fmt.Errorf("save image %d: %w", i, err)
		}
		rec.Images[i].AbsPath = &path
		p.staged[path] = tmp
		p.keep[path] = true
	}
	return p, nil
}

// Pending is a set of image files written by Save but not yet moved into
// place.
type Pending struct {
	media      *Media
	user, note int64
	staged     map[string]string // final path to staging file
	keep       map[string]bool
}

// Commit moves the staged files into place and removes the note's files
// the saved record no longer references.
func (p *Pending) Commit() error {
	for path, tmp := range p.staged {
		if err := os.Rename(tmp, path); err != nil {
			p.Discard()
			return fmt.Errorf("place image %s: %w", path, err)
		}
		delete(p.staged, path)
	}
	p.media.prune(p.user, p.note, p.keep)
	return nil
}

// Discard removes the staged files and leaves the note's files alone.
func (p *Pending) Discard() {
	for path, tmp := range p.staged {
		if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
			log.Printf("remove staged image %s: %v", tmp, err)
		}
		delete(p.staged, path)
	}
}

func (m *Media) prune(userID, noteID int64, keep map[string]bool) {
	matches, err := filepath.Glob(filepath.Join(m.Dir, fmt.Sprintf("%d-%d-*.png", userID, noteID)))
	if err != nil {
		return
	}
	for _, f := range matches {
		abs, err := filepath.Abs(f)
		if err != nil || keep[abs] {
			continue
		}
		if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
			log.Printf("remove stale image %s: %v", abs, err)
		}
	}
}

// RemoveAll deletes every image file of a note.
func (m *Media) RemoveAll(userID, noteID int64) {
	m.prune(userID, noteID, nil)
}

// Load decodes the PNG at path.
func (m *Media) Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("error closing %q: %v", path, err)
		}
	}()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// writeTemp encodes img to a hidden file in dir and returns its path.
func writeTemp(dir string, img image.Image) (string, error) {
	tmp, err := os.CreateTemp(dir, ".inkpad-*.png")
	if err != nil {
		return "", err
	}
	if err := png.Encode(tmp, img); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
