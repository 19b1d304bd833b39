// Package codec converts overlay documents to and from the JSON record
// stored alongside each note.
package codec

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/google/uuid"

	"github.com/example/inkpad/internal/overlay"
)

// Record is the persisted overlay of one note.
type Record struct {
	Strokes []StrokeRecord `json:"strokes"`
	Images  []ImageRecord  `json:"images"`
}

// StrokeRecord is the stored form of a stroke.
type StrokeRecord struct {
	Points [][2]int `json:"points"`
	Color  [3]int   `json:"color"`
	Width  int      `json:"width"`
	Alpha  int      `json:"alpha"`
	Mode   string   `json:"mode"`
}

// UnmarshalJSON fills width 2, alpha 255 and mode pen when absent.
func (s *StrokeRecord) UnmarshalJSON(b []byte) error {
	type plain StrokeRecord
	r := plain{Width: 2, Alpha: 255, Mode: string(overlay.ModePen)}
	if err := json.Unmarshal(b, &r); err != nil {
		return err
	}
	*s = StrokeRecord(r)
	return nil
}

// ImageRecord is the stored form of an image overlay. AbsPath is nil until
// the bitmap has been written by Media.
type ImageRecord struct {
	AbsPath *string `json:"abspath"`
	ID      string  `json:"id,omitempty"`
	Pos     [2]int  `json:"pos"`
	Opacity float64 `json:"opacity"`
	Scale   float64 `json:"scale"`
	Angle   float64 `json:"angle"`
}

// UnmarshalJSON fills pos (40,40), opacity 1 and scale 1 when absent.
func (r *ImageRecord) UnmarshalJSON(b []byte) error {
	type plain ImageRecord
	p := plain{Pos: [2]int{40, 40}, Opacity: 1, Scale: 1}
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = ImageRecord(p)
	return nil
}

// Loader reads the bitmap stored at path.
type Loader func(path string) (image.Image, error)

// Encode captures doc. Strokes with fewer than two points are omitted and
// image paths are left for the caller to fill.
func Encode(doc *overlay.Document) Record {
	rec := Record{
		Strokes: make([]StrokeRecord, 0, len(doc.Strokes)),
		Images:  make([]ImageRecord, 0, len(doc.Images)),
	}
	for _, s := range doc.Strokes {
		if !s.Visible() {
			continue
		}
		sr := StrokeRecord{
			Points: make([][2]int, len(s.Points)),
			Color:  [3]int{int(s.Color.R), int(s.Color.G), int(s.Color.B)},
			Width:  s.Width,
			Alpha:  int(s.Alpha),
			Mode:   string(s.Mode),
		}
		for i, p := range s.Points {
			sr.Points[i] = [2]int{p.X, p.Y}
		}
		rec.Strokes = append(rec.Strokes, sr)
	}
	for _, im := range doc.Images {
		rec.Images = append(rec.Images, ImageRecord{
			ID:      im.ID.String(),
			Pos:     [2]int{im.Pos.X, im.Pos.Y},
			Opacity: im.Opacity,
			Scale:   im.Scale(),
			Angle:   im.Angle(),
		})
	}
	return rec
}

// Decode rebuilds a document. Images whose bitmap cannot be loaded are
// skipped and logged; they never fail the whole document.
func Decode(rec Record, load Loader) *overlay.Document {
	doc := overlay.NewDocument()
	for _, sr := range rec.Strokes {
		if len(sr.Points) < 2 {
			continue
		}
		mode, _ := overlay.ParseMode(sr.Mode)
		s := overlay.Stroke{
			Points: make([]image.Point, len(sr.Points)),
			Color:  color.RGBA{channel(sr.Color[0]), channel(sr.Color[1]), channel(sr.Color[2]), 0xff},
			Width:  max(1, sr.Width),
			Alpha:  channel(sr.Alpha),
			Mode:   mode,
		}
		for i, p := range sr.Points {
			s.Points[i] = image.Pt(p[0], p[1])
		}
		doc.AddStroke(s)
	}
	for i, ir := range rec.Images {
		if ir.AbsPath == nil || *ir.AbsPath == "" {
			log.Printf("overlay image %d: no path", i)
			continue
		}
		if load == nil {
			continue
		}
		img, err := load(*ir.AbsPath)
		if err != nil {
			log.Printf("overlay image %d: %v", i, err)
			continue
		}
		im := overlay.NewImageOverlay(img, image.Pt(ir.Pos[0], ir.Pos[1]))
		if id, err := uuid.Parse(ir.ID); err == nil {
			im.ID = id
		}
		im.SetOpacity(ir.Opacity)
		im.SetTransform(ir.Scale, ir.Angle)
		doc.AddImage(im)
	}
	return doc
}

// Marshal encodes rec as JSON.
func Marshal(rec Record) ([]byte, error) {
	if rec.Strokes == nil {
		rec.Strokes = []StrokeRecord{}
	}
	if rec.Images == nil {
		rec.Images = []ImageRecord{}
	}
	return json.Marshal(rec)
}

// Unmarshal parses a stored overlay. Empty input is an empty record.
func Unmarshal(data []byte) (Record, error) {
	var rec Record
	if len(data) == 0 {
		return rec, nil
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("decode overlay: %w", err)
	}
	return rec, nil
}

func channel(v int) uint8 {
	return uint8(min(255, max(0, v)))
}
