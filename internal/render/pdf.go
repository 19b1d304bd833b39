package render

import (
	"bytes"
	"fmt"
	"image/png"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/example/inkpad/internal/overlay"
)

// WritePDF writes a single-page PDF sized to the flattened canvas. Text
// and images are embedded as one raster; strokes stay vector paths.
func WritePDF(w io.Writer, doc *overlay.Document, body string, opts Options) error {
	base, err := flattenBase(doc, body, opts)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, base); err != nil {
		return fmt.Errorf("encode page: %w", err)
	}
	pw := float64(base.Bounds().Dx())
	ph := float64(base.Bounds().Dy())

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: pw, Ht: ph},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("page", imgOpts, &buf)
	pdf.ImageOptions("page", 0, 0, pw, ph, false, imgOpts, 0, "")

	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")
	for _, s := range doc.Strokes {
		if !s.Visible() {
			continue
		}
		pdf.SetDrawColor(int(s.Color.R), int(s.Color.G), int(s.Color.B))
		pdf.SetLineWidth(float64(s.Width))
		pdf.SetAlpha(float64(s.Alpha)/255, "Normal")
		pdf.MoveTo(float64(s.Points[0].X), float64(s.Points[0].Y))
		for _, p := range s.Points[1:] {
			pdf.LineTo(float64(p.X), float64(p.Y))
		}
		pdf.DrawPath("D")
	}
	pdf.SetAlpha(1, "Normal")
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
