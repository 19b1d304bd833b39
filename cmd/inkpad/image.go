package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/example/inkpad/internal/clipboard"
	"github.com/example/inkpad/internal/overlay"
	"github.com/example/inkpad/internal/session"
)

// imageCmd edits the image overlays of a note.
type imageCmd struct {
	op            string
	note          int64
	args          []string
	fromClipboard bool
	x, y          int
	*root
	fs *flag.FlagSet
}

func (c *imageCmd) FlagSet() *flag.FlagSet { return c.fs }

// imageArgs is the number of arguments after the note id each operation
// takes.
var imageArgs = map[string][2]int{
	"add":     {0, 1},
	"move":    {3, 3},
	"scale":   {2, 2},
	"opacity": {2, 2},
	"rotate":  {2, 2},
	"crop":    {1, 5},
	"rm":      {1, 1},
	"list":    {0, 0},
}

func parseImageCmd(args []string, r *root) (*imageCmd, error) {
	fs := flag.NewFlagSet("image", flag.ExitOnError)
	c := &imageCmd{root: r, fs: fs, x: -1, y: -1}
	fs.Usage = usageFunc(c)
	fs.BoolVar(&c.fromClipboard, "from-clipboard", false, "add the image on the clipboard")
	fs.BoolVar(&c.fromClipboard, "from-clip", false, "add the image on the clipboard (alias)")
	fs.IntVar(&c.x, "x", -1, "document x position for add")
	fs.IntVar(&c.y, "y", -1, "document y position for add")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 2 {
		return nil, &UsageError{of: c}
	}
	c.op = strings.ToLower(fs.Arg(0))
	n, ok := imageArgs[c.op]
	if !ok {
		return nil, &UsageError{of: c}
	}
	id, err := parseID(fs.Arg(1))
	if err != nil {
		return nil, err
	}
	c.note = id
	c.args = fs.Args()[2:]
	if len(c.args) < n[0] || len(c.args) > n[1] || (c.op == "crop" && len(c.args) != 1 && len(c.args) != 5) {
		return nil, fmt.Errorf("image %s: wrong number of arguments", c.op)
	}
	if c.op == "add" && (len(c.args) == 1) == c.fromClipboard {
		return nil, fmt.Errorf("image add needs either a file or -from-clipboard")
	}
	return c, nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// index parses an image index of doc.
func index(doc *overlay.Document, s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 || i >= len(doc.Images) {
		return 0, fmt.Errorf("no image %q (note has %d)", s, len(doc.Images))
	}
	return i, nil
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if strings.HasSuffix(s, "%") {
		v /= 100
	}
	return v, nil
}

// cropper returns the crop collaborator for the given arguments: a fixed
// rectangle when one was given, else the centred default.
func (c *imageCmd) cropper() (overlay.Cropper, error) {
	if c.op != "crop" || len(c.args) == 1 {
		return overlay.CenterCropper{}, nil
	}
	var v [4]int
	for i, a := range c.args[1:] {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", a)
		}
		v[i] = n
	}
	sel := image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3])
	return overlay.CropperFunc(func(*image.RGBA) (image.Rectangle, bool) { return sel, true }), nil
}

func (c *imageCmd) Run() error {
	ctx := context.Background()
	cropper, err := c.cropper()
	if err != nil {
		return err
	}
	st, err := c.openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	sess, err := c.openSession(ctx, st, c.note, session.Options{
		Surface: []overlay.SurfaceOption{overlay.WithCropper(cropper)},
	})
	if err != nil {
		return err
	}
	surf := sess.Surface
	doc := surf.Doc

	switch c.op {
	case "list":
		for i, im := range doc.Images {
			b := im.Bounds()
			fmt.Fprintf(c.out, "%d\t%d,%d\t%dx%d\tscale=%.2f\topacity=%.2f\tangle=%g\t%s\n",
				i, im.Pos.X, im.Pos.Y, b.Dx(), b.Dy(), im.Scale(), im.Opacity, im.Angle(), im.ID)
		}
		return nil
	case "add":
		var img image.Image
		if c.fromClipboard {
			img, err = clipboard.ReadImage()
		} else {
			img, err = loadImage(c.args[0])
		}
		if err != nil {
			return err
		}
		i := surf.InsertImage(img)
		if c.x >= 0 || c.y >= 0 {
			im := doc.Images[i]
			im.Pos = image.Pt(max(c.x, 0), max(c.y, 0))
		}
		fmt.Fprintln(c.out, i)
	default:
		i, err := index(doc, c.args[0])
		if err != nil {
			return err
		}
		im := doc.Images[i]
		switch c.op {
		case "move":
			x, errX := strconv.Atoi(c.args[1])
			y, errY := strconv.Atoi(c.args[2])
			if errX != nil || errY != nil {
				return fmt.Errorf("invalid position %s,%s", c.args[1], c.args[2])
			}
			im.Pos = image.Pt(x, y)
		case "scale":
			v, err := parseFloat(c.args[1])
			if err != nil {
				return err
			}
			im.SetScale(v)
		case "opacity":
			v, err := parseFloat(c.args[1])
			if err != nil {
				return err
			}
			im.SetOpacity(v)
		case "rotate":
			v, err := strconv.ParseFloat(c.args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid angle %q", c.args[1])
			}
			im.SetAngle(v)
		case "crop":
			if !surf.CropImage(i) {
				return fmt.Errorf("image crop: selection leaves image %d unchanged", i)
			}
		case "rm":
			surf.DeleteImage(i)
		}
	}
	return c.saveSession(ctx, sess)
}
