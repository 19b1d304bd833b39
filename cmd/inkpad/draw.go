package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/example/inkpad/internal/overlay"
	"github.com/example/inkpad/internal/session"
)

// drawCmd adds a stroke to a note by replaying the points as a pointer
// gesture on the note's surface.
type drawCmd struct {
	note      int64
	toolName  string
	colorSpec string
	width     int
	scroll    int
	points    []image.Point
	*root
	fs *flag.FlagSet
}

func (c *drawCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	c := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.toolName, "tool", "pen", "pencil, pen or marker")
	fs.StringVar(&c.colorSpec, "color", "", "stroke color name or hex value (defaults to the tool color)")
	fs.IntVar(&c.width, "width", 0, "stroke width in pixels (defaults to the tool width)")
	fs.IntVar(&c.scroll, "scroll", 0, "vertical scroll offset the points are relative to")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 1 {
		return nil, &UsageError{of: c}
	}
	id, err := parseID(fs.Arg(0))
	if err != nil {
		return nil, err
	}
	c.note = id
	if c.points, err = parsePoints(fs.Args()[1:]); err != nil {
		return nil, err
	}
	if len(c.points) < 2 {
		return nil, fmt.Errorf("draw needs at least two points")
	}
	return c, nil
}

// parsePoints reads "x,y" pairs or a flat list of x y integers.
func parsePoints(args []string) ([]image.Point, error) {
	var vals []int
	for _, a := range args {
		for _, part := range strings.Split(a, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			v, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid integer %q", part)
			}
			vals = append(vals, v)
		}
	}
	if len(vals)%2 != 0 {
		return nil, fmt.Errorf("points need an even number of coordinates, got %d", len(vals))
	}
	pts := make([]image.Point, 0, len(vals)/2)
	for i := 0; i < len(vals); i += 2 {
		pts = append(pts, image.Pt(vals[i], vals[i+1]))
	}
	return pts, nil
}

// gesture replays pts as press, moves and release.
func gesture(s *overlay.Surface, pts []image.Point) {
	s.PointerDown(pts[0])
	for _, p := range pts[1:] {
		s.PointerMove(p)
	}
	s.PointerUp(pts[len(pts)-1])
}

func (c *drawCmd) Run() error {
	tool, err := overlay.ParseTool(c.toolName)
	if err != nil {
		return err
	}
	mode, ok := tool.Mode()
	if !ok {
		return fmt.Errorf("draw: %s is not a drawing tool", tool)
	}
	ctx := context.Background()
	st, err := c.openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	sess, err := c.openSession(ctx, st, c.note, session.Options{})
	if err != nil {
		return err
	}
	surf := sess.Surface
	surf.SetTool(tool)
	if c.colorSpec != "" {
		col, err := overlay.ParseColor(c.colorSpec)
		if err != nil {
			return err
		}
		col.A = 0xff
		surf.Settings.Colors[mode] = col
	}
	if c.width > 0 {
		surf.Settings.SetWidth(tool, c.width)
	}
	surf.ScrollY = c.scroll
	before := len(surf.Doc.Strokes)
	gesture(surf, c.points)
	if len(surf.Doc.Strokes) == before {
		return fmt.Errorf("draw: nothing was drawn")
	}
	if err := c.saveSession(ctx, sess); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%d strokes\n", len(surf.Doc.Strokes))
	return nil
}

// eraseCmd runs the radius or lasso eraser along a path.
type eraseCmd struct {
	note   int64
	mode   overlay.EraserMode
	width  int
	scroll int
	points []image.Point
	*root
	fs *flag.FlagSet
}

func (c *eraseCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseEraseCmd(args []string, r *root) (*eraseCmd, error) {
	fs := flag.NewFlagSet("erase", flag.ExitOnError)
	c := &eraseCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.IntVar(&c.width, "width", 0, "eraser width in pixels (defaults to the saved width)")
	fs.IntVar(&c.scroll, "scroll", 0, "vertical scroll offset the points are relative to")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 3 {
		return nil, &UsageError{of: c}
	}
	switch strings.ToLower(fs.Arg(0)) {
	case "radius", "normal":
		c.mode = overlay.EraserNormal
	case "lasso":
		c.mode = overlay.EraserLasso
	default:
		return nil, &UsageError{of: c}
	}
	id, err := parseID(fs.Arg(1))
	if err != nil {
		return nil, err
	}
	c.note = id
	if c.points, err = parsePoints(fs.Args()[2:]); err != nil {
		return nil, err
	}
	if len(c.points) < 2 {
		return nil, fmt.Errorf("erase needs at least two points")
	}
	return c, nil
}

func (c *eraseCmd) Run() error {
	ctx := context.Background()
	st, err := c.openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	sess, err := c.openSession(ctx, st, c.note, session.Options{})
	if err != nil {
		return err
	}
	surf := sess.Surface
	surf.SetTool(overlay.ToolEraser)
	surf.Settings.EraserMode = c.mode
	if c.width > 0 {
		surf.Settings.SetWidth(overlay.ToolEraser, c.width)
	}
	surf.ScrollY = c.scroll
	before := len(surf.Doc.Strokes)
	gesture(surf, c.points)
	if err := c.saveSession(ctx, sess); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%d strokes (was %d)\n", len(surf.Doc.Strokes), before)
	return nil
}
