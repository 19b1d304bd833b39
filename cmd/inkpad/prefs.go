package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/inkpad/internal/overlay"
	"github.com/example/inkpad/internal/store"
)

// prefsCmd shows or changes the stored tool preferences.
type prefsCmd struct {
	op   string
	args []string
	*root
	fs *flag.FlagSet
}

func (c *prefsCmd) FlagSet() *flag.FlagSet { return c.fs }

func parsePrefsCmd(args []string, r *root) (*prefsCmd, error) {
	fs := flag.NewFlagSet("prefs", flag.ExitOnError)
	c := &prefsCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 1 {
		return nil, &UsageError{of: c}
	}
	c.op = strings.ToLower(fs.Arg(0))
	c.args = fs.Args()[1:]
	switch {
	case c.op == "show" && len(c.args) == 0:
	case c.op == "set" && len(c.args) == 2:
	default:
		return nil, &UsageError{of: c}
	}
	return c, nil
}

// applyPref sets one "<mode>_color", "<mode>_width" or "eraser_mode" key.
func applyPref(s *overlay.Settings, key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "eraser_mode" {
		s.EraserMode = overlay.ParseEraserMode(value)
		return nil
	}
	name, field, ok := strings.Cut(key, "_")
	if !ok {
		return fmt.Errorf("unknown preference %q", key)
	}
	tool, err := overlay.ParseTool(name)
	if err != nil {
		return fmt.Errorf("unknown preference %q", key)
	}
	switch field {
	case "width":
		w, err := strconv.Atoi(value)
		if err != nil || w < 1 {
			return fmt.Errorf("invalid width %q", value)
		}
		if tool != overlay.ToolEraser {
			if _, ok := tool.Mode(); !ok {
				return fmt.Errorf("unknown preference %q", key)
			}
		}
		s.SetWidth(tool, w)
		return nil
	case "color":
		m, ok := tool.Mode()
		if !ok {
			return fmt.Errorf("unknown preference %q", key)
		}
		col, err := overlay.ParseColor(value)
		if err != nil {
			return err
		}
		col.A = 0xff
		s.Colors[m] = col
		return nil
	}
	return fmt.Errorf("unknown preference %q", key)
}

func (c *prefsCmd) Run() error {
	ctx := context.Background()
	settings, err := c.config.Settings()
	if err != nil {
		return err
	}
	st, err := c.openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	p, err := st.ToolPrefs(ctx, c.config.User)
	switch {
	case err == nil:
		settings.ApplyPrefs(p)
	case !errors.Is(err, store.ErrNotFound):
		return err
	}

	if c.op == "set" {
		if err := applyPref(settings, c.args[0], c.args[1]); err != nil {
			return err
		}
		return st.SetToolPrefs(ctx, c.config.User, settings.Prefs())
	}
	for _, m := range overlay.Modes {
		col, w, a := settings.Style(m)
		fmt.Fprintf(c.out, "%s\tcolor=%s\twidth=%d\talpha=%d\n", m, overlay.Hex(col), w, a)
	}
	fmt.Fprintf(c.out, "eraser\twidth=%d\tmode=%s\n", settings.EraserWidth, settings.EraserMode)
	return nil
}
