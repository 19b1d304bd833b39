package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/example/inkpad/internal/editor"
	"github.com/example/inkpad/internal/session"
	"github.com/example/inkpad/internal/theme"
)

// editCmd opens a note in the interactive editor.
type editCmd struct {
	note          int64
	width, height int
	theme         string
	*root
	fs *flag.FlagSet
}

func (c *editCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	c := &editCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.IntVar(&c.width, "width", 1000, "window width")
	fs.IntVar(&c.height, "height", 760, "window height")
	fs.StringVar(&c.theme, "theme", os.Getenv("INKPAD_THEME"), "colour theme: a builtin name, a name under the themes directory or a file path")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	id, err := parseID(fs.Arg(0))
	if err != nil {
		return nil, err
	}
	c.note = id
	return c, nil
}

func (c *editCmd) Run() error {
	st, err := c.openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	th, err := theme.NewLoader().Load(c.theme)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, using the default theme\n", err)
		th = theme.Default()
	}
	ed := editor.New(
		editor.WithTheme(th),
		editor.WithNotifier(c.notifier),
		editor.WithExportWidth(c.config.ExportWidth),
		editor.WithSize(c.width, c.height),
	)
	sess, err := c.openSession(context.Background(), st, c.note, session.Options{
		Post:      ed.Post,
		SaveDelay: c.config.Autosave,
		OnSave:    ed.Saved,
		Surface:   ed.SurfaceOptions(),
	})
	if err != nil {
		return err
	}
	return ed.Run(sess)
}
