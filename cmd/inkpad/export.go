package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/example/inkpad/internal/clipboard"
	"github.com/example/inkpad/internal/render"
	"github.com/example/inkpad/internal/session"
)

// exportCmd writes a note as a flattened PNG, a PDF or plain text.
type exportCmd struct {
	format      string
	note        int64
	output      string
	width       int
	toClipboard bool
	*root
	fs *flag.FlagSet
}

func (c *exportCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseExportCmd(args []string, r *root) (*exportCmd, error) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	c := &exportCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.output, "o", "", `output file, "-" for stdout (defaults to note-<id>.<format>)`)
	fs.IntVar(&c.width, "width", 0, "canvas width in pixels (defaults to export_width)")
	fs.BoolVar(&c.toClipboard, "to-clipboard", false, "copy the result to the clipboard instead of writing a file")
	fs.BoolVar(&c.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 2 {
		return nil, &UsageError{of: c}
	}
	c.format = strings.ToLower(fs.Arg(0))
	switch c.format {
	case "png", "pdf", "txt":
	default:
		return nil, &UsageError{of: c}
	}
	if c.toClipboard && c.format == "pdf" {
		return nil, fmt.Errorf("-to-clipboard supports png and txt exports only")
	}
	id, err := parseID(fs.Arg(1))
	if err != nil {
		return nil, err
	}
	c.note = id
	return c, nil
}

// plainExport is the text form of a note: title, blank line, body.
func plainExport(title, body string) string {
	return title + "\n\n" + render.PlainText(body) + "\n"
}

func (c *exportCmd) Run() error {
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
	width := c.width
	if width <= 0 {
		width = c.config.ExportWidth
	}

	var buf bytes.Buffer
	switch c.format {
	case "png":
		img, err := render.Flatten(sess.Doc(), sess.Content, width)
		if err != nil {
			return fmt.Errorf("flatten note %d: %w", c.note, err)
		}
		if c.toClipboard {
			if err := clipboard.WriteImage(img); err != nil {
				return fmt.Errorf("copy note %d: %w", c.note, err)
			}
			c.notifier.Copied("note image")
			return nil
		}
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("encode note %d: %w", c.note, err)
		}
	case "pdf":
		if err := render.WritePDF(&buf, sess.Doc(), sess.Content, render.Options{Width: width}); err != nil {
			return fmt.Errorf("pdf note %d: %w", c.note, err)
		}
	case "txt":
		text := plainExport(sess.Title, sess.Content)
		if c.toClipboard {
			if err := clipboard.WriteText(text); err != nil {
				return fmt.Errorf("copy note %d: %w", c.note, err)
			}
			c.notifier.Copied("note text")
			return nil
		}
		buf.WriteString(text)
	}
	return c.write(buf.Bytes())
}

func (c *exportCmd) write(data []byte) error {
	if c.output == "-" {
		_, err := io.Copy(c.out, bytes.NewReader(data))
		return err
	}
	path := c.output
	if path == "" {
		path = fmt.Sprintf("note-%d.%s", c.note, c.format)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	c.notifier.Exported(path)
	fmt.Fprintln(c.out, path)
	return nil
}
