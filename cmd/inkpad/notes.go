package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/inkpad/internal/clipboard"
	"github.com/example/inkpad/internal/render"
	"github.com/example/inkpad/internal/session"
	"github.com/example/inkpad/internal/store"
)

// newCmd creates an empty or prefilled note.
type newCmd struct {
	folder        string
	content       string
	title         string
	fromClipboard bool
	*root
	fs *flag.FlagSet
}

func (c *newCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseNewCmd(args []string, r *root) (*newCmd, error) {
	fs := flag.NewFlagSet("new", flag.ExitOnError)
	c := &newCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.folder, "folder", "", "folder id to file the note under")
	fs.StringVar(&c.content, "content", "", "initial note body")
	fs.BoolVar(&c.fromClipboard, "from-clipboard", false, "use the text on the clipboard as the note body")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.fromClipboard && c.content != "" {
		return nil, fmt.Errorf("new: -content and -from-clipboard are exclusive")
	}
	c.title = strings.TrimSpace(strings.Join(fs.Args(), " "))
	if c.title == "" {
		c.title = session.UntitledTitle
	}
	return c, nil
}

func (c *newCmd) Run() error {
	folder, err := parseFolder(c.folder)
	if err != nil {
		return err
	}
	if c.fromClipboard {
		text, err := clipboard.ReadText()
		if err != nil {
			return fmt.Errorf("read clipboard: %w", err)
		}
		c.content = text
	}
	st, err := c.openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	id, err := st.CreateNote(context.Background(), c.config.User, folder, c.title, c.content)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, id)
	return nil
}

// listCmd prints notes, newest first.
type listCmd struct {
	folder  string
	query   string
	byTitle bool
	*root
	fs *flag.FlagSet
}

func (c *listCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseListCmd(args []string, r *root) (*listCmd, error) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	c := &listCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.folder, "folder", "", `folder id to list, or "none" for uncategorized notes`)
	fs.StringVar(&c.query, "q", "", "only titles containing this text")
	fs.BoolVar(&c.byTitle, "by-title", false, "sort by title instead of modification time")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *listCmd) filter() (store.Filter, error) {
	f := store.Filter{Query: c.query, ByTitle: c.byTitle}
	switch strings.ToLower(strings.TrimSpace(c.folder)) {
	case "":
		f.Scope = store.ScopeAll
	case "none", "0":
		f.Scope = store.ScopeUncategorized
	default:
		id, err := parseID(c.folder)
		if err != nil {
			return f, err
		}
		f.Scope, f.FolderID = store.ScopeFolder, id
	}
	return f, nil
}

func (c *listCmd) Run() error {
	f, err := c.filter()
	if err != nil {
		return err
	}
	st, err := c.openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	notes, err := st.ListNotes(context.Background(), c.config.User, f)
	if err != nil {
		return err
	}
	for _, n := range notes {
		folder := "-"
		if n.FolderID != nil {
			folder = fmt.Sprint(*n.FolderID)
		}
		fmt.Fprintf(c.out, "%d\t%s\t%s\t%s\n", n.ID, folder, n.UpdatedAt.Local().Format("2006-01-02 15:04"), n.Title)
	}
	return nil
}

// showCmd prints one note as text with a summary of its overlay.
type showCmd struct {
	id  int64
	raw bool
	*root
	fs *flag.FlagSet
}

func (c *showCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseShowCmd(args []string, r *root) (*showCmd, error) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	c := &showCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.BoolVar(&c.raw, "raw", false, "print the stored body without converting it to text")
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
	c.id = id
	return c, nil
}

func (c *showCmd) Run() error {
	ctx := context.Background()
	st, err := c.openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	sess, err := c.openSession(ctx, st, c.id, session.Options{})
	if err != nil {
		return err
	}
	body := sess.Content
	if !c.raw {
		body = render.PlainText(body)
	}
	doc := sess.Doc()
	fmt.Fprintf(c.out, "%s\n\n%s\n\n[%d strokes, %d images]\n", sess.Title, body, len(doc.Strokes), len(doc.Images))
	return nil
}

// deleteCmd removes notes and their image files.
type deleteCmd struct {
	ids []int64
	*root
	fs *flag.FlagSet
}

func (c *deleteCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseDeleteCmd(args []string, r *root) (*deleteCmd, error) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	c := &deleteCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 1 {
		return nil, &UsageError{of: c}
	}
	for _, a := range fs.Args() {
		id, err := parseID(a)
		if err != nil {
			return nil, err
		}
		c.ids = append(c.ids, id)
	}
	return c, nil
}

func (c *deleteCmd) Run() error {
	st, err := c.openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	media := c.media()
	for _, id := range c.ids {
		if err := st.DeleteNote(context.Background(), c.config.User, id); err != nil {
			return err
		}
		media.RemoveAll(c.config.User, id)
	}
	return nil
}

// importCmd creates one note per text file, titled after the file name.
type importCmd struct {
	folder string
	files  []string
	*root
	fs *flag.FlagSet
}

func (c *importCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseImportCmd(args []string, r *root) (*importCmd, error) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	c := &importCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.folder, "folder", "", "folder id to file the notes under")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 1 {
		return nil, &UsageError{of: c}
	}
	c.files = fs.Args()
	return c, nil
}

func importTitle(path string) string {
	base := filepath.Base(path)
	if t := strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base))); t != "" {
		return t
	}
	return session.UntitledTitle
}

func (c *importCmd) Run() error {
	folder, err := parseFolder(c.folder)
	if err != nil {
		return err
	}
	st, err := c.openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	for _, path := range c.files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("import %s: %w", path, err)
		}
		id, err := st.CreateNote(context.Background(), c.config.User, folder, importTitle(path), string(data))
		if err != nil {
			return fmt.Errorf("import %s: %w", path, err)
		}
		fmt.Fprintf(c.out, "%d\t%s\n", id, path)
	}
	return nil
}
