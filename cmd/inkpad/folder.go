package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/example/inkpad/internal/store"
)

// folderCmd manages the folder tree.
type folderCmd struct {
	op     string
	args   []string
	parent string
	*root
	fs *flag.FlagSet
}

func (c *folderCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseFolderCmd(args []string, r *root) (*folderCmd, error) {
	fs := flag.NewFlagSet("folder", flag.ExitOnError)
	c := &folderCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.parent, "parent", "", "parent folder id for add")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 1 {
		return nil, &UsageError{of: c}
	}
	c.op = strings.ToLower(fs.Arg(0))
	c.args = fs.Args()[1:]
	want := map[string]int{"add": -1, "rename": -2, "rm": 1, "list": 0, "move": 2}
	n, ok := want[c.op]
	switch {
	case !ok:
		return nil, &UsageError{of: c}
	case n >= 0 && len(c.args) != n, n < 0 && len(c.args) < -n:
		return nil, fmt.Errorf("folder %s: wrong number of arguments", c.op)
	}
	return c, nil
}

func (c *folderCmd) Run() error {
	ctx := context.Background()
	st, err := c.openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	user := c.config.User

	switch c.op {
	case "add":
		parent, err := parseFolder(c.parent)
		if err != nil {
			return err
		}
		id, err := st.CreateFolder(ctx, user, strings.Join(c.args, " "), parent)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, id)
	case "rename":
		id, err := parseID(c.args[0])
		if err != nil {
			return err
		}
		return st.RenameFolder(ctx, user, id, strings.Join(c.args[1:], " "))
	case "rm":
		id, err := parseID(c.args[0])
		if err != nil {
			return err
		}
		return st.DeleteFolder(ctx, user, id)
	case "list":
		folders, err := st.ListFolders(ctx, user)
		if err != nil {
			return err
		}
		printTree(c, folders)
	case "move":
		note, err := parseID(c.args[0])
		if err != nil {
			return err
		}
		folder, err := parseFolder(c.args[1])
		if err != nil {
			return err
		}
		return st.MoveNote(ctx, user, note, folder)
	}
	return nil
}

// printTree writes folders indented under their parents. Folders whose
// parent is missing are shown at the top level.
func printTree(c *folderCmd, folders []store.Folder) {
	known := make(map[int64]bool, len(folders))
	for _, f := range folders {
		known[f.ID] = true
	}
	children := map[int64][]store.Folder{}
	for _, f := range folders {
		var parent int64
		if f.ParentID != nil && known[*f.ParentID] {
			parent = *f.ParentID
		}
		children[parent] = append(children[parent], f)
	}
	seen := map[int64]bool{}
	var walk func(parent int64, depth int)
	walk = func(parent int64, depth int) {
		for _, f := range children[parent] {
			if seen[f.ID] {
				continue
			}
			seen[f.ID] = true
			fmt.Fprintf(c.out, "%s%d\t%s\n", strings.Repeat("  ", depth), f.ID, f.Name)
			walk(f.ID, depth+1)
		}
	}
	walk(0, 0)
}
