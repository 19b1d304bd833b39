package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/example/inkpad/internal/codec"
	"github.com/example/inkpad/internal/config"
	"github.com/example/inkpad/internal/notify"
	"github.com/example/inkpad/internal/session"
	"github.com/example/inkpad/internal/store"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs       *flag.FlagSet
	program  string
	config   *config.Config
	notifier *notify.Notifier
	out      io.Writer

	configPath   string
	dbPath       string
	mediaDir     string
	user         int64
	saveAlerts   bool
	exportAlerts bool
	copyAlerts   bool
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	r := &root{
		fs:       flag.NewFlagSet("inkpad", flag.ExitOnError),
		program:  "inkpad",
		notifier: notify.New(notify.LoadPreferences(os.Getenv)),
		out:      os.Stdout,
	}
	r.fs.StringVar(&r.configPath, "config", configPathOverride, "path to the configuration file")
	r.fs.StringVar(&r.dbPath, "db", "", "path to the notes database")
	r.fs.StringVar(&r.mediaDir, "media", "", "directory overlay images are stored in")
	r.fs.Int64Var(&r.user, "user", 0, "id of the user whose notes are used")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", false, "show a desktop notification after saving a note")
	r.fs.BoolVar(&r.exportAlerts, "notify-export", false, "show a desktop notification after exporting a note")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", false, "show a desktop notification after copying to the clipboard")
	r.fs.Usage = usageFunc(r)
	return r
}

// load reads the configuration and lays the flags that were given on top.
// Precedence: flag > environment > config file > default.
func (r *root) load() {
	cfg, err := config.NewLoader(version, r.configPath).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}
	r.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "db":
			cfg.DBPath = r.dbPath
		case "media":
			cfg.MediaDir = r.mediaDir
		case "user":
			cfg.User = r.user
		case "notify-save":
			cfg.Notify.Save = r.saveAlerts
		case "notify-export":
			cfg.Notify.Export = r.exportAlerts
		case "notify-copy":
			cfg.Notify.Copy = r.copyAlerts
		}
	})
	r.config = cfg
	r.notifier.Enable(notify.EventSave, cfg.Notify.Save)
	r.notifier.Enable(notify.EventExport, cfg.Notify.Export)
	r.notifier.Enable(notify.EventCopy, cfg.Notify.Copy)
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	r.load()
	return r.dispatch(r.fs.Arg(0), r.fs.Args()[1:])
}

// dispatch parses and runs one command.
func (r *root) dispatch(cmdName string, subArgs []string) error {
	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "new":
		cmd, err = parseNewCmd(subArgs, r)
	case "list", "ls":
		cmd, err = parseListCmd(subArgs, r)
	case "show":
		cmd, err = parseShowCmd(subArgs, r)
	case "delete", "rm":
		cmd, err = parseDeleteCmd(subArgs, r)
	case "import":
		cmd, err = parseImportCmd(subArgs, r)
	case "folder":
		cmd, err = parseFolderCmd(subArgs, r)
	case "draw":
		cmd, err = parseDrawCmd(subArgs, r)
	case "erase":
		cmd, err = parseEraseCmd(subArgs, r)
	case "image":
		cmd, err = parseImageCmd(subArgs, r)
	case "export":
		cmd, err = parseExportCmd(subArgs, r)
	case "prefs":
		cmd, err = parsePrefsCmd(subArgs, r)
	case "edit":
		cmd, err = parseEditCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

// openStore opens the configured database.
func (r *root) openStore() (*store.Store, error) {
	st, err := store.Open(r.config.Database())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

func (r *root) media() *codec.Media {
	return codec.NewMedia(r.config.Media(), r.config.Naming())
}

// openSession loads note id with the configured tool defaults.
func (r *root) openSession(ctx context.Context, st *store.Store, id int64, opts session.Options) (*session.Session, error) {
	settings, err := r.config.Settings()
	if err != nil {
		return nil, err
	}
	opts.Settings = settings
	sess, err := session.Open(ctx, st, r.media(), r.config.User, id, opts)
	if err != nil {
		return nil, fmt.Errorf("open note %d: %w", id, err)
	}
	return sess, nil
}

// saveSession saves sess and reports it.
func (r *root) saveSession(ctx context.Context, sess *session.Session) error {
	if err := sess.Save(ctx); err != nil {
		return err
	}
	r.notifier.Saved(sess.Title)
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// parseFolder reads an optional folder id. Empty, "none" and "0" mean
// uncategorized.
func parseFolder(s string) (*int64, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "0":
		return nil, nil
	}
	id, err := parseID(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
