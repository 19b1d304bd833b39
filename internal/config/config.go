package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/example/inkpad/internal/codec"
	"github.com/example/inkpad/internal/overlay"
)

// Notify holds notification settings.
type Notify struct {
	Save   bool
	Export bool
	Copy   bool
}

// Tools holds default tool styles. Empty or zero fields keep the built in
// defaults.
type Tools struct {
	PencilColor string `rc:"pencil_color"`
	PenColor    string `rc:"pen_color"`
	MarkerColor string `rc:"marker_color"`
	PencilWidth int    `rc:"pencil_width"`
	PenWidth    int    `rc:"pen_width"`
	MarkerWidth int    `rc:"marker_width"`
	EraserWidth int    `rc:"eraser_width"`
	EraserMode  string `rc:"eraser_mode"`
}

// Config holds the application configuration.
type Config struct {
	User        int64
	DBPath      string
	MediaDir    string
	Autosave    time.Duration
	ExportWidth int
	ImageNaming string
	Notify      Notify
	Tools       Tools
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		User:        1,
		Autosave:    800 * time.Millisecond,
		ExportWidth: 900,
		ImageNaming: string(codec.NamingOrdinal),
	}
}

// ApplyEnv lets INKPAD_USER and INKPAD_DB override the file.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := strings.TrimSpace(getenv("INKPAD_USER")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("INKPAD_USER: %w", err)
		}
		c.User = id
	}
	if v := strings.TrimSpace(getenv("INKPAD_DB")); v != "" {
		c.DBPath = v
	}
	return nil
}

func expand(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[1:])
		}
	}
	return p
}

// Database returns the SQLite file path.
func (c *Config) Database() string {
	if c.DBPath != "" {
		return expand(c.DBPath)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "inkpad", "notes.db")
}

// Media returns the directory overlay images are written to. It defaults
// to notes_media next to the database.
func (c *Config) Media() string {
	if c.MediaDir != "" {
		return expand(c.MediaDir)
	}
	return filepath.Join(filepath.Dir(c.Database()), "notes_media")
}

// Naming returns the configured image file naming.
func (c *Config) Naming() codec.Naming {
	n, _ := codec.ParseNaming(c.ImageNaming)
	return n
}

// Settings builds tool settings from the defaults and the [tools] section.
func (c *Config) Settings() (*overlay.Settings, error) {
	s := overlay.DefaultSettings()
	colors := map[overlay.Mode]string{
		overlay.ModePencil: c.Tools.PencilColor,
		overlay.ModePen:    c.Tools.PenColor,
		overlay.ModeMarker: c.Tools.MarkerColor,
	}
	for m, v := range colors {
		if v == "" {
			continue
		}
		col, err := overlay.ParseColor(v)
		if err != nil {
			return nil, fmt.Errorf("%s_color: %w", m, err)
		}
		s.Colors[m] = col
	}
	widths := map[overlay.Mode]int{
		overlay.ModePencil: c.Tools.PencilWidth,
		overlay.ModePen:    c.Tools.PenWidth,
		overlay.ModeMarker: c.Tools.MarkerWidth,
	}
	for m, w := range widths {
		if w > 0 {
			s.Widths[m] = w
		}
	}
	if c.Tools.EraserWidth > 0 {
		s.EraserWidth = c.Tools.EraserWidth
	}
	if c.Tools.EraserMode != "" {
		s.EraserMode = overlay.ParseEraserMode(c.Tools.EraserMode)
	}
	return s, nil
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "user = %d\n", c.User)
	if c.DBPath != "" {
		fmt.Fprintf(&sb, "db_path = %s\n", c.DBPath)
	}
	if c.MediaDir != "" {
		fmt.Fprintf(&sb, "media_dir = %s\n", c.MediaDir)
	}
	fmt.Fprintf(&sb, "autosave = %s\n", c.Autosave)
	fmt.Fprintf(&sb, "export_width = %d\n", c.ExportWidth)
	fmt.Fprintf(&sb, "image_naming = %s\n", c.ImageNaming)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	sb.WriteString("[tools]\n")
	val := reflect.ValueOf(c.Tools)
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := val.Field(i)
		if f.IsZero() {
			continue
		}
		fmt.Fprintf(&sb, "%s = %v\n", typ.Field(i).Tag.Get("rc"), f.Interface())
	}
	return sb.String()
}
