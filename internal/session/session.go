// Package session ties one open note to its overlay surface and keeps it
// saved.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/example/inkpad/internal/codec"
	"github.com/example/inkpad/internal/overlay"
	"github.com/example/inkpad/internal/store"
)

const (
	DefaultSaveDelay  = 800 * time.Millisecond
	DefaultPrefsDelay = 600 * time.Millisecond
	UntitledTitle     = "Untitled"
)

// Store is the part of the note database a session needs.
type Store interface {
	GetNote(ctx context.Context, user, id int64) (*store.Note, error)
	UpdateNote(ctx context.Context, user, id int64, title, content, overlayJSON string) error
	ToolPrefs(ctx context.Context, user int64) (overlay.Prefs, error)
	SetToolPrefs(ctx context.Context, user int64, p overlay.Prefs) error
}

// Options configure Open. The zero value disables autosave.
type Options struct {
	// Post delivers autosave work to the goroutine that owns the
	// document. Autosave is off when Post is nil.
	Post       func(func())
	SaveDelay  time.Duration
	PrefsDelay time.Duration
	// Settings replaces the default tool settings before stored
	// preferences are applied.
	Settings *overlay.Settings
	// OnSave is told the outcome of every save.
	OnSave  func(err error)
	Surface []overlay.SurfaceOption
}

// Session is one note being edited. Apart from the debounce timers it is
// confined to the goroutine that owns it.
type Session struct {
	UserID  int64
	NoteID  int64
	Title   string
	Content string
	Surface *overlay.Surface

	store  Store
	media  *codec.Media
	post   func(func())
	onSave func(error)
	save   *Debouncer
	prefs  *Debouncer
	dirty  bool
}

// Open loads a note and hydrates its overlay. A corrupt overlay blob
// opens as an empty overlay; images whose files are gone are dropped.
func Open(ctx context.Context, st Store, media *codec.Media, user, noteID int64, opts Options) (*Session, error) {
	n, err := st.GetNote(ctx, user, noteID)
	if err != nil {
		return nil, err
	}
	rec, err := codec.Unmarshal([]byte(n.Overlay))
	if err != nil {
		log.Printf("note %d: %v", noteID, err)
		rec = codec.Record{}
	}
	doc := codec.Decode(rec, media.Load)

	settings := opts.Settings
	if settings == nil {
		settings = overlay.DefaultSettings()
	}
	if p, err := st.ToolPrefs(ctx, user); err == nil {
		settings.ApplyPrefs(p)
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Printf("load tool prefs: %v", err)
	}

	s := &Session{
		UserID:  user,
		NoteID:  noteID,
		Title:   n.Title,
		Content: n.Content,
		store:   st,
		media:   media,
		post:    opts.Post,
		onSave:  opts.OnSave,
	}
	surfaceOpts := append([]overlay.SurfaceOption{}, opts.Surface...)
	surfaceOpts = append(surfaceOpts, overlay.WithOnChange(s.Changed))
	s.Surface = overlay.NewSurface(doc, settings, surfaceOpts...)

	if s.post != nil {
		saveDelay := opts.SaveDelay
		if saveDelay <= 0 {
			saveDelay = DefaultSaveDelay
		}
		prefsDelay := opts.PrefsDelay
		if prefsDelay <= 0 {
			prefsDelay = DefaultPrefsDelay
		}
		s.save = NewDebouncer(saveDelay, func() { s.post(s.autosave) })
		s.prefs = NewDebouncer(prefsDelay, func() { s.post(s.savePrefs) })
	}
	return s, nil
}

// Doc is the overlay being edited.
func (s *Session) Doc() *overlay.Document { return s.Surface.Doc }

// Dirty reports whether there are changes not yet saved.
func (s *Session) Dirty() bool { return s.dirty }

// Changed marks the note modified and restarts the autosave countdown.
func (s *Session) Changed() {
	s.dirty = true
	if s.save != nil {
		s.save.Trigger()
	}
}

// SetText replaces the title and body.
func (s *Session) SetText(title, content string) {
	s.Title = title
	s.Content = content
	s.Changed()
}

// SettingsChanged schedules the tool preferences to be stored.
func (s *Session) SettingsChanged() {
	if s.prefs != nil {
		s.prefs.Trigger()
		return
	}
	s.savePrefs()
}

// Save stages the image files, writes the note row, then puts the files
// in place. On failure the document and the files of the last good save
// are left as they were and the session stays dirty.
func (s *Session) Save(ctx context.Context) error {
	doc := s.Surface.Doc
	rec := codec.Encode(doc)
	pending, err := s.media.Save(&rec, doc, s.UserID, s.NoteID)
	if err != nil {
		return fmt.Errorf("save note %d images: %w", s.NoteID, err)
	}
	data, err := codec.Marshal(rec)
	if err != nil {
		pending.Discard()
		return fmt.Errorf("save note %d: %w", s.NoteID, err)
	}
	title := strings.TrimSpace(s.Title)
	if title == "" {
		title = UntitledTitle
	}
	if err := s.store.UpdateNote(ctx, s.UserID, s.NoteID, title, s.Content, string(data)); err != nil {
		pending.Discard()
		return fmt.Errorf("save note %d: %w", s.NoteID, err)
	}
	if err := pending.Commit(); err != nil {
		return fmt.Errorf("save note %d images: %w", s.NoteID, err)
	}
	s.dirty = false
	return nil
}

func (s *Session) autosave() {
	err := s.Save(context.Background())
	if err != nil {
		log.Printf("autosave: %v", err)
	}
	if s.onSave != nil {
		s.onSave(err)
	}
}

func (s *Session) savePrefs() {
	if err := s.store.SetToolPrefs(context.Background(), s.UserID, s.Surface.Settings.Prefs()); err != nil {
		log.Printf("save tool prefs: %v", err)
	}
}

// Close stops the timers and saves the note and any pending preference
// change.
func (s *Session) Close(ctx context.Context) error {
	if s.prefs != nil && s.prefs.Stop() {
		s.savePrefs()
	}
	if s.save != nil {
		s.save.Stop()
	}
	err := s.Save(ctx)
	if s.onSave != nil {
		s.onSave(err)
	}
	return err
}
