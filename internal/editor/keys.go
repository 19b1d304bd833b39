package editor

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/mobile/event/key"
)

// KeyShortcut is a key press bound to an action. Rune bindings leave Code
// zero; code bindings leave Rune zero.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

type binding struct {
	action string
	// inText bindings also fire while the text tool is active.
	inText bool
}

const (
	actUndo       = "undo"
	actRedo       = "redo"
	actSave       = "save"
	actPaste      = "paste"
	actCopy       = "copy"
	actQuit       = "quit"
	actText       = "text"
	actPencil     = "pencil"
	actPen        = "pen"
	actMarker     = "marker"
	actEraser     = "eraser"
	actLasso      = "lasso"
	actWider      = "wider"
	actNarrower   = "narrower"
	actColor      = "color"
	actDelete     = "delete"
	actScrollUp   = "scrollup"
	actScrollDown = "scrolldown"
	actCropAccept = "cropaccept"
	actCropCancel = "cropcancel"
)

var keyBindings = map[KeyShortcut]binding{
	{Rune: 'z', Modifiers: key.ModControl}:                {actUndo, true},
	{Rune: 'y', Modifiers: key.ModControl}:                {actRedo, true},
	{Rune: 'z', Modifiers: key.ModControl | key.ModShift}: {actRedo, true},
	{Rune: 's', Modifiers: key.ModControl}:                {actSave, true},
	{Rune: 'v', Modifiers: key.ModControl}:                {actPaste, true},
	{Rune: 'c', Modifiers: key.ModControl}:                {actCopy, true},
	{Rune: 'q', Modifiers: key.ModControl}:                {actQuit, true},
	{Rune: 'q'}:                                           {actQuit, false},
	{Rune: 't'}:                                           {actText, false},
	{Rune: '1'}:                                           {actPencil, false},
	{Rune: '2'}:                                           {actPen, false},
	{Rune: '3'}:                                           {actMarker, false},
	{Rune: '4'}:                                           {actEraser, false},
	{Rune: 'l'}:                                           {actLasso, false},
	{Rune: ']'}:                                           {actWider, false},
	{Rune: '['}:                                           {actNarrower, false},
	{Rune: 'c'}:                                           {actColor, false},
	{Code: key.CodeEscape}:                                {actText, true},
	{Code: key.CodeDeleteForward}:                         {actDelete, false},
	{Code: key.CodeDeleteBackspace}:                       {actDelete, false},
	{Code: key.CodePageUp}:                                {actScrollUp, true},
	{Code: key.CodePageDown}:                              {actScrollDown, true},
	{Code: key.CodeUpArrow}:                               {actScrollUp, false},
	{Code: key.CodeDownArrow}:                             {actScrollDown, false},
}

// lookup maps a key press to an action name.
func lookup(e key.Event, textMode bool) (string, bool) {
	mods := e.Modifiers & (key.ModControl | key.ModShift)
	try := func(ks KeyShortcut) (string, bool) {
		b, ok := keyBindings[ks]
		if !ok || (textMode && !b.inText) {
			return "", false
		}
		return b.action, true
	}
	if e.Rune > 0 {
		r := unicode.ToLower(e.Rune)
		if a, ok := try(KeyShortcut{Rune: r, Modifiers: mods}); ok {
			return a, true
		}
		// shifted punctuation arrives with the shift bit set
		if a, ok := try(KeyShortcut{Rune: r, Modifiers: mods &^ key.ModShift}); ok && mods&key.ModControl == 0 {
			return a, true
		}
	}
	return try(KeyShortcut{Code: e.Code, Modifiers: mods})
}

// editText applies a key press to plain note text.
func editText(body string, e key.Event) (string, bool) {
	if e.Modifiers&(key.ModControl|key.ModAlt|key.ModMeta) != 0 {
		return body, false
	}
	switch e.Code {
	case key.CodeDeleteBackspace:
		if body == "" {
			return body, false
		}
		_, n := utf8.DecodeLastRuneInString(body)
		return body[:len(body)-n], true
	case key.CodeReturnEnter:
		return body + "\n", true
	}
	if e.Rune > 0 && unicode.IsPrint(e.Rune) {
		return body + string(e.Rune), true
	}
	return body, false
}
