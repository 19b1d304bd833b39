package main

import (
	"bytes"
	"embed"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"text/template"

	"github.com/example/inkpad/internal/theme"
)

//go:embed templates/*.txt
var helpFS embed.FS

var (
	helpOnce sync.Once
	helpTmpl *template.Template
)

func parseHelpTemplates() {
	helpTmpl = template.Must(template.New("").Funcs(map[string]any{
		"flags": func(fs *flag.FlagSet) []flagInfo {
			result := []flagInfo{}
			if fs == nil {
				return result
			}
			fs.VisitAll(func(f *flag.Flag) {
				result = append(result, flagInfo{f.Name, f.DefValue, f.Usage})
			})
			return result
		},
		"themes": theme.Names,
	}).ParseFS(helpFS, "templates/*.txt"))
}

type flagInfo struct {
	Name     string
	DefValue string
	Usage    string
}

type HelpData interface {
	Program() string
	Template() string
	FlagSet() *flag.FlagSet
}

type UsageError struct {
	of HelpData
}

func (e *UsageError) Error() string {
	help, err := e.renderHelp()
	if err != nil {
		return err.Error()
	}
	return help
}

func (e *UsageError) renderHelp() (string, error) {
	helpOnce.Do(parseHelpTemplates)
	var buf bytes.Buffer
	if err := helpTmpl.ExecuteTemplate(&buf, e.of.Template(), e.of); err != nil {
		log.Printf("error rendering help template: %v", err)
		return "", err
	}
	return buf.String(), nil
}

// usageFunc renders the help page of h for a flag set's -h.
func usageFunc(h HelpData) func() {
	return func() {
		fmt.Fprint(os.Stderr, (&UsageError{of: h}).Error())
	}
}

func (r *root) Template() string       { return "root.txt" }
func (c *newCmd) Template() string     { return "new.txt" }
func (c *listCmd) Template() string    { return "list.txt" }
func (c *showCmd) Template() string    { return "show.txt" }
func (c *deleteCmd) Template() string  { return "delete.txt" }
func (c *importCmd) Template() string  { return "import.txt" }
func (c *folderCmd) Template() string  { return "folder.txt" }
func (c *drawCmd) Template() string    { return "draw.txt" }
func (c *eraseCmd) Template() string   { return "erase.txt" }
func (c *imageCmd) Template() string   { return "image.txt" }
func (c *exportCmd) Template() string  { return "export.txt" }
func (c *prefsCmd) Template() string   { return "prefs.txt" }
func (c *editCmd) Template() string    { return "edit.txt" }
func (c *configCmd) Template() string  { return "config.txt" }
func (v *versionCmd) Template() string { return "version.txt" }
