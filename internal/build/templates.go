package build

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

type goModData struct {
	Name      string
	GoVersion string
}

type readmeData struct {
	Name       string
	SourceName string
	Source     string
	Fence      string
	Timestamp  string
}

func render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func renderGoMod(name string) ([]byte, error) {
	return render("go.mod.tmpl", goModData{Name: name, GoVersion: GoDirective})
}

func renderReadme(name, sourceName, source string, at time.Time) ([]byte, error) {
	source = strings.TrimRight(source, "\n")
	return render("README.md.tmpl", readmeData{
		Name:       name,
		SourceName: sourceName,
		Source:     source,
		Fence:      codeFence(source),
		Timestamp:  at.UTC().Format(time.RFC3339),
	})
}

// codeFence returns a backtick fence longer than any backtick run in s.
func codeFence(s string) string {
	longest, run := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] != '`' {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	return strings.Repeat("`", max(3, longest+1))
}
