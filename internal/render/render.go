// Package render writes the resolved pools out as static HTML pages.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/duprtools/duprpool/internal/pools"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var pageTemplates = template.Must(template.New("").Funcs(template.FuncMap{
	"rating": func(v float64) string { return fmt.Sprintf("%.3f", v) },
	"addOne": func(i int) int { return i + 1 },
}).ParseFS(templatesFS, "templates/*.tmpl"))

// LadderPage is the template context for ladder output.
type LadderPage struct {
	Title       string
	GeneratedAt string
	Pools       []pools.PlayerPool
	Resolved    int
	Total       int
}

// TeamsPage is the template context for partner output.
type TeamsPage struct {
	Title       string
	GeneratedAt string
	Pools       []pools.TeamPool
	Resolved    int
	Total       int
}

// WriteLadder renders ladder pools to an HTML file.
func WriteLadder(path, title string, poolList []pools.PlayerPool) error {
	resolved, total := 0, 0
	for _, pool := range poolList {
		for _, p := range pool.Players {
			total++
			if p.Found {
				resolved++
			}
		}
	}
	page := LadderPage{
		Title:       title,
		GeneratedAt: time.Now().Format("2006-01-02 15:04"),
		Pools:       poolList,
		Resolved:    resolved,
		Total:       total,
	}
	return writePage(path, "ladder.html.tmpl", page)
}

// WriteTeams renders team pools to an HTML file.
func WriteTeams(path, title string, poolList []pools.TeamPool) error {
	resolved, total := 0, 0
	for _, pool := range poolList {
		for _, team := range pool.Teams {
			for _, p := range []bool{team.Player1.Found, team.Player2.Found} {
				total++
				if p {
					resolved++
				}
			}
		}
	}
	page := TeamsPage{
		Title:       title,
		GeneratedAt: time.Now().Format("2006-01-02 15:04"),
		Pools:       poolList,
		Resolved:    resolved,
		Total:       total,
	}
	return writePage(path, "teams.html.tmpl", page)
}

// writePage renders into memory first so a failed disk flush surfaces as
// an error instead of a truncated file reported as success.
func writePage(path, templateName string, page any) error {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, templateName, page); err != nil {
		return fmt.Errorf("failed to render %s: %w", templateName, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	log.Info("Wrote output", "path", path)
	return nil
}
