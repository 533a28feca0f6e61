// Package export renders saved projects to downloadable files. Files are
// written under a configured directory and swept after a retention window.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/devplan-ai/devplan-backend/internal/projects"
)

// Format names one supported export format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
)

// ParseFormat validates a format query parameter.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// Exporter writes export files into dir.
type Exporter struct {
	dir      string
	markdown goldmark.Markdown
}

func NewExporter(dir string) (*Exporter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export dir: %w", err)
	}
	return &Exporter{
		dir: dir,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}, nil
}

// Export renders the project in the requested format and returns the file
// path on disk.
func (e *Exporter) Export(p *projects.Project, format Format) (string, error) {
	switch format {
	case FormatJSON:
		return e.writeJSON(p)
	case FormatMarkdown:
		return e.writeMarkdown(p)
	case FormatPDF:
		return e.writePDF(p)
	default:
		return "", fmt.Errorf("unsupported export format %q", format)
	}
}

// PreviewHTML renders the plan text as HTML for the in-browser preview.
func (e *Exporter) PreviewHTML(p *projects.Project) (string, error) {
	var buf bytes.Buffer
	if err := e.markdown.Convert([]byte(BuildMarkdown(p)), &buf); err != nil {
		return "", fmt.Errorf("failed to render preview: %w", err)
	}
	return buf.String(), nil
}

// BuildMarkdown assembles the canonical markdown document for a project.
// The same document backs the markdown export, the PDF and the preview.
func BuildMarkdown(p *projects.Project) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", p.Name)
	fmt.Fprintf(&b, "Development plan generated on %s\n\n", p.CreatedAt.Format("2006-01-02 15:04 UTC"))

	b.WriteString("| Field | Value |\n|---|---|\n")
	writeRow(&b, "Project ID", p.PublicID)
	writeRow(&b, "Type", p.ProjectType)
	writeRow(&b, "Frontend", p.Frontend)
	writeRow(&b, "Backend", p.Backend)
	writeRow(&b, "Database", p.Database)
	writeRow(&b, "Model", p.PlanModel)
	b.WriteString("\n")

	if p.Description != "" {
		b.WriteString("## Description\n\n")
		b.WriteString(p.Description)
		b.WriteString("\n\n")
	}

	b.WriteString("## Development Plan\n\n")
	b.WriteString(p.PlanText)
	b.WriteString("\n")

	return b.String()
}

func writeRow(b *strings.Builder, field, value string) {
	if value == "" {
		value = "-"
	}
	fmt.Fprintf(b, "| %s | %s |\n", field, value)
}

func (e *Exporter) writeJSON(p *projects.Project) (string, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal project: %w", err)
	}
	return e.writeFile(p.PublicID, "json", data)
}

func (e *Exporter) writeMarkdown(p *projects.Project) (string, error) {
	return e.writeFile(p.PublicID, "md", []byte(BuildMarkdown(p)))
}

// filePath builds a collision-free export file name. The random suffix lets
// concurrent exports of one project coexist.
func (e *Exporter) filePath(publicID, ext string) string {
	name := fmt.Sprintf("%s-%s.%s", publicID, uuid.NewString()[:8], ext)
	return filepath.Join(e.dir, name)
}

func (e *Exporter) writeFile(publicID, ext string, data []byte) (string, error) {
	path := e.filePath(publicID, ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

// Sweep removes export files older than maxAge. Called on a schedule so the
// export directory does not grow without bound.
func (e *Exporter) Sweep(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(e.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read export dir: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(e.dir, entry.Name())); err != nil {
				log.Printf("[warn] operation=export_sweep message=failed to remove %s: %v", entry.Name(), err)
				continue
			}
			removed++
		}
	}
	return removed, nil
}
