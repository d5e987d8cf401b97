// Package fs exports saved items as markdown files.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/recall"
)

// Exporter writes items as markdown files with atomic update semantics.
// Files are written to baseDir/name.tmp and moved to baseDir/name on
// Commit, so an interrupted export never leaves a partial directory.
type Exporter struct {
	baseDir string
	name    string
}

// NewExporter creates a new Exporter. baseDir is the parent directory,
// name is the output directory name.
func NewExporter(baseDir, name string) *Exporter {
	return &Exporter{
		baseDir: baseDir,
		name:    name,
	}
}

func (e *Exporter) tempDir() string {
	return filepath.Join(e.baseDir, e.name+".tmp")
}

func (e *Exporter) finalDir() string {
	return filepath.Join(e.baseDir, e.name)
}

// WriteItem writes a single item into the staging directory.
func (e *Exporter) WriteItem(ctx context.Context, item *recall.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if item.ID == "" {
		return recall.Errorf(recall.EINVALID, "item id required")
	}

	fullPath := filepath.Join(e.tempDir(), ItemFilename(item))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, []byte(FormatItem(item)), 0644)
}

// Commit atomically replaces the final directory with the staged one.
func (e *Exporter) Commit() error {
	if err := os.RemoveAll(e.finalDir()); err != nil {
		return err
	}
	return os.Rename(e.tempDir(), e.finalDir())
}

// Abort discards the staging directory.
func (e *Exporter) Abort() error {
	return os.RemoveAll(e.tempDir())
}

// ItemFilename returns the markdown filename for an item. The title is
// slugified and suffixed with the item ID so distinct items with the same
// title never collide.
// Example: "Sourdough Guide" → sourdough-guide-item-1.md
func ItemFilename(item *recall.Item) string {
	s := slugify(item.Title)
	if s == "" {
		return item.ID + ".md"
	}
	return s + "-" + item.ID + ".md"
}

const maxSlugLen = 60

func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
		if b.Len() >= maxSlugLen {
			break
		}
	}
	return strings.Trim(b.String(), "-")
}

// FormatItem formats an item with YAML frontmatter.
func FormatItem(item *recall.Item) string {
	source := item.CanonicalURL
	if source == "" {
		source = item.SourceLabel
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(source)
	b.WriteString("\ntitle: ")
	b.WriteString(item.Title)
	b.WriteString("\nsaved: ")
	b.WriteString(item.SavedAt.Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.WriteString(item.Content)
	return b.String()
}
