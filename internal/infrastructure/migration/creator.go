package migration

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	upSuffix      = ".up.sql"
	downSuffix    = ".down.sql"
	versionLayout = "20060102150405"
)

var fileTemplate = template.Must(template.New("migration").Parse(`-- {{.Name}}{{if .Down}} (rollback){{end}}
-- Version: {{.Version}}
{{- if .Description}}
-- {{.Description}}
{{- end}}

{{if .Down}}-- Undo every statement of the matching .up.sql, in reverse order
{{else}}-- Tables are tenant scoped: add tenant_id and index it with the lookup columns
{{end}}`))

// File is one up/down pair of a migrations directory
type File struct {
	Version  uint
	Name     string
	UpPath   string
	DownPath string
}

// CreateMigration writes an empty up/down pair versioned with the current UTC time
func CreateMigration(dir, name, description string) (*File, error) {
	return createMigrationAt(dir, name, description, time.Now().UTC())
}

func createMigrationAt(dir, name, description string, now time.Time) (*File, error) {
	slug := sanitizeName(name)
	if slug == "" {
		return nil, errors.New("migration name must contain letters or digits")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	version := now.Format(versionLayout)
	base := filepath.Join(dir, version+"_"+slug)
	v, _ := strconv.ParseUint(version, 10, 64)
	f := &File{Version: uint(v), Name: slug, UpPath: base + upSuffix, DownPath: base + downSuffix}

	var written []string
	for _, target := range []struct {
		path string
		down bool
	}{{f.UpPath, false}, {f.DownPath, true}} {
		if err := writeMigration(target.path, map[string]any{
			"Name":        name,
			"Version":     version,
			"Description": description,
			"Down":        target.down,
		}); err != nil {
			for _, path := range written {
				_ = os.Remove(path)
			}
			return nil, err
		}
		written = append(written, target.path)
	}
	return f, nil
}

func writeMigration(path string, data map[string]any) error {
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer out.Close()
	if err := fileTemplate.Execute(out, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// sanitizeName turns a free-form name into a lowercase snake_case file slug.
// Accents are folded ("cobrança" becomes "cobranca") and other symbols dropped.
func sanitizeName(name string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			pendingSep = true
		}
	}
	return b.String()
}

// ListMigrations returns the up/down pairs of dir ordered by version. Files
// that do not start with a numeric version are ignored; a missing directory
// yields an empty list.
func ListMigrations(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return []File{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	files := make([]File, 0, len(entries)/2)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), upSuffix) {
			continue
		}
		base := strings.TrimSuffix(entry.Name(), upSuffix)
		rawVersion, name, _ := strings.Cut(base, "_")
		version, err := strconv.ParseUint(rawVersion, 10, 64)
		if err != nil {
			continue
		}
		f := File{Version: uint(version), Name: name, UpPath: filepath.Join(dir, entry.Name())}
		if down := filepath.Join(dir, base+downSuffix); fileExists(down) {
			f.DownPath = down
		}
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Version < files[j].Version })
	return files, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
