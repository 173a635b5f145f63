// Package testdata embeds small sample sources, one per supported format.
package testdata

import (
	_ "embed"
	"os"
	"path/filepath"
)

//go:embed auth.log
var AuthLog string

//go:embed security.xml
var SecurityXML string

//go:embed export.csv
var ExportCSV string

// WriteFile writes content to name inside dir and returns the full path.
func WriteFile(dir, name, content string) (string, error) {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
