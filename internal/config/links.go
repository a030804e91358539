package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Links stores named spreadsheet URLs.
type Links struct {
	path  string
	links map[string]string
}

// LoadLinks reads the links file. A missing or unreadable file yields an
// empty set.
func LoadLinks(path string) *Links {
	l := &Links{path: path, links: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		return l
	}
	var stored map[string]string
	if err := json.Unmarshal(data, &stored); err != nil {
		return l
	}
	for name, url := range stored {
		l.links[name] = url
	}
	return l
}

// Get returns the URL saved under name.
func (l *Links) Get(name string) (string, bool) {
	url, ok := l.links[name]
	return url, ok
}

// Names returns the saved names, sorted.
func (l *Links) Names() []string {
	names := make([]string, 0, len(l.links))
	for name := range l.links {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Add saves url under name, replacing any previous entry, and writes the
// file.
func (l *Links) Add(name, url string) error {
	if name == "" || url == "" {
		return fmt.Errorf("%w: link needs a name and a url", ErrInvalid)
	}
	l.links[name] = url

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create links directory: %w", err)
	}
	data, err := json.MarshalIndent(l.links, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(l.path, data, 0644)
}
