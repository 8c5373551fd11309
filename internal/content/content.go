// Package content loads the landing page content document.
package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"ipms"
	"ipms/pkg/domain"
)

// ErrMissingTitle is returned for a document without a hero title.
var ErrMissingTitle = errors.New("content has no hero title")

// Load reads the content document at path, or the embedded default when path
// is empty.
func Load(path string) (*domain.Content, error) {
	if path == "" {
		return Parse(ipms.DefaultContent)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read content: %w", err)
	}

	return Parse(data)
}

// Parse decodes a content document.
func Parse(data []byte) (*domain.Content, error) {
	var c domain.Content
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("could not decode content: %w", err)
	}
	if c.Hero.Title == "" {
		return nil, ErrMissingTitle
	}

	return &c, nil
}
