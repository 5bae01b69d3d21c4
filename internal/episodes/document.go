// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package episodes reads and rewrites the episodes.json document: a top-level
// "episodes" array whose entries carry an "id" and an "attachments" array.
// Only the fields this tool works with are typed; every other field is kept
// verbatim and in its original key order.
package episodes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	keyEpisodes    = "episodes"
	keyID          = "id"
	keyAttachments = "attachments"
	keyFilename    = "filename"
	keyText        = "text"
)

// ErrNoEpisodes is returned by Load when the document has no "episodes" array.
var ErrNoEpisodes = errors.New(`document has no "episodes" array`)

// Document is the parsed episodes.json.
type Document struct {
	Episodes []*Episode

	Fields Object
}

// Episode is one board meeting record.
type Episode struct {
	// ID matches the prefix of the meeting folder name (e.g. "meeting-07_2008-01-24").
	ID          string
	Attachments []*Attachment

	Fields Object

	// loadedID is the id as read, so an unchanged id keeps its raw form.
	loadedID string
}

// Attachment is one file associated with an episode.
type Attachment struct {
	Filename string

	// Text is nil until the extractor has run.
	Text *string

	Fields Object

	loadedFilename string
	loadedText     *string
}

// SetText records the extracted text or placeholder.
func (a *Attachment) SetText(text string) {
	a.Text = &text
}

// Episode returns the episode with the given id, or nil.
func (d *Document) Episode(id string) *Episode {
	for _, e := range d.Episodes {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Attachment returns the attachment with the given filename, or nil.
func (e *Episode) Attachment(filename string) *Attachment {
	for _, a := range e.Attachments {
		if a.Filename == filename {
			return a
		}
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Document) UnmarshalJSON(data []byte) error {
	if err := d.Fields.UnmarshalJSON(data); err != nil {
		return err
	}
	found, err := d.Fields.Get(keyEpisodes, &d.Episodes)
	if err != nil {
		return err
	}
	if !found {
		return ErrNoEpisodes
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Document) MarshalJSON() ([]byte, error) {
	fields := cloneObject(d.Fields)
	eps := d.Episodes
	if eps == nil {
		eps = []*Episode{}
	}
	if err := fields.Set(keyEpisodes, eps); err != nil {
		return nil, err
	}
	return fields.MarshalJSON()
}

// UnmarshalJSON implements json.Unmarshaler. A null or non-string id is
// read as its JSON text ("" for null).
func (e *Episode) UnmarshalJSON(data []byte) error {
	if err := e.Fields.UnmarshalJSON(data); err != nil {
		return err
	}
	id, err := scalarField(&e.Fields, keyID)
	if err != nil {
		return err
	}
	e.ID, e.loadedID = id, id
	if _, err := e.Fields.Get(keyAttachments, &e.Attachments); err != nil {
		return fmt.Errorf("episode %s: %w", e.ID, err)
	}
	return nil
}

// MarshalJSON implements json.Marshaler. Typed fields are written back only
// when they differ from what was loaded; a nil Attachments slice leaves the
// stored member as it was.
func (e Episode) MarshalJSON() ([]byte, error) {
	fields := cloneObject(e.Fields)
	if e.ID != e.loadedID || (e.ID != "" && !fields.Has(keyID)) {
		if err := fields.Set(keyID, e.ID); err != nil {
			return nil, err
		}
	}
	if e.Attachments != nil {
		if err := fields.Set(keyAttachments, e.Attachments); err != nil {
			return nil, err
		}
	}
	return fields.MarshalJSON()
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Attachment) UnmarshalJSON(data []byte) error {
	if err := a.Fields.UnmarshalJSON(data); err != nil {
		return err
	}
	name, err := scalarField(&a.Fields, keyFilename)
	if err != nil {
		return err
	}
	a.Filename, a.loadedFilename = name, name

	var text *string
	if _, err := a.Fields.Get(keyText, &text); err != nil {
		return err
	}
	a.Text, a.loadedText = text, text
	return nil
}

// MarshalJSON implements json.Marshaler.
func (a Attachment) MarshalJSON() ([]byte, error) {
	fields := cloneObject(a.Fields)
	if a.Filename != a.loadedFilename || (a.Filename != "" && !fields.Has(keyFilename)) {
		if err := fields.Set(keyFilename, a.Filename); err != nil {
			return nil, err
		}
	}
	if a.Text != nil && (a.loadedText == nil || *a.Text != *a.loadedText) {
		if err := fields.Set(keyText, *a.Text); err != nil {
			return nil, err
		}
	}
	return fields.MarshalJSON()
}

// scalarField reads key as a string. Numbers and booleans yield their JSON
// text and null or a missing key yields "". Objects and arrays are an error.
func scalarField(o *Object, key string) (string, error) {
	raw, ok := o.Raw(key)
	if !ok {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("decoding %q: %w", key, err)
	}
	switch v.(type) {
	case nil:
		return "", nil
	case float64, bool:
		return string(bytes.TrimSpace(raw)), nil
	}
	return "", fmt.Errorf("decoding %q: expected a string, got %s", key, raw)
}

// Load reads and parses the document at path. Any error here is fatal to
// the caller's run.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &doc, nil
}

// Encode renders doc as 2-space indented JSON with non-ASCII and HTML
// characters written as-is.
func Encode(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding episodes document: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes doc to path through a temporary file in the same directory.
func Save(path string, doc *Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".episodes-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func cloneObject(o Object) Object {
	members := make([]member, len(o.members))
	copy(members, o.members)
	return Object{members: members}
}
