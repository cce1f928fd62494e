// Package catalog loads project cards from YAML or JSON files and keeps the
// current set in a registry that reports changes.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/conneroisu/projectcard/internal/card"
	"github.com/conneroisu/projectcard/internal/errors"
)

// Format is a catalog encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// File is the decoded content of a catalog file.
type File struct {
	Projects []card.ProjectCard `json:"projects" yaml:"projects"`
}

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", errors.NewValidationError(errors.ErrCodeUnknownFormat,
			fmt.Sprintf("unsupported catalog extension %q (use .yml, .yaml or .json)", filepath.Ext(path))).
			WithFile(path)
	}
}

// IsCatalogFile reports whether path has a catalog extension.
func IsCatalogFile(path string) bool {
	_, err := FormatFor(path)
	return err == nil
}

// Load reads and decodes a catalog file.
func Load(path string) (*File, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		code := errors.ErrCodeInvalidPath
		if os.IsNotExist(err) {
			code = errors.ErrCodeFileNotFound
		}
		return nil, errors.NewIOError(code, "cannot read catalog", err).WithFile(path)
	}

	file, cerr := decode(bytes.NewReader(data), format)
	if cerr != nil {
		return nil, cerr.WithFile(path)
	}
	return file, nil
}

// Decode reads a catalog in the given format. An empty document yields an
// empty catalog.
func Decode(r io.Reader, format Format) (*File, error) {
	file, err := decode(r, format)
	if err != nil {
		return nil, err
	}
	return file, nil
}

func decode(r io.Reader, format Format) (*File, *errors.CardError) {
	var file File

	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&file); err != nil && err != io.EOF {
			return nil, decodeError("invalid YAML catalog", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		if err := dec.Decode(&file); err != nil && err != io.EOF {
			return nil, decodeError("invalid JSON catalog", err)
		}
		if _, err := dec.Token(); err != io.EOF {
			return nil, decodeError("invalid JSON catalog", fmt.Errorf("unexpected data after the catalog object at offset %d", dec.InputOffset()))
		}
	default:
		return nil, errors.NewValidationError(errors.ErrCodeUnknownFormat, fmt.Sprintf("unknown catalog format %q", format))
	}

	return &file, nil
}

func decodeError(message string, cause error) *errors.CardError {
	return &errors.CardError{
		Type:    errors.ErrorTypeValidation,
		Code:    errors.ErrCodeDecodeFailed,
		Message: message,
		Cause:   cause,
	}
}

// Encode writes a catalog in the given format.
func Encode(w io.Writer, file *File, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(file); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(file)
	default:
		return errors.NewValidationError(errors.ErrCodeUnknownFormat, fmt.Sprintf("unknown catalog format %q", format))
	}
}

// Find returns the project with the given name.
func (f *File) Find(name string) (card.ProjectCard, bool) {
	for _, p := range f.Projects {
		if p.Name == name {
			return p, true
		}
	}
	return card.ProjectCard{}, false
}
