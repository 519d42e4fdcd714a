// Package manifest reads class manifests emitted by a styling build step: flat
// JSON objects or TOML tables mapping BEM keys to class names.
package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	domainerrors "bem/internal/core/errors"
	"bem/internal/engine/bem"
)

const (
	FormatJSON = "json"
	FormatTOML = "toml"
)

// FormatFor returns the manifest format for path, preferring an explicit format.
func FormatFor(path, format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	switch format {
	case FormatJSON, FormatTOML:
		return format, nil
	default:
		return "", domainerrors.Newf(domainerrors.CodeNotSupported, "unsupported manifest format %q", format).
			WithContext(domainerrors.CtxPath, path)
	}
}

// Load reads the manifest at path. An empty format is inferred from the extension.
func Load(path, format string) (bem.Mapping, error) {
	format, err := FormatFor(path, format)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domainerrors.AddContext(domainerrors.Wrap(err, domainerrors.CodeNotFound, "manifest not found"), domainerrors.CtxPath, path)
		}
		return nil, domainerrors.AddContext(domainerrors.Wrap(err, domainerrors.CodeInternal, "open manifest"), domainerrors.CtxPath, path)
	}
	defer f.Close()

	mapping, err := Decode(f, format)
	if err != nil {
		return nil, domainerrors.AddContext(err, domainerrors.CtxPath, path)
	}
	return mapping, nil
}

// Decode parses a flat manifest. Every value must be a string.
func Decode(r io.Reader, format string) (bem.Mapping, error) {
	raw := make(map[string]interface{})
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&raw); err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeValidationError, "decode json manifest")
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&raw); err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeValidationError, "decode toml manifest")
		}
	default:
		return nil, domainerrors.Newf(domainerrors.CodeNotSupported, "unsupported manifest format %q", format)
	}

	mapping := make(bem.Mapping, len(raw))
	for key, value := range raw {
		cls, ok := value.(string)
		if !ok {
			return nil, domainerrors.Newf(domainerrors.CodeValidationError, "manifest value for %q must be a string, got %T", key, value).
				WithContext(domainerrors.CtxKey, key)
		}
		mapping[key] = cls
	}
	if len(mapping) == 0 {
		return nil, domainerrors.New(domainerrors.CodeValidationError, "manifest is empty")
	}
	return mapping, nil
}

// Summary is a short description used in logs.
func Summary(m bem.Mapping) string {
	blocks := 0
	for key := range m {
		if bem.IsBlockKey(key) {
			blocks++
		}
	}
	return fmt.Sprintf("%d keys, %d blocks", len(m), blocks)
}
