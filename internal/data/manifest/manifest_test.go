package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	domainerrors "bem/internal/core/errors"
	"bem/internal/engine/bem"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFormatFor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		path     string
		format   string
		expected string
		fails    bool
	}{
		{name: "JSONExtension", path: "dist/classes.json", expected: FormatJSON},
		{name: "TOMLExtension", path: "classes.TOML", expected: FormatTOML},
		{name: "ExplicitWins", path: "classes.txt", format: " JSON ", expected: FormatJSON},
		{name: "Unknown", path: "classes.yaml", fails: true},
		{name: "NoExtension", path: "classes", fails: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := FormatFor(tc.path, tc.format)
			if tc.fails {
				require.Error(t, err)
				assert.True(t, domainerrors.IsCode(err, domainerrors.CodeNotSupported))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "classes.json", `{"btn": "c1", "btn--primary": "c2", "btn__label": "c3"}`)

	mapping, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, bem.Mapping{"btn": "c1", "btn--primary": "c2", "btn__label": "c3"}, mapping)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "classes.toml", `
btn = "c1"
btn--primary = "c2"
"btn__label" = "c3"
`)

	mapping, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, bem.Mapping{"btn": "c1", "btn--primary": "c2", "btn__label": "c3"}, mapping)

	r, err := bem.New(mapping, "btn")
	require.NoError(t, err)
	got, err := r.Block("extra", bem.Mod("primary"))
	require.NoError(t, err)
	assert.Equal(t, "extra c1 c2", got)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"), "")
	require.Error(t, err)
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeNotFound))
	path, ok := domainerrors.ContextValue(err, domainerrors.CtxPath)
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(path.(string), "missing.json"))

	_, err = Load(writeFile(t, "bad.json", `{"btn": `), "")
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeValidationError))

	_, err = Load(writeFile(t, "nested.json", `{"btn": {"primary": "c2"}}`), "")
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeValidationError))
	key, ok := domainerrors.ContextValue(err, domainerrors.CtxKey)
	require.True(t, ok)
	assert.Equal(t, "btn", key)

	_, err = Load(writeFile(t, "number.toml", `btn = 1`), "")
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeValidationError))

	_, err = Load(writeFile(t, "empty.json", `{}`), "")
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeValidationError))
}

func TestDecodeUnsupportedFormat(t *testing.T) {
	_, err := Decode(strings.NewReader(`btn: c1`), "yaml")
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeNotSupported))
}

func TestSummary(t *testing.T) {
	m := bem.Mapping{"btn": "c1", "btn--primary": "c2", "card": "c3", "card__title": "c4"}
	assert.Equal(t, "4 keys, 2 blocks", Summary(m))
}
