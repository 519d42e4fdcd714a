package bem

import (
	"testing"

	domainerrors "bem/internal/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		block    string
		element  string
		modifier string
		expected string
	}{
		{name: "Block", block: "btn", expected: "btn"},
		{name: "Element", block: "btn", element: "label", expected: "btn__label"},
		{name: "BlockModifier", block: "btn", modifier: "primary", expected: "btn--primary"},
		{name: "ElementModifier", block: "btn", element: "label", modifier: "strong", expected: "btn__label--strong"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Key(tc.block, tc.element, tc.modifier); got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestSplitKey(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		key      string
		block    string
		element  string
		modifier string
		invalid  bool
	}{
		{name: "Block", key: "btn", block: "btn"},
		{name: "Element", key: "btn__label", block: "btn", element: "label"},
		{name: "BlockModifier", key: "btn--primary", block: "btn", modifier: "primary"},
		{name: "ElementModifier", key: "btn__label--strong", block: "btn", element: "label", modifier: "strong"},
		{name: "ZeroModifier", key: "btn--0", block: "btn", modifier: "0"},
		{name: "SingleDashes", key: "nav-bar__menu-item--is-open", block: "nav-bar", element: "menu-item", modifier: "is-open"},
		{name: "ElementInModifier", key: "btn--a__b", invalid: true},
		{name: "DoubleModifier", key: "btn__label--m--n", invalid: true},
		{name: "EmptyElement", key: "btn__--z", invalid: true},
		{name: "NestedElement", key: "btn__a__b", invalid: true},
		{name: "EmptyModifier", key: "btn--", invalid: true},
		{name: "EmptyBlock", key: "__label", invalid: true},
		{name: "TripleUnderscore", key: "btn___label", invalid: true},
		{name: "TripleDash", key: "btn---primary", invalid: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			block, element, modifier, err := SplitKey(tc.key)
			if tc.invalid {
				require.Error(t, err)
				assert.True(t, domainerrors.IsCode(err, domainerrors.CodeInvalidArgument))
				key, ok := domainerrors.ContextValue(err, domainerrors.CtxKey)
				require.True(t, ok)
				assert.Equal(t, tc.key, key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.block, block)
			assert.Equal(t, tc.element, element)
			assert.Equal(t, tc.modifier, modifier)
			assert.Equal(t, tc.key, Key(block, element, modifier))
		})
	}
}

func TestMappingLookup(t *testing.T) {
	m := buttonMapping()

	cls, err := m.Lookup("btn__label")
	require.NoError(t, err)
	assert.Equal(t, "c3", cls)
	assert.True(t, m.Has("btn"))
	assert.False(t, m.Has("card"))

	_, err = m.Lookup("card")
	require.Error(t, err)
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeUnknownKey))
	key, ok := domainerrors.ContextValue(err, domainerrors.CtxKey)
	require.True(t, ok)
	assert.Equal(t, "card", key)
}

func TestMappingEnumeration(t *testing.T) {
	m := buttonMapping()
	m["btn__icon--spin"] = "c8"
	m["btnx__other"] = "c9"
	m["card"] = "c10"

	assert.Equal(t, []string{"icon", "label"}, m.Elements("btn"))
	assert.Equal(t, []string{"0", "disabled", "primary"}, m.Modifiers("btn", ""))
	assert.Equal(t, []string{"muted", "strong"}, m.Modifiers("btn", "label"))
	assert.Equal(t, []string{"spin"}, m.Modifiers("btn", "icon"))
	assert.Empty(t, m.Elements("card"))
	assert.Empty(t, m.Modifiers("card", ""))

	keys := m.Keys()
	assert.Len(t, keys, len(m))
	assert.IsNonDecreasing(t, keys)
}
