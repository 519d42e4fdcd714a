package bem

import (
	"strings"

	domainerrors "bem/internal/core/errors"
	"bem/internal/shared/util"
)

const (
	ElementSeparator  = "__"
	ModifierSeparator = "--"
)

// Mapping maps naming-convention keys (block, block__element, block--modifier,
// block__element--modifier) to the class names emitted by a styling build step.
// The package never mutates a Mapping.
type Mapping map[string]string

// Key composes the lookup key for the given parts. Empty element or modifier
// parts are left out.
func Key(block, element, modifier string) string {
	var b strings.Builder
	b.Grow(len(block) + len(element) + len(modifier) + 4)
	b.WriteString(block)
	if element != "" {
		b.WriteString(ElementSeparator)
		b.WriteString(element)
	}
	if modifier != "" {
		b.WriteString(ModifierSeparator)
		b.WriteString(modifier)
	}
	return b.String()
}

// Lookup returns the class name stored under key. A missing key is reported as
// UNKNOWN_KEY; no placeholder is ever substituted.
func (m Mapping) Lookup(key string) (string, error) {
	cls, ok := m[key]
	if !ok {
		return "", domainerrors.Newf(domainerrors.CodeUnknownKey, "class mapping has no entry for %q", key).
			WithContext(domainerrors.CtxKey, key)
	}
	return cls, nil
}

// Has reports whether key is present.
func (m Mapping) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// IsBlockKey reports whether key names a bare block.
func IsBlockKey(key string) bool {
	return key != "" && !strings.Contains(key, ElementSeparator) && !strings.Contains(key, ModifierSeparator)
}

// Keys returns all keys in sorted order.
func (m Mapping) Keys() []string {
	return util.SortedStringKeys(m)
}

// Elements lists the element identifiers present for block, sorted.
func (m Mapping) Elements(block string) []string {
	prefix := block + ElementSeparator
	seen := make(map[string]struct{})
	for key := range m {
		rest, ok := strings.CutPrefix(key, prefix)
		if !ok {
			continue
		}
		element, _, _ := strings.Cut(rest, ModifierSeparator)
		if element == "" {
			continue
		}
		seen[element] = struct{}{}
	}
	return util.SortedStringKeys(seen)
}

// Modifiers lists the modifier identifiers present for block, or for
// block__element when element is non-empty, sorted.
func (m Mapping) Modifiers(block, element string) []string {
	prefix := Key(block, element, "") + ModifierSeparator
	seen := make(map[string]struct{})
	for key := range m {
		modifier, ok := strings.CutPrefix(key, prefix)
		if !ok || modifier == "" {
			continue
		}
		if strings.Contains(modifier, ElementSeparator) || strings.Contains(modifier, ModifierSeparator) {
			continue
		}
		seen[modifier] = struct{}{}
	}
	return util.SortedStringKeys(seen)
}

// SplitKey splits a mapping key into its block, element and modifier parts.
// The block ends at the first separator. A key whose parts are not well-formed
// identifiers is reported as INVALID_ARGUMENT carrying the key.
func SplitKey(key string) (block, element, modifier string, err error) {
	elemAt := strings.Index(key, ElementSeparator)
	modAt := strings.Index(key, ModifierSeparator)

	hasElement, hasModifier := false, false
	switch {
	case elemAt < 0 && modAt < 0:
		block = key
	case elemAt >= 0 && (modAt < 0 || elemAt < modAt):
		block = key[:elemAt]
		hasElement = true
		element, modifier, hasModifier = strings.Cut(key[elemAt+len(ElementSeparator):], ModifierSeparator)
	default:
		block = key[:modAt]
		modifier = key[modAt+len(ModifierSeparator):]
		hasModifier = true
	}

	if err := checkIdent(domainerrors.CtxBlock, block); err != nil {
		return "", "", "", domainerrors.AddContext(err, domainerrors.CtxKey, key)
	}
	if hasElement {
		if err := checkIdent(domainerrors.CtxElement, element); err != nil {
			return "", "", "", domainerrors.AddContext(err, domainerrors.CtxKey, key)
		}
	}
	if hasModifier {
		if err := checkIdent(domainerrors.CtxModifier, modifier); err != nil {
			return "", "", "", domainerrors.AddContext(err, domainerrors.CtxKey, key)
		}
	}
	return block, element, modifier, nil
}

// checkIdent rejects identifiers that would make key composition ambiguous:
// empty ones, ones containing a separator, and ones starting or ending with
// '_' or '-' (a_ + __ + b and a + __ + _b compose the same key).
func checkIdent(kind, ident string) error {
	if ident == "" {
		return domainerrors.Newf(domainerrors.CodeInvalidArgument, "%s identifier must not be empty", kind)
	}
	for _, sep := range []string{ElementSeparator, ModifierSeparator} {
		if strings.Contains(ident, sep) {
			return domainerrors.Newf(domainerrors.CodeInvalidArgument, "%s identifier %q contains reserved separator %q", kind, ident, sep).
				WithContext(kind, ident)
		}
	}
	if isSeparatorByte(ident[0]) || isSeparatorByte(ident[len(ident)-1]) {
		return domainerrors.Newf(domainerrors.CodeInvalidArgument, "%s identifier %q must not start or end with '_' or '-'", kind, ident).
			WithContext(kind, ident)
	}
	return nil
}

func isSeparatorByte(c byte) bool {
	return c == '_' || c == '-'
}
