// Package bem resolves BEM (block, element, modifier) identifiers against a
// class mapping and joins the resolved class names into one class attribute
// value.
package bem

import (
	"strings"

	domainerrors "bem/internal/core/errors"
)

// Resolver binds a Mapping to one block. It holds no mutable state and is safe
// for concurrent use.
type Resolver struct {
	mapping Mapping
	block   string
}

// New binds mapping to block. The block identifier must be well formed and
// present in mapping as a key of its own.
func New(mapping Mapping, block string) (*Resolver, error) {
	if mapping == nil {
		return nil, domainerrors.New(domainerrors.CodeInvalidArgument, "class mapping must not be nil")
	}
	if err := checkIdent(domainerrors.CtxBlock, block); err != nil {
		return nil, err
	}
	if _, err := mapping.Lookup(block); err != nil {
		return nil, domainerrors.AddContext(err, domainerrors.CtxBlock, block)
	}
	return &Resolver{mapping: mapping, block: block}, nil
}

// MustNew is like New but panics if the resolver cannot be created.
func MustNew(mapping Mapping, block string) *Resolver {
	r, err := New(mapping, block)
	if err != nil {
		panic("bem: " + err.Error())
	}
	return r
}

// Name returns the bound block identifier.
func (r *Resolver) Name() string {
	return r.block
}

// Block returns the class string for the bound block: external (when non-empty),
// the block class, then one class per present modifier in call order.
func (r *Resolver) Block(external string, modifiers ...Modifier) (string, error) {
	return r.resolve(r.block, "", external, modifiers)
}

// Element is Block for block__element.
func (r *Resolver) Element(element, external string, modifiers ...Modifier) (string, error) {
	if err := checkIdent(domainerrors.CtxElement, element); err != nil {
		return "", domainerrors.AddContext(err, domainerrors.CtxBlock, r.block)
	}
	return r.resolve(Key(r.block, element, ""), element, external, modifiers)
}

// Validate checks that every key a call with the given element and modifiers
// would compose exists. An empty element validates the bare block. Empty
// modifiers are skipped, as Mods treats them as Absent.
func (r *Resolver) Validate(element string, modifiers ...string) error {
	base := r.block
	if element != "" {
		if err := checkIdent(domainerrors.CtxElement, element); err != nil {
			return domainerrors.AddContext(err, domainerrors.CtxBlock, r.block)
		}
		base = Key(r.block, element, "")
	}
	if _, err := r.mapping.Lookup(base); err != nil {
		return domainerrors.AddContext(err, domainerrors.CtxBlock, r.block)
	}
	for _, modifier := range modifiers {
		if modifier == "" {
			continue
		}
		if err := checkIdent(domainerrors.CtxModifier, modifier); err != nil {
			return domainerrors.AddContext(err, domainerrors.CtxBlock, r.block)
		}
		if _, err := r.mapping.Lookup(base + ModifierSeparator + modifier); err != nil {
			return domainerrors.AddContext(err, domainerrors.CtxBlock, r.block)
		}
	}
	return nil
}

func (r *Resolver) resolve(base, element, external string, modifiers []Modifier) (string, error) {
	cls, err := r.mapping.Lookup(base)
	if err != nil {
		return "", r.annotate(err, element)
	}

	var b strings.Builder
	if external != "" {
		b.WriteString(external)
		b.WriteByte(' ')
	}
	b.WriteString(cls)

	for _, m := range modifiers {
		name, ok := m.Name()
		if !ok {
			continue
		}
		if err := checkIdent(domainerrors.CtxModifier, name); err != nil {
			return "", r.annotate(err, element)
		}
		cls, err := r.mapping.Lookup(base + ModifierSeparator + name)
		if err != nil {
			return "", r.annotate(domainerrors.AddContext(err, domainerrors.CtxModifier, name), element)
		}
		b.WriteByte(' ')
		b.WriteString(cls)
	}
	return b.String(), nil
}

func (r *Resolver) annotate(err error, element string) error {
	err = domainerrors.AddContext(err, domainerrors.CtxBlock, r.block)
	if element != "" {
		err = domainerrors.AddContext(err, domainerrors.CtxElement, element)
	}
	return err
}
