package bem

// Modifier is either a modifier identifier or Absent. Absent modifiers are
// skipped during resolution so call sites can pass conditional values directly:
//
//	r.Block("", bem.Mod("primary"), bem.If(disabled, "disabled"))
type Modifier struct {
	name string
}

// Absent is the modifier that contributes nothing.
var Absent Modifier

// Mod returns the modifier named name. Mod("") is Absent; any other string,
// including "0" and "false", is a real identifier.
func Mod(name string) Modifier {
	return Modifier{name: name}
}

// If returns Mod(name) when cond holds and Absent otherwise.
func If(cond bool, name string) Modifier {
	if !cond {
		return Absent
	}
	return Mod(name)
}

// Mods converts a list of names, mapping empty strings to Absent.
func Mods(names ...string) []Modifier {
	mods := make([]Modifier, len(names))
	for i, name := range names {
		mods[i] = Mod(name)
	}
	return mods
}

// Name returns the identifier and whether the modifier is present.
func (m Modifier) Name() (string, bool) {
	return m.name, m.name != ""
}

func (m Modifier) IsAbsent() bool {
	return m.name == ""
}

func (m Modifier) String() string {
	if m.IsAbsent() {
		return "<absent>"
	}
	return m.name
}
