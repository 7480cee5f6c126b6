package gpuimage

import (
	"golang.org/x/text/cases"
)

// Factory builds a fresh filter. A nil result with a nil error is treated as
// absent.
type Factory func() (Renderable, error)

// Adjuster maps a percentage onto one parameter's range.
type Adjuster struct {
	Param   string
	Lo, Hi  float32
	Integer bool
}

// Value returns lo + (hi-lo)*p/100 with p clamped to [0, 100].
func (a Adjuster) Value(percentage float32) float32 {
	p := min(max(percentage, 0), 100)
	return a.Lo + (a.Hi-a.Lo)*p/100
}

func (a Adjuster) param(percentage float32) Value {
	v := a.Value(percentage)
	if a.Integer {
		return Int(int32(v))
	}
	return Float(v)
}

// Apply writes the adjusted value to r.
func (a Adjuster) Apply(r Renderable, percentage float32) {
	r.SetParameter(a.Param, a.param(percentage))
}

// Command returns the adjustment as a deferred SetUniform.
func (a Adjuster) Command(r Renderable, percentage float32) Command {
	return SetUniform{Target: r, Name: a.Param, Value: a.param(percentage)}
}

type entry struct {
	name     string
	factory  Factory
	adjuster *Adjuster
}

// Registry is an ordered list of named filter factories. Entries are
// addressed by index; names may repeat. A Registry is populated at startup
// and read-only afterwards, so concurrent reads are safe.
type Registry struct {
	entries []entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends an entry. adjuster may be nil.
func (r *Registry) Register(name string, factory Factory, adjuster *Adjuster) {
	r.entries = append(r.entries, entry{name: name, factory: factory, adjuster: adjuster})
}

// Count returns the number of entries.
func (r *Registry) Count() int { return len(r.entries) }

// Names lists entry names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.name
	}
	return out
}

// Name returns the name of entry i.
func (r *Registry) Name(i int) (string, bool) {
	if i < 0 || i >= len(r.entries) {
		return "", false
	}
	return r.entries[i].name, true
}

// Instantiate builds a new filter from entry i. It reports false for an
// out-of-range index or a factory that cannot produce its filter, for
// example when a required image resource is missing.
func (r *Registry) Instantiate(i int) (Renderable, bool) {
	if i < 0 || i >= len(r.entries) {
		return nil, false
	}
	e := r.entries[i]
	f, err := e.factory()
	if err != nil || f == nil {
		Logger().Warn("registry entry absent", "index", i, "name", e.name, "err", err)
		return nil, false
	}
	return f, true
}

// AdjusterAt returns the adjuster of entry i, if it has one.
func (r *Registry) AdjusterAt(i int) (*Adjuster, bool) {
	if i < 0 || i >= len(r.entries) || r.entries[i].adjuster == nil {
		return nil, false
	}
	return r.entries[i].adjuster, true
}

// Adjust applies entry i's adjuster to f directly. It must run on the
// render context; use AdjustCommand elsewhere.
func (r *Registry) Adjust(i int, f Renderable, percentage float32) bool {
	a, ok := r.AdjusterAt(i)
	if !ok {
		return false
	}
	a.Apply(f, percentage)
	return true
}

// AdjustCommand returns entry i's adjustment as a command to submit.
func (r *Registry) AdjustCommand(i int, f Renderable, percentage float32) (Command, bool) {
	a, ok := r.AdjusterAt(i)
	if !ok {
		return nil, false
	}
	return a.Command(f, percentage), true
}

// Lookup returns the index of the first entry whose name matches name
// case-insensitively.
func (r *Registry) Lookup(name string) (int, bool) {
	fold := cases.Fold()
	key := fold.String(name)
	for i, e := range r.entries {
		if fold.String(e.name) == key {
			return i, true
		}
	}
	return -1, false
}
