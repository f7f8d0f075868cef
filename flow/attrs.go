package flow

import "strconv"

// Attribute is a single (name, value) string pair. Values are stored as
// strings and parsed on demand by the typed getters below — this mirrors how
// the binary IR format stores them (see load.go) and keeps Dump trivial.
type Attribute struct {
	Name  string
	Value string
}

// Attributes is an ordered list of Attribute. Order matters: it is iteration
// order for Dump, and Fuse relies on "does X already have this key" checks
// that must not depend on any particular internal ordering being imposed by
// a map.
type Attributes []Attribute

// Get returns the raw string value for name, and whether it was found.
func (a Attributes) Get(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Has reports whether name is present.
func (a Attributes) Has(name string) bool {
	_, found := a.Get(name)
	return found
}

// GetBool returns the boolean value of an attribute: true iff the stored
// value is "1", "T" or "true". Returns def if the attribute is absent.
func (a Attributes) GetBool(name string, def bool) bool {
	v, found := a.Get(name)
	if !found {
		return def
	}
	return v == "1" || v == "T" || v == "true"
}

// GetInt parses the attribute's value as a decimal integer, returning def if
// the attribute is absent or fails to parse.
func (a Attributes) GetInt(name string, def int) int {
	v, found := a.Get(name)
	if !found {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Set assigns value to name, overwriting an existing entry in place (so
// order is preserved) or appending a new one.
func (a *Attributes) Set(name, value string) {
	for i := range *a {
		if (*a)[i].Name == name {
			(*a)[i].Value = value
			return
		}
	}
	*a = append(*a, Attribute{Name: name, Value: value})
}

// SetInt is a convenience wrapper around Set for integer values.
func (a *Attributes) SetInt(name string, value int) {
	a.Set(name, strconv.Itoa(value))
}

// SetBool is a convenience wrapper around Set for boolean values, stored as
// "1"/"0".
func (a *Attributes) SetBool(name string, value bool) {
	if value {
		a.Set(name, "1")
	} else {
		a.Set(name, "0")
	}
}

// Clone returns an independent copy of the attribute list.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	copy(out, a)
	return out
}
