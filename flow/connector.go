package flow

import "slices"

// Connector is an orthogonal grouping of variables that share identity
// outside of the normal producer/consumer edges — e.g. recurrent loop
// carries. Connectors never create producer/consumer edges (invariant 8).
type Connector struct {
	Name  string
	Links []*Variable
}

// AddLink appends v to the connector's links unless it is already present.
func (c *Connector) AddLink(v *Variable) {
	if slices.Contains(c.Links, v) {
		return
	}
	c.Links = append(c.Links, v)
}

// RemoveLink removes v from the connector's links, reporting whether it was
// present.
func (c *Connector) RemoveLink(v *Variable) bool {
	i := slices.Index(c.Links, v)
	if i == -1 {
		return false
	}
	c.Links = slices.Delete(c.Links, i, i+1)
	return true
}

// ReplaceLink removes old and adds v in its place, reporting whether old was
// found. If old was not linked, v is not added either.
func (c *Connector) ReplaceLink(old, v *Variable) bool {
	if !c.RemoveLink(old) {
		return false
	}
	c.AddLink(v)
	return true
}
