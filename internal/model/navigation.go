package model

import "maps"

// Params are the string parameters of a screen, usually just "id".
type Params map[string]string

// Equal compares by value; nil and empty params are equal.
func (p Params) Equal(other Params) bool {
	return maps.Equal(p, other)
}

// Clone returns an independent copy that is never nil.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// ID returns the "id" parameter.
func (p Params) ID() string {
	return p["id"]
}

type Breadcrumb struct {
	Screen ScreenID `json:"screen"`
	Label  string   `json:"label"`
	Params Params   `json:"params"`
}

type NavigationState struct {
	Screen ScreenID     `json:"screen"`
	Params Params       `json:"params"`
	Path   []Breadcrumb `json:"path"`
}

// Clone deep-copies the state so callers cannot reach router internals.
func (s NavigationState) Clone() NavigationState {
	out := NavigationState{
		Screen: s.Screen,
		Params: s.Params.Clone(),
		Path:   make([]Breadcrumb, len(s.Path)),
	}
	for i, c := range s.Path {
		out.Path[i] = Breadcrumb{Screen: c.Screen, Label: c.Label, Params: c.Params.Clone()}
	}
	return out
}

// Labels returns the breadcrumb labels in order.
func (s NavigationState) Labels() []string {
	out := make([]string, len(s.Path))
	for i, c := range s.Path {
		out[i] = c.Label
	}
	return out
}
