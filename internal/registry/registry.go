// Package registry is the static catalog of models the relay is willing to
// dispatch to. It is fixed at compile time: no network or config lookup, so
// the frontend dropdown and the dispatcher's default never disagree.
package registry

// Model pairs a stable identifier with the display name shown to users.
type Model struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// catalog is ordered; the first entry is the default. IDs are unique.
var catalog = []Model{
	{ID: "gpt-3.5-turbo", Name: "GPT-3.5"},
	{ID: "gpt-4", Name: "GPT-4"},
	{ID: "claude-v1", Name: "Claude"},
	{ID: "claude-instant-v1", Name: "Claude Instant"},
}

// List returns the catalog in insertion order. The returned slice is a copy,
// callers cannot mutate the catalog through it.
func List() []Model {
	out := make([]Model, len(catalog))
	copy(out, catalog)
	return out
}

// Default returns the first catalog entry. The catalog is a non-empty
// literal, so this cannot fail.
func Default() Model {
	return catalog[0]
}
