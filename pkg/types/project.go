package types

// Project is one entry from the static projects table: a human-facing name
// mapped to the provider project ID.
type Project struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}
