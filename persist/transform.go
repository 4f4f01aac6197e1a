package persist

// Transform maps state between its in-memory shape and its persisted shape,
// e.g. to strip ephemeral fields or migrate legacy layouts. Zero-value
// fields mean identity: Read decodes storage bytes directly into the state
// type and Write hands the state to the codec as-is.
type Transform[S any] struct {
	// Read maps the decoded persisted form into a state. Its input is the
	// codec's generic decoding of the stored bytes.
	Read func(persisted any) (S, error)
	// Write maps a state into the form handed to the codec.
	Write func(state S) (any, error)
}
