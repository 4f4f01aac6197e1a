package persist

// State wraps a unit's state value together with a pristine flag marking the
// untouched default. Only this package can mint a pristine slot, and the
// flag is unexported, so serializers never see it and it cannot leak into
// storage. The first Reduce consumes the flag regardless of which path it
// takes; every slot a reducer returns is initialized.
type State[S any] struct {
	Value    S
	pristine bool
}

// Pristine reports whether the slot still holds the untouched default and
// will seed itself from storage on the next reduction.
func (s State[S]) Pristine() bool {
	return s.pristine
}

// Initialized wraps a value in a non-pristine slot, for drivers that need to
// inject state mid-stream without re-arming storage seeding.
func Initialized[S any](value S) State[S] {
	return State[S]{Value: value}
}
