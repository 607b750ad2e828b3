package rbforest

import "cmp"

// ValueMut is a scoped mutable reference to a value already present in a
// tree. Grounded on original_source/tree/node.rs's ValueMut, whose Drop
// impl re-derives the node's cumulant (and its ancestors') once the
// caller is done mutating the value directly. Go has no destructors, so
// Close must be called explicitly — conventionally via defer immediately
// after the reference is obtained — to restore the cumulant invariant.
// Skipping Close leaves stale cumulants above the node until the next
// structural mutation happens to pass back through it.
type ValueMut[K cmp.Ordered, V any, C any] struct {
	value  *V
	at     ref
	g      reader[K, V, C]
	cml    Cumulant[V, C]
	closed bool
}

func newValueMut[K cmp.Ordered, V any, C any](g reader[K, V, C], cml Cumulant[V, C], at ref) *ValueMut[K, V, C] {
	return &ValueMut[K, V, C]{value: &g.Get(at).value, at: at, g: g, cml: cml}
}

// Get returns a pointer to the live value. Mutations through it take
// effect immediately; the cumulant invariant is only restored once Close
// runs.
func (vm *ValueMut[K, V, C]) Get() *V { return vm.value }

// Close repropagates the cumulant from this node up to the root. Safe to
// call more than once; only the first call has any effect.
func (vm *ValueMut[K, V, C]) Close() {
	if vm.closed {
		return
	}
	vm.closed = true
	propagateCumulant[K, V, C](vm.g, vm.cml, vm.at)
}
