package roids

import (
	"math/bits"
)

// Bitmask is a 128-bit bitmask used for tracking component presence.
// It supports up to MaxComponents unique component types per world.
type Bitmask [2]uint64

// Set sets the bit for the given component.
func (m *Bitmask) Set(id ComponentID) {
	m[id/64] |= 1 << (id % 64)
}

// Clear clears the bit for the given component.
func (m *Bitmask) Clear(id ComponentID) {
	m[id/64] &^= 1 << (id % 64)
}

// Has returns true if the bit for the given component is set.
func (m *Bitmask) Has(id ComponentID) bool {
	return m[id/64]&(1<<(id%64)) != 0
}

// ContainsAll returns true if all bits set in other are also set in m.
// Used to check that every required component is present.
func (m *Bitmask) ContainsAll(other Bitmask) bool {
	return m[0]&other[0] == other[0] && m[1]&other[1] == other[1]
}

// ContainsAny returns true if any bit set in other is also set in m.
// Used to check whether any excluded component is present.
func (m *Bitmask) ContainsAny(other Bitmask) bool {
	return m[0]&other[0] != 0 || m[1]&other[1] != 0
}

// Matches reports whether m satisfies a require/exclude filter pair.
func (m *Bitmask) Matches(require, exclude Bitmask) bool {
	return m.ContainsAll(require) && !m.ContainsAny(exclude)
}

// IsZero returns true if no bits are set.
func (m *Bitmask) IsZero() bool {
	return m[0] == 0 && m[1] == 0
}

// Or returns a new bitmask with bits set from both m and other.
func (m Bitmask) Or(other Bitmask) Bitmask {
	return Bitmask{m[0] | other[0], m[1] | other[1]}
}

// Count returns the number of bits set.
func (m *Bitmask) Count() int {
	return bits.OnesCount64(m[0]) + bits.OnesCount64(m[1])
}
