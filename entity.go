package roids

import "strconv"

// Entity identifies a simulation object. The low 32 bits hold the slot
// index and the high 32 bits its generation. Destroying an entity bumps the
// slot generation, so stale handles stop resolving instead of aliasing a
// newer entity. The zero Entity is never issued.
type Entity uint64

func newEntity(index, generation uint32) Entity {
	return Entity(uint64(generation)<<32 | uint64(index))
}

func (e Entity) Index() uint32      { return uint32(e) }
func (e Entity) Generation() uint32 { return uint32(e >> 32) }
func (e Entity) IsZero() bool       { return e == 0 }

// String formats the entity as index v generation, e.g. "12v3".
func (e Entity) String() string {
	if e.IsZero() {
		return "none"
	}
	return strconv.FormatUint(uint64(e.Index()), 10) + "v" + strconv.FormatUint(uint64(e.Generation()), 10)
}

// entityPool allocates generational entity handles with a free list.
// Generations start at 1 so that no handle equals the zero Entity.
type entityPool struct {
	generations []uint32
	free        []uint32
}

func (p *entityPool) create() Entity {
	if n := len(p.free); n > 0 {
		idx := p.free[n-1]
		p.free = p.free[:n-1]
		return newEntity(idx, p.generations[idx])
	}
	idx := uint32(len(p.generations))
	p.generations = append(p.generations, 1)
	return newEntity(idx, 1)
}

func (p *entityPool) current(e Entity) bool {
	idx := e.Index()
	return int(idx) < len(p.generations) && p.generations[idx] == e.Generation()
}

func (p *entityPool) destroy(e Entity) bool {
	if !p.current(e) {
		return false // stale handle
	}
	idx := e.Index()
	p.generations[idx]++
	if p.generations[idx] == 0 {
		p.generations[idx] = 1
	}
	p.free = append(p.free, idx)
	return true
}
