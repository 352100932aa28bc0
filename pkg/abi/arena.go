// Package abi exposes the handle-based flat interface consumed by hosts
// that can only exchange small integers and flat memory: integer tokens
// for decoder sessions and frame records, a bit-exact 36-byte record
// header, and plane readback by token.
package abi

// arena maps small integer tokens to live objects through a
// generation-checked slot table. Tokens pack a 16-bit generation above a
// 16-bit slot number, so a token issued before a slot was recycled no
// longer resolves. Zero is never a valid token.
type arena struct {
	slots []slot
	free  []int
	live  int
}

type slot struct {
	gen  uint16
	val  any
	used bool
}

const maxSlots = 0xFFFF

// put stores a value and returns its token, or 0 if the table is full.
func (a *arena) put(v any) uint32 {
	var idx int
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		if len(a.slots) >= maxSlots {
			return 0
		}
		a.slots = append(a.slots, slot{})
		idx = len(a.slots) - 1
	}
	s := &a.slots[idx]
	s.val = v
	s.used = true
	a.live++
	return uint32(s.gen)<<16 | uint32(idx+1)
}

// get resolves a token without removing it.
func (a *arena) get(token uint32) (any, bool) {
	s := a.slot(token)
	if s == nil {
		return nil, false
	}
	return s.val, true
}

// take resolves a token and frees its slot. The generation is bumped so
// the same token can never resolve again.
func (a *arena) take(token uint32) (any, bool) {
	s := a.slot(token)
	if s == nil {
		return nil, false
	}
	v := s.val
	s.val = nil
	s.used = false
	s.gen++
	a.free = append(a.free, int(token&0xFFFF)-1)
	a.live--
	return v, true
}

func (a *arena) slot(token uint32) *slot {
	idx := int(token&0xFFFF) - 1
	if idx < 0 || idx >= len(a.slots) {
		return nil
	}
	s := &a.slots[idx]
	if !s.used || s.gen != uint16(token>>16) {
		return nil
	}
	return s
}
