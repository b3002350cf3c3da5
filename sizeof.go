package jsonsize

import "unsafe"

const (
	// Envelope is the cost charged once for every node of a tree: the size
	// of the Value wrapper itself.
	Envelope = int(unsafe.Sizeof(Value{}))

	// StringOverhead is the bookkeeping a string carries beyond its bytes
	// (data pointer, length and capacity).
	StringOverhead = int(unsafe.Sizeof(Str{}))

	// MapEntryOverhead approximates the per-entry cost of an object's
	// table as three pointer-sized words.
	MapEntryOverhead = 3 * int(unsafe.Sizeof(uintptr(0)))
)

// SizeOf estimates the number of bytes held in memory by v and everything
// reachable from it.
//
// Every node costs Envelope. Strings add StringOverhead plus their capacity,
// object entries add StringOverhead, the key capacity and MapEntryOverhead.
// Null, booleans and numbers carry no payload.
//
// The walk uses an explicit stack, so arbitrarily deep trees are fine. v
// must not be mutated while SizeOf runs.
func SizeOf(v Value) int {
	total := 0
	stack := []*Value{&v}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		total += Envelope

		switch n.kind {
		case KindString:
			total += StringOverhead + n.str.Cap()
		case KindArray:
			for i := range n.arr {
				stack = append(stack, &n.arr[i])
			}
		case KindObject:
			if n.obj == nil {
				continue
			}
			for i := range n.obj.keys {
				total += StringOverhead + n.obj.keys[i].Cap() + MapEntryOverhead
				stack = append(stack, &n.obj.vals[i])
			}
		}
		// Null, booleans and numbers: envelope only. This undercounts
		// numbers that would need big-number backing.
	}

	return total
}
