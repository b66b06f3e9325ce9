package reconcile

import "reflect"

// Prune deletes key from every object reachable from node, in place.
// Objects are map[string]any; []any and []map[string]any are walked element
// by element but never pruned themselves. Containers already visited are
// skipped, so shared substructures are handled once and cycles terminate.
func Prune(node any, key string) {
	p := pruner{
		key:  key,
		seen: make(map[containerID]struct{}),
	}
	p.run(node)
}

type containerKind uint8

const (
	kindMap containerKind = iota + 1
	kindSlice
	kindMapSlice
)

type containerID struct {
	kind containerKind
	ptr  uintptr
	len  int
}

type pruner struct {
	key  string
	seen map[containerID]struct{}
}

func (p *pruner) run(root any) {
	stack := []any{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch v := node.(type) {
		case map[string]any:
			if v == nil || !p.visit(kindMap, reflect.ValueOf(v).Pointer(), 0) {
				continue
			}
			delete(v, p.key)
			for _, child := range v {
				stack = append(stack, child)
			}
		case []any:
			if len(v) == 0 || !p.visit(kindSlice, reflect.ValueOf(v).Pointer(), len(v)) {
				continue
			}
			for _, child := range v {
				stack = append(stack, child)
			}
		case []map[string]any:
			if len(v) == 0 || !p.visit(kindMapSlice, reflect.ValueOf(v).Pointer(), len(v)) {
				continue
			}
			for _, child := range v {
				stack = append(stack, child)
			}
		}
	}
}

func (p *pruner) visit(kind containerKind, ptr uintptr, n int) bool {
	id := containerID{kind: kind, ptr: ptr, len: n}
	if _, ok := p.seen[id]; ok {
		return false
	}
	p.seen[id] = struct{}{}
	return true
}
