package savedoc

import "strconv"

// Action tells Walk how to continue after a visit
type Action int

// Walk actions
const (
	Continue Action = iota
	SkipChildren
	Stop
)

// Visit describes one node reached by Walk. Parent and Key are set when the
// node is the value of an object member; array elements have a nil Parent.
// Path is reused between visits and must be copied if retained.
type Visit struct {
	Path   []string
	Key    string
	Parent map[string]any
	Value  any
}

// VisitFunc is called for every node in depth-first pre-order
type VisitFunc func(v Visit) Action

// Walk traverses the tree rooted at root depth-first. Object members are
// visited in key order and array elements in index order. The root itself
// is visited with an empty path.
func Walk(root any, fn VisitFunc) {
	w := walker{fn: fn}
	w.walk(Visit{Value: root})
}

type walker struct {
	fn      VisitFunc
	path    []string
	stopped bool
}

func (w *walker) walk(v Visit) {
	v.Path = w.path
	switch w.fn(v) {
	case Stop:
		w.stopped = true
		return
	case SkipChildren:
		return
	}

	switch t := v.Value.(type) {
	case map[string]any:
		for _, k := range sortedKeys(t) {
			w.path = append(w.path, k)
			w.walk(Visit{Key: k, Parent: t, Value: t[k]})
			w.path = w.path[:len(w.path)-1]
			if w.stopped {
				return
			}
		}
	case []any:
		for i, child := range t {
			w.path = append(w.path, indexKey(i))
			w.walk(Visit{Value: child})
			w.path = w.path[:len(w.path)-1]
			if w.stopped {
				return
			}
		}
	}
}

// Matcher selects a node for Find
type Matcher struct {
	Name  string
	Match func(v Visit) bool
}

// Find runs every matcher over the tree in one pass and returns the first
// node each one accepted, keyed by matcher name. The walk stops as soon as
// every matcher has a result.
func Find(root any, matchers ...Matcher) map[string]Visit {
	found := make(map[string]Visit, len(matchers))
	if len(matchers) == 0 {
		return found
	}

	Walk(root, func(v Visit) Action {
		for _, m := range matchers {
			if _, done := found[m.Name]; done {
				continue
			}
			if m.Match(v) {
				hit := v
				hit.Path = append([]string(nil), v.Path...)
				found[m.Name] = hit
			}
		}
		if len(found) == len(matchers) {
			return Stop
		}
		return Continue
	})
	return found
}

// Strings calls fn for every string value in the tree
func Strings(root any, fn func(s string)) {
	Walk(root, func(v Visit) Action {
		if s, ok := v.Value.(string); ok {
			fn(s)
		}
		return Continue
	})
}

func indexKey(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}
