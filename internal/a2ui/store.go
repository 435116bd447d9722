package a2ui

import (
	"strconv"
	"strings"
)

// ReactiveStore is a path-addressed, observable JSON document: the data
// model backing a single surface. Paths are /-delimited from the root; the
// root is always an object. Values are the shapes encoding/json produces
// (map[string]any, []any, string, float64, bool, nil).
//
// The store is single-goroutine by contract. All surface mutation happens
// on the UI loop, so there is no locking here; subscribers are notified
// synchronously on the mutating call stack.
type ReactiveStore struct {
	root      map[string]any
	listeners map[int]func()
	nextID    int
}

// NewReactiveStore returns a store with an empty root object.
func NewReactiveStore() *ReactiveStore {
	return &ReactiveStore{
		root:      make(map[string]any),
		listeners: make(map[int]func()),
	}
}

// splitPath breaks a /-delimited path into its non-empty segments, so "/",
// "" and "//a" all normalize sensibly.
func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	segs := parts[:0]
	for _, p := range parts {
		if p != "" {
			segs = append(segs, p)
		}
	}
	return segs
}

// Get reads the value at path. "" and "/" return the whole document. The
// walk stops with nil as soon as any intermediate node is missing or not a
// container; it never errors on odd shapes. Numeric segments index into
// arrays, which is how template instances address their own element.
func (s *ReactiveStore) Get(path string) any {
	segs := splitPath(path)
	if len(segs) == 0 {
		return s.root
	}
	var node any = s.root
	for _, seg := range segs {
		node = step(node, seg)
		if node == nil {
			return nil
		}
	}
	return node
}

// step descends one segment into an object or array node.
func step(node any, seg string) any {
	switch v := node.(type) {
	case map[string]any:
		return v[seg]
	case []any:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= len(v) {
			return nil
		}
		return v[i]
	default:
		return nil
	}
}

// Set writes value at path and notifies subscribers.
//
// A root write ("" or "/") replaces the whole document, but only when the
// value is itself an object: the root must stay an object, so scalar or
// array roots are ignored. Subscribers are notified either way.
//
// For deeper paths the walk descends objects and in-range array indices,
// auto-creating an intermediate object wherever a segment is missing or
// lands on a scalar.
func (s *ReactiveStore) Set(path string, value any) {
	segs := splitPath(path)
	if len(segs) == 0 {
		if obj, ok := value.(map[string]any); ok && obj != nil {
			s.root = obj
		}
		s.notify()
		return
	}
	var node any = s.root
	for _, seg := range segs[:len(segs)-1] {
		next := step(node, seg)
		if _, isObj := next.(map[string]any); !isObj {
			if _, isArr := next.([]any); !isArr {
				next = make(map[string]any)
				assign(node, seg, next)
			}
		}
		node = next
	}
	assign(node, segs[len(segs)-1], value)
	s.notify()
}

// assign writes value under seg on an object or array node. Writes into a
// scalar or out-of-range index have nowhere to land and are dropped.
func assign(node any, seg string, value any) {
	switch v := node.(type) {
	case map[string]any:
		v[seg] = value
	case []any:
		if i, err := strconv.Atoi(seg); err == nil && i >= 0 && i < len(v) {
			v[i] = value
		}
	}
}

// Subscribe registers a change callback and returns its removal func.
// Callbacks fire synchronously after every Set, in no particular order.
func (s *ReactiveStore) Subscribe(fn func()) (unsubscribe func()) {
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() { delete(s.listeners, id) }
}

// notify iterates a snapshot of the listener set so a callback may
// unsubscribe itself (or others) mid-notification.
func (s *ReactiveStore) notify() {
	snapshot := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		snapshot = append(snapshot, fn)
	}
	for _, fn := range snapshot {
		fn()
	}
}
