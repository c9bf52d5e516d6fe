package scope

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/specialistvlad/formgrid/internal/fieldpath"
)

// ErrPathConflict is returned when a path would cross a leaf or would turn
// an existing branch into a leaf.
var ErrPathConflict = errors.New("scope path conflict")

// Node is the sum type of the tree: either *Branch[T] or Leaf[T].
type Node[T any] interface {
	isNode()
}

// Leaf carries a payload value.
type Leaf[T any] struct {
	Value T
}

func (Leaf[T]) isNode() {}

// Branch is a structural node with named children.
type Branch[T any] struct {
	children map[string]Node[T]
}

func (*Branch[T]) isNode() {}

// Item is a leaf value together with its full path.
type Item[T any] struct {
	Path  fieldpath.Path
	Value T
}

// NewBranch returns an empty tree.
func NewBranch[T any]() *Branch[T] {
	return &Branch[T]{children: map[string]Node[T]{}}
}

// Keys returns the names of direct children in sorted order.
func (b *Branch[T]) Keys() []string {
	if b == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(b.children))
}

// Child returns the direct child with the given name.
func (b *Branch[T]) Child(name string) (Node[T], bool) {
	if b == nil {
		return nil, false
	}
	n, ok := b.children[name]
	return n, ok
}

// Lookup returns the node found at path. The empty path is the branch itself.
func (b *Branch[T]) Lookup(path fieldpath.Path) (Node[T], bool) {
	if b == nil {
		return nil, false
	}
	var cur Node[T] = b
	for _, seg := range path {
		br, ok := cur.(*Branch[T])
		if !ok {
			return nil, false
		}
		if cur, ok = br.children[seg]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// Get returns the leaf value stored at path.
func (b *Branch[T]) Get(path fieldpath.Path) (T, bool) {
	var zero T
	n, ok := b.Lookup(path)
	if !ok {
		return zero, false
	}
	leaf, ok := n.(Leaf[T])
	if !ok {
		return zero, false
	}
	return leaf.Value, true
}

// Has reports whether a leaf exists at path.
func (b *Branch[T]) Has(path fieldpath.Path) bool {
	_, ok := b.Get(path)
	return ok
}

// With returns a tree where path holds v. Intermediate branches are created
// as needed. Replacing an existing leaf is allowed; replacing a branch or
// descending through a leaf is not.
func (b *Branch[T]) With(path fieldpath.Path, v T) (*Branch[T], error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrPathConflict)
	}
	return b.with(path, 0, v)
}

func (b *Branch[T]) with(path fieldpath.Path, depth int, v T) (*Branch[T], error) {
	out := b.clone()
	name := path[depth]
	existing, exists := out.children[name]

	if depth == len(path)-1 {
		if _, isBranch := existing.(*Branch[T]); exists && isBranch {
			return nil, fmt.Errorf("%w: %q is a scope", ErrPathConflict, path[:depth+1].String())
		}
		out.children[name] = Leaf[T]{Value: v}
		return out, nil
	}

	var sub *Branch[T]
	if exists {
		br, ok := existing.(*Branch[T])
		if !ok {
			return nil, fmt.Errorf("%w: %q is a field", ErrPathConflict, path[:depth+1].String())
		}
		sub = br
	}
	next, err := sub.with(path, depth+1, v)
	if err != nil {
		return nil, err
	}
	out.children[name] = next
	return out, nil
}

// MustWith is With for callers that already know the path is free.
func (b *Branch[T]) MustWith(path fieldpath.Path, v T) *Branch[T] {
	out, err := b.With(path, v)
	if err != nil {
		panic(err)
	}
	return out
}

// Update replaces the leaf at path with fn(old). Missing paths are left alone.
func (b *Branch[T]) Update(path fieldpath.Path, fn func(T) T) *Branch[T] {
	old, ok := b.Get(path)
	if !ok {
		return b
	}
	return b.MustWith(path, fn(old))
}

// Without returns a tree with the node at path removed. Branches left empty
// by the removal are pruned as well.
func (b *Branch[T]) Without(path fieldpath.Path) *Branch[T] {
	if len(path) == 0 || b == nil {
		return b
	}
	child, ok := b.children[path[0]]
	if !ok {
		return b
	}
	out := b.clone()
	if len(path) == 1 {
		delete(out.children, path[0])
		return out
	}
	br, ok := child.(*Branch[T])
	if !ok {
		return b
	}
	sub := br.Without(path[1:])
	if sub.isEmptyTree() {
		delete(out.children, path[0])
	} else {
		out.children[path[0]] = sub
	}
	return out
}

// Walk visits every leaf in deterministic (sorted) order. It stops early and
// returns false when fn returns false.
func (b *Branch[T]) Walk(fn func(path fieldpath.Path, v T) bool) bool {
	return b.walk(nil, fn)
}

func (b *Branch[T]) walk(prefix fieldpath.Path, fn func(fieldpath.Path, T) bool) bool {
	for _, name := range b.Keys() {
		p := prefix.Child(name)
		switch n := b.children[name].(type) {
		case Leaf[T]:
			if !fn(p, n.Value) {
				return false
			}
		case *Branch[T]:
			if !n.walk(p, fn) {
				return false
			}
		}
	}
	return true
}

// Items lists all leaves with their paths.
func (b *Branch[T]) Items() []Item[T] {
	var items []Item[T]
	b.Walk(func(p fieldpath.Path, v T) bool {
		items = append(items, Item[T]{Path: p, Value: v})
		return true
	})
	return items
}

// Paths lists the paths of all leaves.
func (b *Branch[T]) Paths() []fieldpath.Path {
	var paths []fieldpath.Path
	b.Walk(func(p fieldpath.Path, _ T) bool {
		paths = append(paths, p)
		return true
	})
	return paths
}

// Len counts leaves.
func (b *Branch[T]) Len() int {
	n := 0
	b.Walk(func(fieldpath.Path, T) bool {
		n++
		return true
	})
	return n
}

func (b *Branch[T]) isEmptyTree() bool {
	return b == nil || len(b.children) == 0
}

func (b *Branch[T]) clone() *Branch[T] {
	if b == nil {
		return NewBranch[T]()
	}
	return &Branch[T]{children: maps.Clone(b.children)}
}

// Map mirrors a tree, converting every leaf with fn.
func Map[T, U any](b *Branch[T], fn func(path fieldpath.Path, v T) U) *Branch[U] {
	out := NewBranch[U]()
	b.Walk(func(p fieldpath.Path, v T) bool {
		out = out.MustWith(p, fn(p, v))
		return true
	})
	return out
}

// FromMap builds a tree from nested maps. Every map[string]any becomes a
// branch, every other value a leaf.
func FromMap(m map[string]any) *Branch[any] {
	out := NewBranch[any]()
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			out.children[k] = FromMap(nested)
			continue
		}
		out.children[k] = Leaf[any]{Value: v}
	}
	return out
}

// ToMap projects a tree back into nested maps.
func ToMap[T any](b *Branch[T]) map[string]any {
	out := map[string]any{}
	for _, name := range b.Keys() {
		switch n := b.children[name].(type) {
		case Leaf[T]:
			out[name] = n.Value
		case *Branch[T]:
			out[name] = ToMap(n)
		}
	}
	return out
}
