package depgraph

import (
	"fmt"
	"sync"

	"github.com/specialistvlad/formgrid/internal/fieldpath"
)

// Dependency is one entry of a field's depends list: a group name or a
// reference to another field.
type Dependency struct {
	Group string
	Path  fieldpath.Path
}

// Group declares membership in a named group.
func Group(name string) Dependency { return Dependency{Group: name} }

// Ref declares a direct reference to another field.
func Ref(path fieldpath.Path) Dependency { return Dependency{Path: path} }

// IsGroup reports whether d names a group.
func (d Dependency) IsGroup() bool { return d.Path == nil }

func (d Dependency) String() string {
	if d.IsGroup() {
		return d.Group
	}
	return "[" + d.Path.String() + "]"
}

type node struct {
	path   fieldpath.Path
	groups map[string]struct{}
	refs   map[string]struct{}
}

// Graph holds the dependency declarations of a set of fields.
type Graph struct {
	mutex sync.RWMutex
	order []string
	nodes map[string]*node
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*node)}
}

// Add registers a field and its dependencies. References to fields that
// are not (yet) registered are allowed; they link once the target appears.
func (g *Graph) Add(path fieldpath.Path, deps []Dependency) error {
	key := path.String()
	n := &node{
		path:   path,
		groups: make(map[string]struct{}),
		refs:   make(map[string]struct{}),
	}
	for _, d := range deps {
		if d.IsGroup() {
			if d.Group == "" {
				return fmt.Errorf("field %s: empty dependency group name", key)
			}
			n.groups[d.Group] = struct{}{}
			continue
		}
		target := d.Path.String()
		if target == key {
			return fmt.Errorf("self-referential dependency not allowed: %s -> %s", key, key)
		}
		n.refs[target] = struct{}{}
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()
	if _, exists := g.nodes[key]; exists {
		return fmt.Errorf("field already registered: %s", key)
	}
	g.nodes[key] = n
	g.order = append(g.order, key)
	return nil
}

// Remove unregisters a field. Unknown paths are ignored.
func (g *Graph) Remove(path fieldpath.Path) {
	key := path.String()
	g.mutex.Lock()
	defer g.mutex.Unlock()
	if _, ok := g.nodes[key]; !ok {
		return
	}
	delete(g.nodes, key)
	for i, k := range g.order {
		if k == key {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

// Has reports whether path is registered.
func (g *Graph) Has(path fieldpath.Path) bool {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	_, ok := g.nodes[path.String()]
	return ok
}

// Dependents returns the fields directly linked to any of changed, in
// registration order. With includeSelf the changed paths come first,
// verbatim, whether or not they are linked to anything.
func (g *Graph) Dependents(changed []fieldpath.Path, includeSelf bool) []fieldpath.Path {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	changedSet := make(map[string]struct{}, len(changed))
	groups := make(map[string]struct{})
	referenced := make(map[string]struct{})
	for _, p := range changed {
		key := p.String()
		changedSet[key] = struct{}{}
		if n, ok := g.nodes[key]; ok {
			for grp := range n.groups {
				groups[grp] = struct{}{}
			}
			for ref := range n.refs {
				referenced[ref] = struct{}{}
			}
		}
	}

	var out []fieldpath.Path
	if includeSelf {
		out = append(out, changed...)
	}
	for _, key := range g.order {
		if _, self := changedSet[key]; self {
			continue
		}
		if g.linked(g.nodes[key], key, changedSet, groups, referenced) {
			out = append(out, g.nodes[key].path)
		}
	}
	return out
}

func (g *Graph) linked(n *node, key string, changed, groups, referenced map[string]struct{}) bool {
	if _, ok := referenced[key]; ok {
		return true
	}
	for grp := range n.groups {
		if _, ok := groups[grp]; ok {
			return true
		}
	}
	for ref := range n.refs {
		if _, ok := changed[ref]; ok {
			return true
		}
	}
	return false
}
