package model

import (
	"fmt"
	"strconv"
	"sync"
)

/*
Registry is a bijective index between the nodes of one tree model and
their ids, built by a pre-order walk of the whole tree.

Nodes declaring no id are assigned their pre-order position, starting at
"1", as id; explicit ids must not collide with each other nor with the
positional ones. A registry is immutable once built and safe for
concurrent use.
*/
type Registry struct {
	nodes map[string]*Node
	ids   map[*Node]string
}

/*
Node returns the node registered under the given id and a boolean
indicating whether the id is known to the registry.
*/
func (r *Registry) Node(id string) (*Node, bool) {
	n, ok := r.nodes[id]
	return n, ok
}

/*
ID returns the id the given node is registered under and a boolean
indicating whether the node belongs to the registry's tree.
*/
func (r *Registry) ID(n *Node) (string, bool) {
	id, ok := r.ids[n]
	return id, ok
}

/*
Len returns the number of nodes in the registry.
*/
func (r *Registry) Len() int {
	return len(r.nodes)
}

func buildRegistry(tm *TreeModel) (*Registry, error) {
	if tm == nil || tm.Root == nil {
		return nil, &StructureError{Reason: "no root node"}
	}
	r := &Registry{
		nodes: make(map[string]*Node),
		ids:   make(map[*Node]string),
	}
	position := 0
	err := r.collect(tm.Root, &position)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) collect(n *Node, position *int) error {
	*position++
	id := n.ID
	if id == "" {
		id = strconv.Itoa(*position)
	}
	if _, taken := r.nodes[id]; taken {
		return &StructureError{Node: n, Reason: fmt.Sprintf("duplicate node id %q", id)}
	}
	r.nodes[id] = n
	r.ids[n] = id
	for _, child := range n.Children {
		if err := r.collect(child, position); err != nil {
			return err
		}
	}
	return nil
}

type registryEntry struct {
	once     sync.Once
	registry *Registry
	err      error
}

var (
	registriesMu sync.Mutex
	registries   = make(map[*TreeModel]*registryEntry)
)

/*
Index returns the node registry for the given tree model, building it on
the first request and reusing the built registry on subsequent ones.

The cache is keyed by the model's identity, not its content: mutating a
model after indexing it is not a supported scenario. Concurrent first
requests for the same model coordinate so the registry is built exactly
once, with every caller observing the single build's outcome. Entries are
held until Release is called for the model; the cache performs no
implicit reclamation.
*/
func Index(tm *TreeModel) (*Registry, error) {
	registriesMu.Lock()
	entry := registries[tm]
	if entry == nil {
		entry = &registryEntry{}
		registries[tm] = entry
	}
	registriesMu.Unlock()
	entry.once.Do(func() {
		entry.registry, entry.err = buildRegistry(tm)
	})
	return entry.registry, entry.err
}

/*
Release drops the cached node registry for the given tree model, if any.
Callers discarding a model should release it so the cache does not keep
the model's nodes alive.
*/
func Release(tm *TreeModel) {
	registriesMu.Lock()
	delete(registries, tm)
	registriesMu.Unlock()
}
