package network

import (
	"fmt"

	"github.com/katalvlaran/fbctest/model"
)

// Kind distinguishes the two node classes of the bipartite graph.
type Kind int

const (
	// MetaboliteNode is a metabolite.
	MetaboliteNode Kind = iota
	// ReactionNode is a reaction.
	ReactionNode
)

func (k Kind) String() string {
	if k == ReactionNode {
		return "reaction"
	}
	return "metabolite"
}

// Node is one vertex of the metabolite/reaction graph. Metabolite and
// reaction IDs live in separate namespaces.
type Node struct {
	Kind Kind
	ID   string
}

func (n Node) String() string { return n.Kind.String() + ":" + n.ID }

// Result holds the outcome of an expansion:
//   - Order: nodes visited, in visit sequence.
//   - Depth: distance of each node from the medium.
//   - Parent: the node whose visit enqueued it (absent for depth 0).
type Result struct {
	Order  []Node
	Depth  map[Node]int
	Parent map[Node]Node
}

// Reached reports whether metabolite mid was produced.
func (r *Result) Reached(mid string) bool {
	_, ok := r.Depth[Node{Kind: MetaboliteNode, ID: mid}]
	return ok
}

// Fired reports whether reaction rid carried flux in the expansion.
func (r *Result) Fired(rid string) bool {
	_, ok := r.Depth[Node{Kind: ReactionNode, ID: rid}]
	return ok
}

// PathTo reconstructs the chain from the medium to dest.
// Returns an error if dest was not reached.
func (r *Result) PathTo(dest Node) ([]Node, error) {
	if _, ok := r.Depth[dest]; !ok {
		return nil, fmt.Errorf("network: no path to %s", dest)
	}
	path := []Node{}
	for cur := dest; ; {
		path = append(path, cur)
		prev, ok := r.Parent[cur]
		if !ok {
			break
		}
		cur = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, nil
}

// direction is one admissible orientation of a reaction: the metabolites
// it needs and the ones it yields.
type direction struct {
	rxn     *model.Reaction
	inputs  []string
	outputs []string
}

// directions lists the orientations admitted by the effective bounds:
// forward when upper > 0, reverse when lower < 0.
func directions(net model.Network, r *model.Reaction) []direction {
	b, _ := net.Bounds(r.ID)
	var out []direction
	if b.Upper > 0 {
		out = append(out, direction{rxn: r, inputs: r.Reactants(), outputs: r.Products()})
	}
	if b.Lower < 0 {
		out = append(out, direction{rxn: r, inputs: r.Products(), outputs: r.Reactants()})
	}

	return out
}

type queueItem struct {
	node   Node
	depth  int
	parent *Node
	dir    *direction // set for reaction items
}

// walker encapsulates mutable expansion state.
type walker struct {
	opts    Options
	queue   []queueItem
	pending map[*direction]int
	users   map[string][]*direction // metabolite → directions needing it
	fired   map[*direction]bool
	res     *Result
}

// Reach expands net from its medium: every reaction orientation whose
// inputs are all available fires and makes its outputs available.
// Boundary uptakes have no inputs and therefore fire first.
//
// Implementation:
//   - Stage 1: enumerate admissible orientations and count their inputs.
//   - Stage 2: seed depth 0 with Options.Seeds and every input-free
//     orientation, in network order.
//   - Stage 3: visiting a metabolite decrements its users' counters; an
//     orientation reaching zero is enqueued one level deeper.
//   - Stage 4: visiting an orientation enqueues its unseen outputs.
//
// A reaction appears once in Order, at its first firing orientation.
//
// Returns ErrNilNetwork, ErrUnknownSeed, ErrOptionViolation, ctx.Err() on
// cancellation, or the OnVisit error.
//
// Complexity: O(|M| + |R| + nnz(S)) time and memory.
func Reach(net model.Network, opts ...Option) (*Result, error) {
	if net == nil {
		return nil, ErrNilNetwork
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	for _, mid := range o.Seeds {
		if _, ok := net.Metabolite(mid); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSeed, mid)
		}
	}

	n := len(net.Metabolites()) + len(net.Reactions())
	w := &walker{
		opts:    o,
		queue:   make([]queueItem, 0, n),
		pending: make(map[*direction]int),
		users:   make(map[string][]*direction),
		fired:   make(map[*direction]bool),
		res: &Result{
			Order:  make([]Node, 0, n),
			Depth:  make(map[Node]int, n),
			Parent: make(map[Node]Node, n),
		},
	}

	var sources []*direction
	for _, r := range net.Reactions() {
		if !o.FilterReaction(r) {
			continue
		}
		for _, d := range directions(net, r) {
			d := d
			w.pending[&d] = len(d.inputs)
			for _, mid := range d.inputs {
				w.users[mid] = append(w.users[mid], &d)
			}
			if len(d.inputs) == 0 {
				sources = append(sources, &d)
			}
		}
	}

	for _, mid := range o.Seeds {
		w.enqueueMetabolite(mid, 0, nil)
	}
	for _, d := range sources {
		w.enqueueReaction(d, 0, nil)
	}

	return w.res, w.loop()
}

func (w *walker) enqueueMetabolite(mid string, depth int, parent *Node) {
	node := Node{Kind: MetaboliteNode, ID: mid}
	if _, seen := w.res.Depth[node]; seen {
		return
	}
	w.res.Depth[node] = depth
	if parent != nil {
		w.res.Parent[node] = *parent
	}
	w.opts.OnEnqueue(node, depth)
	w.queue = append(w.queue, queueItem{node: node, depth: depth, parent: parent})
}

func (w *walker) enqueueReaction(d *direction, depth int, parent *Node) {
	w.fired[d] = true
	node := Node{Kind: ReactionNode, ID: d.rxn.ID}
	if _, seen := w.res.Depth[node]; !seen {
		w.res.Depth[node] = depth
		if parent != nil {
			w.res.Parent[node] = *parent
		}
		w.opts.OnEnqueue(node, depth)
	}
	w.queue = append(w.queue, queueItem{node: node, depth: depth, parent: parent, dir: d})
}

// loop processes the queue until empty, error, or cancellation.
func (w *walker) loop() error {
	visited := make(map[Node]bool)
	for len(w.queue) > 0 {
		select {
		case <-w.opts.Ctx.Done():
			return w.opts.Ctx.Err()
		default:
		}

		item := w.queue[0]
		w.queue = w.queue[1:]
		if !visited[item.node] {
			visited[item.node] = true
			w.res.Order = append(w.res.Order, item.node)
			if err := w.opts.OnVisit(item.node, item.depth); err != nil {
				return fmt.Errorf("network: OnVisit error at %s: %w", item.node, err)
			}
		}

		next := item.depth + 1
		if w.opts.MaxDepth > 0 && next > w.opts.MaxDepth {
			continue
		}
		from := item.node
		if item.dir != nil {
			for _, mid := range item.dir.outputs {
				w.enqueueMetabolite(mid, next, &from)
			}
			continue
		}
		for _, d := range w.users[item.node.ID] {
			w.pending[d]--
			if w.pending[d] == 0 && !w.fired[d] {
				w.enqueueReaction(d, next, &from)
			}
		}
	}

	return nil
}
