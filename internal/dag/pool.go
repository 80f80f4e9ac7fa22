package dag

import "geoengine/internal/geoerrors"

// Solver is the pure per-variant compute function (spec §4.E): reads
// parents' cached Result fields only, writes the node's own Result.
// Registered by RenderType/PayloadKind combination at construction
// time by the solver package, keeping this package free of an import
// cycle back to solver.
type Solver func(n *GeoNode, pool *Pool) error

// Pool owns every GeoNode allocated during a session plus the
// rank-bucketed dirty-node tracking used by solve_frame (spec §4.D).
type Pool struct {
	nodes   []*GeoNode
	buckets [][]NodeID

	currentFrame   uint64
	enqueuedThisFrame map[NodeID]bool
	minDirtyRank, maxDirtyRank uint32
	anyDirty bool

	solvers map[solverKey]Solver

	names map[string]NodeID
}

type solverKey struct {
	render  RenderType
	payload PayloadKind
}

func NewPool() *Pool {
	return &Pool{
		nodes:             make([]*GeoNode, 0, 256),
		buckets:           make([][]NodeID, 1),
		enqueuedThisFrame: make(map[NodeID]bool),
		solvers:           make(map[solverKey]Solver),
		names:             make(map[string]NodeID),
	}
}

// BindName registers a node under a lookup name so binding slots
// (spec §3 "Binding slot") can resolve PUSH_CONST placeholders back to
// live node results without storing a raw pointer in the bytecode.
func (p *Pool) BindName(name string, id NodeID) {
	p.names[name] = id
}

// ResolveName looks up a node previously registered with BindName.
func (p *Pool) ResolveName(name string) (NodeID, bool) {
	id, ok := p.names[name]
	return id, ok
}

// HasNode implements compiler.GraphContext.
func (p *Pool) HasNode(name string) bool {
	_, ok := p.names[name]
	return ok
}

// RegisterSolver wires a solver function for a given render/payload
// pair; called once per variant at engine construction.
func (p *Pool) RegisterSolver(render RenderType, payload PayloadKind, fn Solver) {
	p.solvers[solverKey{render, payload}] = fn
}

// AllocateNode appends a new inactive node at the tail of the pool
// (spec §4.D "allocate_node").
func (p *Pool) AllocateNode() NodeID {
	id := NodeID(len(p.nodes))
	n := newNode(id)
	p.nodes = append(p.nodes, n)
	return id
}

func (p *Pool) Node(id NodeID) *GeoNode {
	if int(id) >= len(p.nodes) {
		return nil
	}
	return p.nodes[id]
}

func (p *Pool) Len() int { return len(p.nodes) }

func (p *Pool) Exists(id NodeID) bool { return int(id) < len(p.nodes) }

// DetectCycle runs a DFS from child over children edges and reports
// whether parent is reachable — i.e. whether adding child -> ... ->
// parent -> child would close a loop (spec §4.D "detect_cycle").
func (p *Pool) DetectCycle(child, parent NodeID) bool {
	visited := make(map[NodeID]bool)
	var stack []NodeID
	stack = append(stack, child)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == parent {
			return true
		}
		if visited[cur] {
			continue
		}
		visited[cur] = true
		if n := p.Node(cur); n != nil {
			stack = append(stack, n.Children...)
		}
	}
	return false
}

// Link sets child's parent list, appends child to each parent's
// children, and recomputes rank (spec §4.D "link"). Rejects with a
// StructuralError if the new edge would close a cycle (invariant 2).
func (p *Pool) Link(child NodeID, parents []NodeID) error {
	for _, parent := range parents {
		if parent == child {
			return geoerrors.NewStructuralError("node cannot be its own parent", uint32(child))
		}
		if p.DetectCycle(child, parent) {
			return geoerrors.NewStructuralError("link would introduce a cycle", uint32(child))
		}
	}

	c := p.Node(child)
	// Remove child from any previous parents' children lists.
	for _, oldParent := range c.Parents {
		p.removeChild(oldParent, child)
	}

	c.Parents = append([]NodeID(nil), parents...)
	maxParentRank := uint32(0)
	hasParents := len(parents) > 0
	for _, parent := range parents {
		pn := p.Node(parent)
		pn.Children = appendUnique(pn.Children, child)
		if pn.Rank+1 > maxParentRank {
			maxParentRank = pn.Rank + 1
		}
	}
	newRank := uint32(0)
	if hasParents {
		newRank = maxParentRank
	}
	p.setRank(c, newRank)
	return nil
}

// Unlink tears down the parent/children edges of a node being
// deactivated, without freeing its ID (spec §3 "Lifecycle").
func (p *Pool) Unlink(child NodeID) {
	c := p.Node(child)
	for _, parent := range c.Parents {
		p.removeChild(parent, child)
	}
	c.Parents = nil
}

func (p *Pool) removeChild(parent, child NodeID) {
	pn := p.Node(parent)
	for i, id := range pn.Children {
		if id == child {
			pn.Children = append(pn.Children[:i], pn.Children[i+1:]...)
			return
		}
	}
}

func appendUnique(list []NodeID, id NodeID) []NodeID {
	for _, existing := range list {
		if existing == id {
			return list
		}
	}
	return append(list, id)
}

// setRank installs newRank on n and propagates the change downstream
// to every descendant whose rank it invalidates (spec §4.D
// "Rank-update recursion").
func (p *Pool) setRank(n *GeoNode, newRank uint32) {
	if n.Rank == newRank {
		return
	}
	n.Rank = newRank
	p.ensureBucket(newRank)
	for _, childID := range n.Children {
		child := p.Node(childID)
		maxParentRank := uint32(0)
		for _, parentID := range child.Parents {
			pr := p.Node(parentID).Rank + 1
			if pr > maxParentRank {
				maxParentRank = pr
			}
		}
		p.setRank(child, maxParentRank)
	}
}

func (p *Pool) ensureBucket(rank uint32) {
	for uint32(len(p.buckets)) <= rank {
		p.buckets = append(p.buckets, nil)
	}
}

// Touch enqueues id into its rank bucket for the current frame unless
// it is already enqueued (spec §4.D "touch").
func (p *Pool) Touch(id NodeID) {
	n := p.Node(id)
	if n == nil {
		return
	}
	if n.LastUpdateFrame == p.currentFrame && p.enqueuedThisFrame[id] {
		return
	}
	n.LastUpdateFrame = p.currentFrame
	p.enqueuedThisFrame[id] = true
	p.ensureBucket(n.Rank)
	p.buckets[n.Rank] = append(p.buckets[n.Rank], id)
	if !p.anyDirty || n.Rank < p.minDirtyRank {
		p.minDirtyRank = n.Rank
	}
	if !p.anyDirty || n.Rank > p.maxDirtyRank {
		p.maxDirtyRank = n.Rank
	}
	p.anyDirty = true
}

// BeginFrame advances the frame counter and clears enqueue tracking;
// called once by the command manager before draining a commit.
func (p *Pool) BeginFrame() {
	p.currentFrame++
	p.enqueuedThisFrame = make(map[NodeID]bool)
	p.minDirtyRank, p.maxDirtyRank = 0, 0
	p.anyDirty = false
}

func (p *Pool) CurrentFrame() uint64 { return p.currentFrame }

// SolveFrame walks dirty buckets in strict ascending rank order,
// solving each active node and enqueueing its children, then returns
// the set of visited render-capable nodes for the plot stage (spec
// §4.D "solve_frame").
func (p *Pool) SolveFrame() []NodeID {
	var visited []NodeID
	if !p.anyDirty {
		return visited
	}
	for rank := p.minDirtyRank; rank <= p.maxDirtyRank; rank++ {
		if int(rank) >= len(p.buckets) {
			continue
		}
		bucket := p.buckets[rank]
		for _, id := range bucket {
			n := p.Node(id)
			if n == nil || !n.Active {
				continue
			}
			if fn, ok := p.solvers[solverKey{n.RenderType, n.Data.Kind}]; ok {
				if err := fn(n, p); err != nil {
					n.Result.IsValid = false
				}
			}
			if n.RenderType != RenderNone {
				visited = append(visited, id)
			}
			for _, childID := range n.Children {
				p.Touch(childID)
				// Growing buckets[rank+...] mid-iteration over bucket
				// is safe: Touch appends to a later rank's slice, and
				// the outer loop bound (maxDirtyRank) was already
				// widened by Touch if needed.
				child := p.Node(childID)
				if child.Rank > p.maxDirtyRank {
					p.maxDirtyRank = child.Rank
				}
			}
		}
		p.buckets[rank] = nil
	}
	return visited
}

// GetRequiredRankedBatches performs a reverse BFS from targets over
// parents to gather the minimal closure needed to solve them, grouped
// by rank ascending (spec §4.D "get_required_ranked_batches") — used
// for selective/partial solves outside the normal dirty-bucket path.
func (p *Pool) GetRequiredRankedBatches(targets []NodeID) [][]NodeID {
	seen := make(map[NodeID]bool)
	var queue []NodeID
	queue = append(queue, targets...)
	for _, id := range targets {
		seen[id] = true
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		n := p.Node(cur)
		if n == nil {
			continue
		}
		for _, parentID := range n.Parents {
			if !seen[parentID] {
				seen[parentID] = true
				queue = append(queue, parentID)
			}
		}
	}
	maxRank := uint32(0)
	for id := range seen {
		if r := p.Node(id).Rank; r > maxRank {
			maxRank = r
		}
	}
	batches := make([][]NodeID, maxRank+1)
	for id := range seen {
		r := p.Node(id).Rank
		batches[r] = append(batches[r], id)
	}
	return batches
}

// Deactivate marks a node inactive and unlinks it, preserving its ID
// for undo (spec §3 "Lifecycle").
func (p *Pool) Deactivate(id NodeID) {
	n := p.Node(id)
	n.Active = false
	p.Unlink(id)
}

// Activate marks a node active without touching its links; used by
// undo to restore a deleted node.
func (p *Pool) Activate(id NodeID) {
	p.Node(id).Active = true
}
