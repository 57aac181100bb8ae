package tree

import "sync"

// Store is an in-memory, id-indexed collection of Nodes for one tree
// computation. It owns insertion order, deduplication, and the only
// mutation paths into a Node (initial_confidence's write-once door in
// particular). A Store is owned exclusively by one tree computation -
// concurrent builders must not share one (spec.md §5).
type Store struct {
	mu       sync.Mutex
	nodes    map[string]*Node
	order    []string
	children map[string][]string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		nodes:    make(map[string]*Node),
		children: make(map[string][]string),
	}
}

// Insert adds n to the store, or merges it into an existing node if one
// with the same id already exists (existing wins, untouched) or one with
// the same (parent_id, move, fen) already exists (merged per spec.md
// §4.2). It returns whichever Node ends up representing n's position.
func (s *Store) Insert(n *Node) *Node {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.nodes[n.id]; ok {
		return existing
	}

	for _, cid := range s.children[n.parentID] {
		cand := s.nodes[cid]
		if cand.move == n.move && cand.fen == n.fen {
			s.mergeLocked(cand, n)
			return cand
		}
	}

	s.nodes[n.id] = n
	s.order = append(s.order, n.id)
	s.children[n.parentID] = append(s.children[n.parentID], n.id)
	if parent, ok := s.nodes[n.parentID]; ok {
		parent.mu.Lock()
		parent.setHasBranchesLocked(true)
		parent.mu.Unlock()
	}
	return n
}

// mergeLocked folds incoming into existing per the commutative/
// associative merge rule of spec.md Design Notes "Deduplication
// semantics": role promotion (played+best -> played-best), shape
// promotion (any+square -> square), minimum preference rank, maximum
// confidence. existing.initialConfidence is never touched. Caller must
// hold s.mu.
func (s *Store) mergeLocked(existing, incoming *Node) {
	existing.mu.Lock()
	defer existing.mu.Unlock()

	if (existing.role == RolePlayed && incoming.role == RoleBest) ||
		(existing.role == RoleBest && incoming.role == RolePlayed) {
		existing.role = RolePlayedBest
	}
	if incoming.shape == ShapeSquare {
		existing.shape = ShapeSquare
	}
	if incoming.preferenceNumber != nil {
		if existing.preferenceNumber == nil || *incoming.preferenceNumber < *existing.preferenceNumber {
			pn := *incoming.preferenceNumber
			existing.preferenceNumber = &pn
		}
	}
	if incoming.confidence > existing.confidence {
		existing.confidence = incoming.confidence
	}
}

// Get looks up a node by id.
func (s *Store) Get(id string) (*Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[id]
	return n, ok
}

// ChildrenOf returns the direct children of id, in insertion order.
func (s *Store) ChildrenOf(id string) []*Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.children[id]
	out := make([]*Node, 0, len(ids))
	for _, cid := range ids {
		out = append(out, s.nodes[cid])
	}
	return out
}

// FindByFEN returns every node whose position is fen, in insertion
// order.
func (s *Store) FindByFEN(fen string) []*Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Node
	for _, id := range s.order {
		if n := s.nodes[id]; n.fen == fen {
			out = append(out, n)
		}
	}
	return out
}

// RefreshColor recomputes n's color from its current confidence and
// baseline. The start node is always left grey.
func (s *Store) RefreshColor(n *Node, baseline int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.refreshColorLocked(baseline)
}

// SetInitialConfidence sets n's initial_confidence if it is not already
// set, then refreshes color. Returns whether it set anything - a
// duplicate build never overwrites a locked value (spec.md §7: "never an
// error").
func (s *Store) SetInitialConfidence(n *Node, value int, baseline int) bool {
	n.mu.Lock()
	set := n.setInitialConfidenceLocked(value)
	n.refreshColorLocked(baseline)
	n.mu.Unlock()
	return set
}

// SetTransferredConfidence unconditionally sets n's transferred
// confidence and refreshes confidence/color together, per spec.md §4.2.
func (s *Store) SetTransferredConfidence(n *Node, value int, baseline int) {
	n.mu.Lock()
	n.setTransferredConfidenceLocked(value)
	n.refreshColorLocked(baseline)
	n.mu.Unlock()
}

// SetPreferenceNumber records n's depth-2 rank among sibling moves.
func (s *Store) SetPreferenceNumber(n *Node, value int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.setPreferenceNumberLocked(value)
}

// Order returns node ids in insertion order - the canonical
// serialization order (spec.md §3 Tree).
func (s *Store) Order() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// All returns every node in insertion order.
func (s *Store) All() []*Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Node, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.nodes[id])
	}
	return out
}

// Len returns the number of nodes currently in the store.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}
