// Package tree implements the in-memory Node Store: an id-indexed
// collection of confidence-tree nodes that enforces deduplication,
// preserves insertion order, and protects each node's initial_confidence
// from being overwritten once set.
package tree

import "sync"

// Role classifies why a node exists in the tree.
type Role string

const (
	RoleStart       Role = "start"
	RolePlayed      Role = "played"
	RoleBest        Role = "best"
	RolePlayedBest  Role = "played-best"
	RoleAlternative Role = "alternative"
	RoleExtension   Role = "extension"
)

// Shape is a display hint only.
type Shape string

const (
	ShapeSquare   Shape = "square"
	ShapeTriangle Shape = "triangle"
	ShapeCircle   Shape = "circle"
)

// Color is a display hint, except that green/red also encode the
// baseline comparison used by tests and callers.
type Color string

const (
	ColorGrey  Color = "grey"
	ColorRed   Color = "red"
	ColorGreen Color = "green"
)

// StartID, PlayedMoveID and BestMoveID are the reserved node ids spec'd
// for the three fixed children of S0.
const (
	StartID      = "start"
	PlayedMoveID = "played-move"
	BestMoveID   = "best-move"
)

// Node is one evaluated position in the confidence tree. Confidence
// fields change only through Store methods; of Node's exported methods
// only SetRole, SetShape, AddTag and SetMetadata mutate, and none of
// them touches a confidence field. This is the write-once door spec'd
// for initial_confidence: there is no public setter that can reach in
// and overwrite it.
type Node struct {
	mu sync.Mutex

	id       string
	parentID string
	fen      string
	move     string
	plyIndex int

	role  Role
	shape Shape
	color Color

	hasBranches bool

	initialConfidence     *int
	transferredConfidence *int
	confidence            int

	preferenceNumber *int

	tags          []string
	extendedMoves map[string]int
	metadata      map[string]interface{}
}

// NewNode constructs a node with no confidence set yet. Use Store.Insert
// to add it to a tree and Store.SetInitialConfidence to lock in its
// directly-computed confidence.
func NewNode(id, parentID, fen, move string, plyIndex int, role Role, shape Shape) *Node {
	color := ColorRed
	if id == StartID {
		color = ColorGrey
	}
	return &Node{
		id:            id,
		parentID:      parentID,
		fen:           fen,
		move:          move,
		plyIndex:      plyIndex,
		role:          role,
		shape:         shape,
		color:         color,
		extendedMoves: make(map[string]int),
		metadata:      make(map[string]interface{}),
	}
}

func (n *Node) ID() string { return n.id }

func (n *Node) ParentID() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.parentID
}

func (n *Node) FEN() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.fen
}

func (n *Node) Move() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.move
}

func (n *Node) PlyIndex() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.plyIndex
}

func (n *Node) Role() Role {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.role
}

func (n *Node) Shape() Shape {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.shape
}

func (n *Node) Color() Color {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.color
}

func (n *Node) HasBranches() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.hasBranches
}

// InitialConfidence returns the locked initial confidence and whether it
// has been set yet.
func (n *Node) InitialConfidence() (int, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.initialConfidence == nil {
		return 0, false
	}
	return *n.initialConfidence, true
}

// TransferredConfidence returns the propagated confidence and whether
// the node is a non-leaf (has had propagation run over it).
func (n *Node) TransferredConfidence() (int, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.transferredConfidence == nil {
		return 0, false
	}
	return *n.transferredConfidence, true
}

// Confidence returns the current effective confidence:
// transferred ?? initial ?? 0. A dedup merge in Store.Insert may raise it
// above that value; the next SetTransferredConfidence recomputes it.
func (n *Node) Confidence() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.confidence
}

// PreferenceNumber returns the depth-2 rank among sibling moves, if any.
func (n *Node) PreferenceNumber() (int, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.preferenceNumber == nil {
		return 0, false
	}
	return *n.preferenceNumber, true
}

// Metadata returns a copy of the node's metadata map.
func (n *Node) Metadata() map[string]interface{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make(map[string]interface{}, len(n.metadata))
	for k, v := range n.metadata {
		out[k] = v
	}
	return out
}

// SetMetadata records a key/value pair in the node's opaque metadata
// slot. Unlike initial_confidence this is freely mutable - metadata
// carries no invariant.
func (n *Node) SetMetadata(key string, value interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.metadata[key] = value
}

// Tags returns a copy of the node's tag list.
func (n *Node) Tags() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.tags))
	copy(out, n.tags)
	return out
}

// AddTag appends a tag if not already present.
func (n *Node) AddTag(tag string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, t := range n.tags {
		if t == tag {
			return
		}
	}
	n.tags = append(n.tags, tag)
}

// ExtendedMoves returns a copy of the extended-moves counter map.
func (n *Node) ExtendedMoves() map[string]int {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make(map[string]int, len(n.extendedMoves))
	for k, v := range n.extendedMoves {
		out[k] = v
	}
	return out
}

func (n *Node) bumpExtendedMove(move string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.extendedMoves[move]++
}

// SetRole updates the node's role. Unlike initial_confidence, role
// carries no write-once invariant - the build phase's played/best fusion
// (spec.md §4.3 step 3) promotes a node's role after creation.
func (n *Node) SetRole(r Role) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.role = r
}

// SetShape updates the node's display-hint shape.
func (n *Node) SetShape(s Shape) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.shape = s
}

func (n *Node) setPreferenceNumberLocked(v int) {
	n.preferenceNumber = &v
}

// clampConfidence enforces invariant 4 of spec.md §3: confidence values
// are always clamped to [0, 100].
func clampConfidence(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// recomputeLocked refreshes the cached confidence field from
// transferred ?? initial ?? 0. Callers must hold n.mu.
func (n *Node) recomputeLocked() {
	switch {
	case n.transferredConfidence != nil:
		n.confidence = *n.transferredConfidence
	case n.initialConfidence != nil:
		n.confidence = *n.initialConfidence
	default:
		n.confidence = 0
	}
}

// refreshColorLocked recomputes color from confidence and baseline. The
// start node is always grey. Callers must hold n.mu.
func (n *Node) refreshColorLocked(baseline int) {
	if n.id == StartID {
		n.color = ColorGrey
		return
	}
	if n.confidence >= baseline {
		n.color = ColorGreen
	} else {
		n.color = ColorRed
	}
}

// setInitialConfidenceLocked is the one write path for initial
// confidence: it no-ops if already set. Returns whether it set anything.
// Callers must hold n.mu.
func (n *Node) setInitialConfidenceLocked(value int) bool {
	if n.initialConfidence != nil {
		return false
	}
	v := clampConfidence(value)
	n.initialConfidence = &v
	n.recomputeLocked()
	return true
}

// setTransferredConfidenceLocked unconditionally sets the propagated
// value. Callers must hold n.mu.
func (n *Node) setTransferredConfidenceLocked(value int) {
	v := clampConfidence(value)
	n.transferredConfidence = &v
	n.recomputeLocked()
}

func (n *Node) setHasBranchesLocked(v bool) {
	n.hasBranches = v
}
