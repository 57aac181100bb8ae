package tree

// NodePayload is the serialized form of a Node, matching spec.md §6.3's
// per-node payload shape.
type NodePayload struct {
	ID                   string                 `json:"id"`
	ParentID             *string                `json:"parent_id"`
	FEN                  string                 `json:"fen"`
	MoveFromParent       *string                `json:"move_from_parent"`
	PlyFromS0            int                    `json:"ply_from_S0"`
	ConfidencePercent    int                    `json:"ConfidencePercent"`
	HasBranches          bool                   `json:"has_branches"`
	InitialConfidence    *int                   `json:"initial_confidence"`
	TransferredConfidence *int                  `json:"transferred_confidence"`
	PreferenceNumber     *int                   `json:"preference_number"`
	InsufficientConfidence bool                 `json:"insufficient_confidence"`
	Shape                Shape                  `json:"shape"`
	Color                Color                  `json:"color"`
	Tags                 []string               `json:"tags"`
	ExtendedMoves        map[string]int         `json:"extended_moves"`
	Metadata             map[string]interface{} `json:"metadata"`
}

// ToPayload serializes n using the precedence rule
// transferred ?? initial ?? confidence for the exported confidence
// value (spec.md §4.2 to_payload).
func (s *Store) ToPayload(n *Node) NodePayload {
	n.mu.Lock()
	defer n.mu.Unlock()

	var reported int
	switch {
	case n.transferredConfidence != nil:
		reported = *n.transferredConfidence
	case n.initialConfidence != nil:
		reported = *n.initialConfidence
	default:
		reported = n.confidence
	}

	var parentID *string
	if n.parentID != "" {
		pid := n.parentID
		parentID = &pid
	}
	var move *string
	if n.move != "" {
		m := n.move
		move = &m
	}

	var initial *int
	if n.initialConfidence != nil {
		v := *n.initialConfidence
		initial = &v
	}
	var transferred *int
	if n.transferredConfidence != nil {
		v := *n.transferredConfidence
		transferred = &v
	}
	var pref *int
	if n.preferenceNumber != nil {
		v := *n.preferenceNumber
		pref = &v
	}

	tags := make([]string, len(n.tags))
	copy(tags, n.tags)
	extMoves := make(map[string]int, len(n.extendedMoves))
	for k, v := range n.extendedMoves {
		extMoves[k] = v
	}
	meta := make(map[string]interface{}, len(n.metadata))
	for k, v := range n.metadata {
		meta[k] = v
	}

	return NodePayload{
		ID:                     n.id,
		ParentID:               parentID,
		FEN:                    n.fen,
		MoveFromParent:         move,
		PlyFromS0:              n.plyIndex,
		ConfidencePercent:      reported,
		HasBranches:            n.hasBranches,
		InitialConfidence:      initial,
		TransferredConfidence:  transferred,
		PreferenceNumber:       pref,
		InsufficientConfidence: n.color == ColorRed,
		Shape:                  n.shape,
		Color:                  n.color,
		Tags:                   tags,
		ExtendedMoves:          extMoves,
		Metadata:               meta,
	}
}

// FromPayload reconstructs a Node from a previously serialized payload,
// preserving its locked initial_confidence (spec.md §4.3 "Incremental
// mode" step 2). Color is deliberately not carried over: the caller must
// call Store.RefreshColor with the current baseline afterwards, except
// for the start node which FromPayload pins to grey directly.
func FromPayload(p NodePayload) *Node {
	parentID := ""
	if p.ParentID != nil {
		parentID = *p.ParentID
	}
	move := ""
	if p.MoveFromParent != nil {
		move = *p.MoveFromParent
	}
	n := NewNode(p.ID, parentID, p.FEN, move, p.PlyFromS0, RoleFromString(""), p.Shape)
	n.role = inferRole(p)
	if p.PreferenceNumber != nil {
		v := *p.PreferenceNumber
		n.preferenceNumber = &v
	}
	if p.InitialConfidence != nil {
		v := clampConfidence(*p.InitialConfidence)
		n.initialConfidence = &v
	}
	n.hasBranches = p.HasBranches
	n.tags = append([]string(nil), p.Tags...)
	n.extendedMoves = make(map[string]int, len(p.ExtendedMoves))
	for k, v := range p.ExtendedMoves {
		n.extendedMoves[k] = v
	}
	n.metadata = make(map[string]interface{}, len(p.Metadata))
	for k, v := range p.Metadata {
		n.metadata[k] = v
	}
	n.recomputeLocked()
	if n.id == StartID {
		n.color = ColorGrey
	}
	return n
}

// inferRole recovers a role for a reconstructed node. The payload does
// not carry role directly (spec.md §6.3 omits it), so it is inferred
// from id and shape exactly as spec.md §3 reserves them.
func inferRole(p NodePayload) Role {
	switch p.ID {
	case StartID:
		return RoleStart
	case PlayedMoveID:
		if p.Shape == ShapeSquare {
			return RolePlayedBest
		}
		return RolePlayed
	case BestMoveID:
		return RoleBest
	}
	if len(p.ID) >= 4 && p.ID[:4] == "alt-" {
		return RoleAlternative
	}
	return RoleExtension
}

// RoleFromString is a small helper kept for symmetry with the other
// enum types; an empty string yields RoleExtension as a safe default,
// immediately overwritten by inferRole in FromPayload.
func RoleFromString(s string) Role {
	if s == "" {
		return RoleExtension
	}
	return Role(s)
}
