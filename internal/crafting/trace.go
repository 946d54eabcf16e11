package crafting

// TraceNode is one instance in a crafting tree. Missing nodes are stubs for
// ids that never reached the ledger; only ID and Quantity are set on them.
type TraceNode struct {
	ID       InstanceID
	Quantity int
	Instance Instance
	Missing  bool
	Children []TraceNode
}

func (n TraceNode) Recipe() RecipeID {
	if n.Instance == nil {
		return ""
	}
	return n.Instance.Origin().Recipe
}

// Walk visits n and its descendants depth first.
func (n TraceNode) Walk(fn func(node TraceNode, depth int)) {
	n.walk(fn, 0)
}

func (n TraceNode) walk(fn func(TraceNode, int), depth int) {
	fn(n, depth)
	for _, child := range n.Children {
		child.walk(fn, depth+1)
	}
}

// Trace rebuilds the crafting tree of id from the ledger, so consumed
// ancestors stay visible. Ids only ever reference lower ids, so the walk
// terminates without cycle checks.
func (r *Registry) Trace(id InstanceID) (TraceNode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	root, err := r.store.LedgerEntry(id)
	if err != nil {
		return TraceNode{}, err
	}
	return r.trace(root, 1), nil
}

func (r *Registry) trace(inst Instance, quantity int) TraceNode {
	node := TraceNode{ID: inst.InstanceID(), Quantity: quantity, Instance: inst}
	for _, in := range inst.Origin().ConsumedInputs {
		child, err := r.store.LedgerEntry(in.Instance)
		if err != nil {
			node.Children = append(node.Children, TraceNode{ID: in.Instance, Quantity: in.Quantity, Missing: true})
			continue
		}
		node.Children = append(node.Children, r.trace(child, in.Quantity))
	}
	return node
}
