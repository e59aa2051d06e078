package psd

// buildLayerTree assigns parent links and child lists over the flat layer
// list. Photoshop stores layers bottom to top; a group's members sit between
// a bounding section divider below and a folder marker above, so iterating
// in reverse walks the document top-down and folder markers open groups as
// they are met. The returned root is synthetic and canvas sized.
func buildLayerTree(header *Header, layers []*Layer) *Layer {
	root := &Layer{
		Name:    "root",
		Blend:   ModeNormal,
		Opacity: 255,
	}
	if header != nil {
		root.Rect = Rect{Right: int32(header.Width()), Bottom: int32(header.Height())}
	}

	// Top-level layers keep a nil parent; the synthetic root only collects
	// them as children.
	var parent *Layer
	for i := len(layers) - 1; i >= 0; i-- {
		layer := layers[i]
		switch {
		case layer.IsGroup():
			layer.Parent = parent
			parent = layer
		case layer.IsBoundingSectionDivider():
			if parent != nil {
				parent = parent.Parent
			}
		default:
			layer.Parent = parent
		}
	}

	// Children are collected in file order (bottom to top) and pushed onto
	// the front, leaving every child list in visual order, topmost first.
	for _, layer := range layers {
		if layer.IsBoundingSectionDivider() {
			continue
		}
		p := layer.Parent
		if p == nil {
			p = root
		}
		p.Children = append([]*Layer{layer}, p.Children...)
	}

	return root
}

// Ancestors returns the chain of parents from this layer up to its top-level
// group. The synthetic root is not a parent, so it is never included.
func (l *Layer) Ancestors() []*Layer {
	var out []*Layer
	for p := l.Parent; p != nil; p = p.Parent {
		out = append(out, p)
	}
	return out
}

// Depth returns how many ancestors sit above this layer.
func (l *Layer) Depth() int {
	return len(l.Ancestors())
}
