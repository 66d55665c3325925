package aggregate

import "sort"

// MetricNode is one node of the nested result structure some executors
// return: either a leaf bundle of metrics, or an internal node whose named
// children are themselves MetricNodes. Depth is unbounded.
type MetricNode struct {
	Metrics map[string]any         `json:"metrics,omitempty"`
	Groups  map[string]*MetricNode `json:"groups,omitempty"`
}

// Leaf reports whether the node carries metrics and no children.
func (n *MetricNode) Leaf() bool {
	return len(n.Groups) == 0
}

type frame struct {
	prefix string
	node   *MetricNode
}

// Flatten walks the tree iteratively and returns every metric keyed by its
// slash-joined group path. An explicit stack keeps deeply nested results
// from growing the call stack.
func Flatten(root *MetricNode) map[string]any {
	out := make(map[string]any)
	if root == nil {
		return out
	}

	stack := []frame{{prefix: "", node: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for name, value := range f.node.Metrics {
			out[join(f.prefix, name)] = value
		}

		// sorted for deterministic traversal order
		names := make([]string, 0, len(f.node.Groups))
		for name := range f.node.Groups {
			names = append(names, name)
		}
		sort.Sort(sort.Reverse(sort.StringSlice(names)))
		for _, name := range names {
			child := f.node.Groups[name]
			if child == nil {
				continue
			}
			stack = append(stack, frame{prefix: join(f.prefix, name), node: child})
		}
	}
	return out
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
