package harness

import (
	"github.com/roach88/tally/internal/plist"
	"github.com/roach88/tally/internal/tree"
)

// TreeSpec is the YAML form of a numeric tree:
//
//	value: 1
//	children:
//	  - value: 2
//	    children: [{value: 5}, {value: 6}]
//	  - value: 3
type TreeSpec struct {
	Value    float64    `yaml:"value"`
	Children []TreeSpec `yaml:"children,omitempty"`
}

// Build converts the description into a tree, keeping child order.
func (s TreeSpec) Build() tree.Tree[float64] {
	children := make([]tree.Tree[float64], len(s.Children))
	for i, c := range s.Children {
		children[i] = c.Build()
	}
	return tree.NodeOf(s.Value, plist.FromSlice(children))
}

// LoadTree reads a tree YAML file.
func LoadTree(path string) (tree.Tree[float64], error) {
	var spec TreeSpec
	if err := decodeStrict(path, &spec); err != nil {
		return tree.Tree[float64]{}, err
	}
	return spec.Build(), nil
}
