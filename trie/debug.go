package trie

import (
	"fmt"

	"github.com/emicklei/dot"
)

// DotGraph renders the reachable node graph as graphviz dot, for eyeballing
// trie shapes in tests and tooling. Inline and hash references are
// distinguished in the labels.
func (self *Trie) DotGraph() (*dot.Graph, error) {
	g := dot.NewGraph(dot.Directed)
	if self.root.Empty() {
		g.Node("root").Label("empty")
		return g, nil
	}
	root, err := self.resolveRef(self.root, nil)
	if err != nil {
		return nil, err
	}
	_, err = self.dot_node(g, root, self.root, nil)
	return g, err
}

func (self *Trie) dot_node(g *dot.Graph, n node, ref Ref, prefix []byte) (ret dot.Node, err error) {
	ret = g.Node(fmt.Sprintf("n_%x", prefix))
	switch n := n.(type) {
	case *leafNode:
		ret.Label(fmt.Sprintf("leaf %x\n%d byte value", n.Suffix, len(n.Val)))
		g.AddToSameRank("leaves", ret)
	case *extensionNode:
		ret.Label(fmt.Sprintf("ext %x%s", n.Suffix, dot_ref_suffix(n.Child)))
		child_path := concat(prefix, n.Suffix...)
		child, err_0 := self.resolveRef(n.Child, child_path)
		if err = err_0; err != nil {
			return
		}
		child_n, err_1 := self.dot_node(g, child, n.Child, child_path)
		if err = err_1; err != nil {
			return
		}
		g.Edge(ret, child_n)
	case *branchNode:
		label := "branch"
		if n.Val != nil {
			label = fmt.Sprintf("branch\n%d byte value", len(n.Val))
		}
		ret.Label(label)
		for i, c := range &n.Children {
			if c.Empty() {
				continue
			}
			child_path := concat(prefix, byte(i))
			child, err_0 := self.resolveRef(c, child_path)
			if err = err_0; err != nil {
				return
			}
			child_n, err_1 := self.dot_node(g, child, c, child_path)
			if err = err_1; err != nil {
				return
			}
			g.Edge(ret, child_n).Label(indices[i])
		}
	}
	return
}

func dot_ref_suffix(r Ref) string {
	if r.IsHash() {
		return fmt.Sprintf("\n-> %x..", r.data[:4])
	}
	return "\n-> inline"
}
