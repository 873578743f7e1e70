package crawl

// Node is one crawled package.
type Node struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Repository   string   `json:"repository,omitempty"`
	Depth        int      `json:"depth"`                   // Distance from the root at first discovery
	Seq          int      `json:"seq"`                     // Position in discovery order
	FundingLinks []string `json:"funding_links,omitempty"` // Set by funding resolution
	Deps         []string `json:"-"`                       // Followed dependency names
}

// Edge is a dependency between two crawled packages.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is the result of a crawl: at most one node per package name, in
// discovery order.
type Graph struct {
	root   string
	nodes  map[string]*Node
	order  []*Node
	failed []string
}

func newGraph(root string) *Graph {
	return &Graph{root: root, nodes: make(map[string]*Node)}
}

func (g *Graph) add(n *Node) {
	n.Seq = len(g.order)
	g.nodes[n.Name] = n
	g.order = append(g.order, n)
}

// Root returns the name the crawl started from.
func (g *Graph) Root() string { return g.root }

// Len returns the number of crawled packages.
func (g *Graph) Len() int { return len(g.order) }

// Node returns the node for name.
func (g *Graph) Node(name string) (*Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Nodes returns all nodes in discovery order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.order))
	copy(out, g.order)
	return out
}

// Failed returns the names that were discovered but could not be fetched,
// in discovery order.
func (g *Graph) Failed() []string {
	out := make([]string, len(g.failed))
	copy(out, g.failed)
	return out
}

// Edges returns the dependency edges whose endpoints were both crawled,
// ordered by the discovery order of their source.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, n := range g.order {
		for _, d := range n.Deps {
			if _, ok := g.nodes[d]; ok {
				edges = append(edges, Edge{From: n.Name, To: d})
			}
		}
	}
	return edges
}

// SetFundingLinks records the funding links of name. It reports false when
// name was not crawled.
func (g *Graph) SetFundingLinks(name string, links []string) bool {
	n, ok := g.nodes[name]
	if !ok {
		return false
	}
	n.FundingLinks = links
	return true
}
