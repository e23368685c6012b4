// Package graph models a dependency graph as produced by a build tool's
// resolver, and loads it from the tool's output.
//
// A graph is a tree of Nodes. Each node carries the artifact coordinates and
// the concrete version requested at that position; the same artifact may
// appear many times with different versions. The root may carry no artifact.
package graph

import (
	"fmt"
	"strings"
)

// Artifact holds Maven coordinates of one graph node.
type Artifact struct {
	GroupID    string
	ArtifactID string
	Type       string
	Classifier string
	Version    string
	Scope      string
}

// Key returns the version-independent identity "groupId:artifactId".
func (a *Artifact) Key() string {
	return a.GroupID + ":" + a.ArtifactID
}

// String returns the coordinates in dependency:tree form,
// groupId:artifactId:type[:classifier]:version[:scope].
func (a *Artifact) String() string {
	parts := []string{a.GroupID, a.ArtifactID, a.Type}
	if a.Classifier != "" {
		parts = append(parts, a.Classifier)
	}
	parts = append(parts, a.Version)
	if a.Scope != "" {
		parts = append(parts, a.Scope)
	}
	return strings.Join(parts, ":")
}

// Node is one position in the dependency graph.
type Node struct {
	// Artifact is nil for a synthetic root
	Artifact *Artifact

	// Parent is the node that declared this dependency (nil for root)
	Parent *Node

	// Children are the dependencies declared by this node
	Children []*Node

	// Depth is the distance from root
	Depth int
}

// NewNode creates a node and links the given children under it.
func NewNode(artifact *Artifact, children ...*Node) *Node {
	n := &Node{Artifact: artifact}
	for _, c := range children {
		n.AddChild(c)
	}
	return n
}

// AddChild appends child and fixes its parent link and depth (recursively).
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	child.setDepth(n.Depth + 1)
	n.Children = append(n.Children, child)
}

func (n *Node) setDepth(d int) {
	n.Depth = d
	for _, c := range n.Children {
		c.setDepth(d + 1)
	}
}

// PathFromRoot returns the coordinates from root to this node.
func (n *Node) PathFromRoot() []string {
	if n == nil {
		return nil
	}

	path := make([]string, 0, n.Depth+1)
	for current := n; current != nil; current = current.Parent {
		if current.Artifact != nil {
			path = append([]string{current.Artifact.String()}, path...)
		}
	}
	return path
}

// Visitor receives depth-first traversal callbacks.
//
// VisitEnter returning false skips the node's children. VisitLeave returning
// false stops the traversal of the node's remaining siblings.
type Visitor interface {
	VisitEnter(node *Node) bool
	VisitLeave(node *Node) bool
}

// VisitorFunc adapts a function to a Visitor that visits every node.
type VisitorFunc func(node *Node)

// VisitEnter implements Visitor.
func (f VisitorFunc) VisitEnter(node *Node) bool {
	f(node)
	return true
}

// VisitLeave implements Visitor.
func (f VisitorFunc) VisitLeave(*Node) bool {
	return true
}

// Accept traverses the subtree rooted at n.
func (n *Node) Accept(v Visitor) bool {
	if n == nil {
		return true
	}
	if v.VisitEnter(n) {
		for _, child := range n.Children {
			if !child.Accept(v) {
				break
			}
		}
	}
	return v.VisitLeave(n)
}

// Walk calls fn for every node of the graph, root included.
func Walk(root *Node, fn func(*Node)) {
	root.Accept(VisitorFunc(fn))
}

// Count returns the number of nodes in the graph.
func Count(root *Node) int {
	total := 0
	Walk(root, func(*Node) { total++ })
	return total
}

// Print writes the tree in dependency:tree layout, one line per node.
func Print(root *Node) []string {
	var lines []string
	var printChildren func(children []*Node, prefix string)

	printChildren = func(children []*Node, prefix string) {
		for i, child := range children {
			last := i == len(children)-1
			connector, indent := "+- ", "|  "
			if last {
				connector, indent = "\\- ", "   "
			}
			lines = append(lines, prefix+connector+label(child))
			printChildren(child.Children, prefix+indent)
		}
	}

	if root == nil {
		return nil
	}
	lines = append(lines, label(root))
	printChildren(root.Children, "")
	return lines
}

func label(n *Node) string {
	if n.Artifact == nil {
		return "(root)"
	}
	return n.Artifact.String()
}

// ParseCoordinates parses "groupId:artifactId:type[:classifier]:version[:scope]".
func ParseCoordinates(s string) (*Artifact, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	switch len(parts) {
	case 4:
		return &Artifact{GroupID: parts[0], ArtifactID: parts[1], Type: parts[2], Version: parts[3]}, nil
	case 5:
		return &Artifact{GroupID: parts[0], ArtifactID: parts[1], Type: parts[2], Version: parts[3], Scope: parts[4]}, nil
	case 6:
		return &Artifact{GroupID: parts[0], ArtifactID: parts[1], Type: parts[2], Classifier: parts[3], Version: parts[4], Scope: parts[5]}, nil
	default:
		return nil, fmt.Errorf("invalid coordinates %q: expected 4 to 6 colon-separated parts", s)
	}
}
