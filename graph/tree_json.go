package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// jsonNode mirrors one node of `mvn dependency:tree -DoutputType=json`.
type jsonNode struct {
	GroupID    string     `json:"groupId"`
	ArtifactID string     `json:"artifactId"`
	Version    string     `json:"version"`
	Type       string     `json:"type"`
	Scope      string     `json:"scope"`
	Classifier string     `json:"classifier"`
	Children   []jsonNode `json:"children"`
}

// LoadTreeJSON decodes a dependency tree written by
// `mvn dependency:tree -DoutputType=json`.
func LoadTreeJSON(r io.Reader) (*Node, error) {
	var doc jsonNode
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTree, err)
	}
	return doc.toNode(), nil
}

// LoadTreeJSONFile opens path and decodes it with LoadTreeJSON.
func LoadTreeJSONFile(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dependency tree: %w", err)
	}
	defer func() { _ = f.Close() }()

	root, err := LoadTreeJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

func (j jsonNode) toNode() *Node {
	var artifact *Artifact
	if j.GroupID != "" || j.ArtifactID != "" {
		artifact = &Artifact{
			GroupID:    j.GroupID,
			ArtifactID: j.ArtifactID,
			Type:       j.Type,
			Classifier: j.Classifier,
			Version:    j.Version,
			Scope:      j.Scope,
		}
	}

	n := &Node{Artifact: artifact}
	for _, c := range j.Children {
		n.AddChild(c.toNode())
	}
	return n
}
