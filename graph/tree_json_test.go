package graph

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const treeJSON = `{
  "groupId": "com.example",
  "artifactId": "demo",
  "version": "1.0.0",
  "type": "jar",
  "scope": "",
  "classifier": "",
  "optional": "false",
  "children": [
    {
      "groupId": "org.springframework",
      "artifactId": "spring-core",
      "version": "5.3.21",
      "type": "jar",
      "scope": "compile",
      "classifier": "",
      "optional": "false",
      "children": [
        {
          "groupId": "org.springframework",
          "artifactId": "spring-jcl",
          "version": "5.3.21",
          "type": "jar",
          "scope": "compile",
          "classifier": "",
          "optional": "false"
        }
      ]
    }
  ]
}`

func TestLoadTreeJSON(t *testing.T) {
	root, err := LoadTreeJSON(strings.NewReader(treeJSON))
	require.NoError(t, err)

	require.NotNil(t, root.Artifact)
	assert.Equal(t, "com.example:demo", root.Artifact.Key())
	require.Len(t, root.Children, 1)

	jcl := root.Children[0].Children[0]
	assert.Equal(t, "org.springframework:spring-jcl", jcl.Artifact.Key())
	assert.Equal(t, "5.3.21", jcl.Artifact.Version)
	assert.Equal(t, 2, jcl.Depth)
	assert.Same(t, root.Children[0], jcl.Parent)
}

func TestLoadTreeJSON_RootWithoutArtifact(t *testing.T) {
	root, err := LoadTreeJSON(strings.NewReader(`{"children":[{"groupId":"g","artifactId":"a","version":"1"}]}`))
	require.NoError(t, err)

	assert.Nil(t, root.Artifact)
	assert.Equal(t, 2, Count(root))
}

func TestLoadTreeJSON_Invalid(t *testing.T) {
	_, err := LoadTreeJSON(strings.NewReader(`{"groupId": `))
	assert.ErrorIs(t, err, ErrInvalidTree)
}

func TestLoadTreeJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json")
	require.NoError(t, os.WriteFile(path, []byte(treeJSON), 0o644))

	root, err := LoadTreeJSONFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, Count(root))

	_, err = LoadTreeJSONFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
