package walk

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/lordmulder/sponge-hash-aes256/internal/sumenv"
	"github.com/stretchr/testify/require"
)

func buildTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.txt"), []byte("b"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub", "deeper"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "deeper", "c.txt"), []byte("c"), 0o644))
	return root
}

func collect(out <-chan Result) []Result {
	var results []Result
	for r := range out {
		results = append(results, r)
	}
	return results
}

func paths(results []Result) []string {
	var p []string
	for _, r := range results {
		if r.Err == nil {
			p = append(p, filepath.Base(r.Path))
		}
	}
	sort.Strings(p)
	return p
}

func TestWalkRecursiveBFS(t *testing.T) {
	root := buildTree(t)
	out := make(chan Result, 64)
	Walk([]string{root}, Options{Recursive: true, Strategy: sumenv.BFS}, out, nil)
	got := paths(collect(out))
	require.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, got)
}

func TestWalkRecursiveDFS(t *testing.T) {
	root := buildTree(t)
	out := make(chan Result, 64)
	Walk([]string{root}, Options{Recursive: true, Strategy: sumenv.DFS}, out, nil)
	got := paths(collect(out))
	require.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, got)
}

func TestWalkNonRecursiveDirIsError(t *testing.T) {
	root := buildTree(t)
	out := make(chan Result, 64)
	Walk([]string{root}, Options{}, out, nil)
	results := collect(out)
	require.Len(t, results, 1)
	require.NotNil(t, results[0].Err)
}

func TestWalkPlainFile(t *testing.T) {
	root := buildTree(t)
	out := make(chan Result, 64)
	Walk([]string{filepath.Join(root, "a.txt")}, Options{}, out, nil)
	results := collect(out)
	require.Len(t, results, 1)
	require.Nil(t, results[0].Err)
}

func TestWalkMissingPath(t *testing.T) {
	out := make(chan Result, 8)
	Walk([]string{"/no/such/path/hopefully"}, Options{}, out, nil)
	results := collect(out)
	require.Len(t, results, 1)
	require.NotNil(t, results[0].Err)
}

func TestWalkTraversalCoverageMatchesAcrossStrategies(t *testing.T) {
	root := buildTree(t)

	bfsOut := make(chan Result, 64)
	Walk([]string{root}, Options{Recursive: true, Strategy: sumenv.BFS}, bfsOut, nil)
	bfs := paths(collect(bfsOut))

	dfsOut := make(chan Result, 64)
	Walk([]string{root}, Options{Recursive: true, Strategy: sumenv.DFS}, dfsOut, nil)
	dfs := paths(collect(dfsOut))

	require.Equal(t, bfs, dfs)
}
