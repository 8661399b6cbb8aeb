package routes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// setupTestContent writes a content root with a couple of posts and the
// not-found document, and returns its path.
func setupTestContent(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"hello.md":        "# Hi\n\nWorld",
		"js_recursion.md": "# Recursion\n\n```js\nconst f = n => n;\n```\n",
		"tables.md":       "| a | b | c |\n|---|---|---|\n| 1 | 2 | 3 |\n| 4 | 5 | 6 |\n",
		"404_error.md":    "# Page not found\n\nNothing here.\n",
	}
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(data), 0644))
	}

	// A file outside the content root that must never be served.
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(root), "secret.md"), []byte("# Secret"), 0644))

	return root
}
