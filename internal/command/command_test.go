package command

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandWiring(t *testing.T) {
	t.Parallel()

	root := RootCommand()
	for _, path := range [][]string{{"serve"}, {"migrate", "up"}, {"migrate", "status"}} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	assert.NotNil(t, serve.Flags().Lookup("migrate"))
}

func TestMigrateUpAndStatus(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "ciclored.db"))
	t.Setenv("LOG_LEVEL", "error")

	run := func(args ...string) string {
		var out bytes.Buffer
		root := RootCommand()
		root.SetOut(&out)
		root.SetArgs(args)
		require.NoError(t, root.ExecuteContext(t.Context()))
		return out.String()
	}

	pending := run("migrate", "status")
	assert.Contains(t, pending, "00001  pending")

	run("migrate", "up")
	applied := run("migrate", "status")
	assert.Contains(t, applied, "00001  applied")
}
