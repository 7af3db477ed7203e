package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/cursor-kanban/internal/domain"
	"github.com/runoshun/cursor-kanban/internal/infra/workspace"
	"github.com/runoshun/cursor-kanban/internal/usecase"
)

func newTestRegistry(t *testing.T) (*Registry, *workspace.Store) {
	t.Helper()
	globalDir := t.TempDir()
	projects, err := workspace.NewStore(globalDir)
	require.NoError(t, err)
	reg := NewRegistry(func(root string) (*Container, error) {
		return NewForRoot(root, Options{GlobalDir: globalDir})
	}, projects)
	t.Cleanup(func() { _ = reg.Close() })
	return reg, projects
}

func mkProject(t *testing.T, name string) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.MkdirAll(root, 0o755))
	return root
}

func TestRegistry_OpenIsIdempotent(t *testing.T) {
	// Setup
	reg, projects := newTestRegistry(t)
	root := mkProject(t, "alpha")

	// Execute
	c1, err := reg.Open(root)
	require.NoError(t, err)
	c2, err := reg.Open(root + "/.")
	require.NoError(t, err)

	// Assert
	assert.Same(t, c1, c2)
	assert.Equal(t, domain.ProjectID(root), c1.Config.ProjectID)
	assert.Equal(t, domain.StoreDir(root), c1.Config.StoreDir)

	file, err := projects.Load()
	require.NoError(t, err)
	require.Len(t, file.Projects, 1)
	assert.Equal(t, root, file.Projects[0].Path)
}

func TestRegistry_GetAndResolve(t *testing.T) {
	reg, _ := newTestRegistry(t)
	alpha := mkProject(t, "alpha")
	beta := mkProject(t, "beta")
	ca, err := reg.Open(alpha)
	require.NoError(t, err)

	t.Run("get unknown", func(t *testing.T) {
		_, err := reg.Get("nope")
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	})

	t.Run("session project", func(t *testing.T) {
		c, err := reg.Resolve(Session{ProjectID: ca.Config.ProjectID}, "")
		require.NoError(t, err)
		assert.Same(t, ca, c)
	})

	t.Run("override by path opens project", func(t *testing.T) {
		c, err := reg.Resolve(Session{ProjectID: ca.Config.ProjectID}, beta)
		require.NoError(t, err)
		assert.Equal(t, beta, c.Config.Root)
	})

	t.Run("empty session", func(t *testing.T) {
		_, err := reg.Resolve(Session{}, "")
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	})

	t.Run("unknown override", func(t *testing.T) {
		_, err := reg.Resolve(Session{}, "/does/not/exist")
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	})
}

func TestRegistry_ProjectsSortedByName(t *testing.T) {
	reg, _ := newTestRegistry(t)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := reg.Open(mkProject(t, name))
		require.NoError(t, err)
	}

	refs := reg.Projects()

	require.Len(t, refs, 3)
	assert.Equal(t, "alpha", refs[0].Name)
	assert.Equal(t, "mid", refs[1].Name)
	assert.Equal(t, "zeta", refs[2].Name)
}

func TestRegistry_ProjectsAreIsolated(t *testing.T) {
	// Setup
	reg, _ := newTestRegistry(t)
	ctx := context.Background()
	ca, err := reg.Open(mkProject(t, "alpha"))
	require.NoError(t, err)
	cb, err := reg.Open(mkProject(t, "beta"))
	require.NoError(t, err)
	for _, c := range []*Container{ca, cb} {
		_, err := c.InitProjectUseCase().Execute(ctx, usecase.InitProjectInput{StoreDir: c.Config.StoreDir})
		require.NoError(t, err)
	}

	// Execute
	_, err = ca.CreateTaskUseCase().Execute(ctx, usecase.CreateTaskInput{Title: "Only in alpha"})
	require.NoError(t, err)

	// Assert
	outA, err := ca.ListTasksUseCase().Execute(ctx, usecase.ListTasksInput{})
	require.NoError(t, err)
	outB, err := cb.ListTasksUseCase().Execute(ctx, usecase.ListTasksInput{})
	require.NoError(t, err)
	assert.Len(t, outA.Items, 1)
	assert.Empty(t, outB.Items)
}

func TestNewForRoot_InvalidRoot(t *testing.T) {
	_, err := NewForRoot(filepath.Join(t.TempDir(), "missing"), Options{GlobalDir: t.TempDir()})

	assert.ErrorIs(t, err, domain.ErrInvalidProjectPath)
}

func TestNewForRoot_AppliesProjectConfig(t *testing.T) {
	root := mkProject(t, "cfg")
	require.NoError(t, os.MkdirAll(domain.StoreDir(root), 0o755))
	require.NoError(t, os.WriteFile(domain.ConfigPath(domain.StoreDir(root)), []byte("[list]\npage_size = 7\n"), 0o644))

	c, err := NewForRoot(root, Options{GlobalDir: t.TempDir()})
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.Equal(t, 7, c.AppConfig.List.PageSize)
	assert.Nil(t, c.Branches, "plain directory has no git branch")
}

func TestUUIDGenerator(t *testing.T) {
	gen := UUIDGenerator{}

	a, b := gen.NewID(), gen.NewID()

	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
