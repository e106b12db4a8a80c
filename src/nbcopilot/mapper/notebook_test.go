package mapper

import (
	"context"
	"testing"

	"github.com/baolong281/jupyter-copilot/src/nbcopilot/entity"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/factory"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/errors"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/model"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestNotebookToModel(t *testing.T) {
	f := factory.Notebook("import os", "x = 1")
	f.Version = 3
	m := NotebookToModel(f)
	assert.Equal(t, f.UUID, m.UUID)
	assert.Equal(t, f.Cells, m.Cells)
	assert.Equal(t, f.Version, m.Version)
	assert.Equal(t, f.Language, m.Language)
	assert.Equal(t, f.Path, m.Path)

	f.Cells[0] = "import sys"
	assert.Equal(t, "import os", m.Cells[0], "model does not share cells with the entity")
}

func TestModelToNotebook(t *testing.T) {
	m := &model.Notebook{
		UUID:     factory.UUID(),
		Cells:    []string{"a", "b"},
		Version:  7,
		Language: "r",
		Path:     "/tmp/analysis.ipynb",
	}
	f, err := ModelToNotebook(m)
	require.NoError(t, err)
	assert.Equal(t, m.UUID, f.UUID)
	assert.Equal(t, m.Cells, f.Cells)
	assert.Equal(t, m.Version, f.Version)
	assert.Equal(t, m.Language, f.Language)
	assert.Equal(t, m.Path, f.Path)

	require.NoError(t, f.UpdateCell(0, "changed"))
	assert.Equal(t, "a", m.Cells[0], "entity does not share cells with the model")
}

func TestConnectionMapping(t *testing.T) {
	f := &entity.Connection{UUID: factory.UUID(), Handles: []uuid.UUID{factory.UUID()}}
	m := ConnectionToModel(f)
	assert.Equal(t, f.UUID, m.UUID)
	assert.Equal(t, f.Handles, m.Handles)

	back, err := ModelToConnection(m)
	require.NoError(t, err)
	assert.Equal(t, f, back)

	u := factory.UUID()
	assert.Equal(t, u, UUIDToConnection(u).UUID)
	assert.Empty(t, UUIDToConnection(u).Handles)
}

func TestContextToConnectionUUID(t *testing.T) {
	t.Run("uuid in context", func(t *testing.T) {
		u := factory.UUID()
		ctx := context.WithValue(context.Background(), entity.ConnectionContextKey, u)
		got, err := ContextToConnectionUUID(ctx)
		require.NoError(t, err)
		assert.Equal(t, u, got)
	})

	t.Run("missing uuid", func(t *testing.T) {
		_, err := ContextToConnectionUUID(context.Background())
		var nc *errors.NoConnectionFoundError
		assert.ErrorAs(t, err, &nc)
	})
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
