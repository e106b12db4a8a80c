package notebook

import (
	"context"
	"testing"

	"github.com/baolong281/jupyter-copilot/src/nbcopilot/entity"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/factory"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/errors"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/goleak"
)

func TestNotebookRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("should Set and Get successfully", func(t *testing.T) {
		repository := New(tally.NewTestScope("testing", nil))
		nb := factory.Notebook("import os", "x = 1")

		require.NoError(t, repository.Set(ctx, nb))
		val, err := repository.Get(ctx, nb.UUID)
		require.NoError(t, err)
		assert.Equal(t, nb, val)
	})

	t.Run("should store copies", func(t *testing.T) {
		repository := New(tally.NewTestScope("testing", nil))
		nb := factory.Notebook("import os")
		require.NoError(t, repository.Set(ctx, nb))

		require.NoError(t, nb.UpdateCell(0, "import sys"))
		val, err := repository.Get(ctx, nb.UUID)
		require.NoError(t, err)
		assert.Equal(t, []string{"import os"}, val.Cells)

		require.NoError(t, val.AddCell(1, "x = 1"))
		again, err := repository.Get(ctx, nb.UUID)
		require.NoError(t, err)
		assert.Len(t, again.Cells, 1)
	})

	t.Run("should fail to get something that was not Set", func(t *testing.T) {
		repository := New(tally.NewTestScope("testing", nil))
		id := factory.UUID()

		_, err := repository.Get(ctx, id)
		var nf *errors.UUIDNotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "notebook", nf.Kind)
		assert.Equal(t, id, nf.UUID)
	})

	t.Run("should reject invalid notebooks", func(t *testing.T) {
		repository := New(tally.NewTestScope("testing", nil))
		assert.Error(t, repository.Set(ctx, nil))
		assert.Error(t, repository.Set(ctx, entity.NewNotebook("a.ipynb", nil, "")))
	})
}

func TestDeleteAndList(t *testing.T) {
	ctx := context.Background()
	scope := tally.NewTestScope("testing", nil)
	repository := New(scope)

	nb1 := factory.Notebook("a", "b", "c")
	nb2 := factory.Notebook("d")
	require.NoError(t, repository.Set(ctx, nb1))
	require.NoError(t, repository.Set(ctx, nb2))

	ids, err := repository.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{nb1.UUID, nb2.UUID}, ids)

	gauges := scope.Snapshot().Gauges()
	assert.Equal(t, float64(2), gauges["testing.notebook_sync.open_notebooks+"].Value())
	assert.Equal(t, float64(4), gauges["testing.notebook_sync.open_cells+"].Value())

	// Deletion is idempotent.
	assert.NoError(t, repository.Delete(ctx, nb1.UUID))
	assert.NoError(t, repository.Delete(ctx, nb1.UUID))
	_, err = repository.Get(ctx, nb1.UUID)
	assert.Error(t, err)

	count, err := repository.NotebookCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	gauges = scope.Snapshot().Gauges()
	assert.Equal(t, float64(1), gauges["testing.notebook_sync.open_notebooks+"].Value())
	assert.Equal(t, float64(1), gauges["testing.notebook_sync.open_cells+"].Value())
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
