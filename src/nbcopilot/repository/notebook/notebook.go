package notebook

import (
	"context"
	"sync"

	"github.com/baolong281/jupyter-copilot/src/nbcopilot/entity"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/errors"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/mapper"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/model"
	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally/v4"
)

const _metricsScope = "notebook_sync"

//go:generate mockgen -source=notebook.go -destination=repositorymock/notebook_mock.go -package=repositorymock

// Repository is an entity-scoped repository of open notebooks.
// Callers always receive and store copies, so a notebook read from the repository can be edited without a lock.
type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (*entity.Notebook, error)
	Set(ctx context.Context, nb *entity.Notebook) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]uuid.UUID, error)
	NotebookCount(ctx context.Context) (int, error)
}

type repository struct {
	mu       sync.Mutex
	memstore map[uuid.UUID]*model.Notebook
	stats    tally.Scope
}

// New returns a repository to a key-value Notebook data store.
func New(stats tally.Scope) Repository {
	return &repository{
		memstore: make(map[uuid.UUID]*model.Notebook),
		stats:    stats.SubScope(_metricsScope),
	}
}

// Get returns the Notebook associated with the given id.
func (r *repository) Get(ctx context.Context, id uuid.UUID) (*entity.Notebook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.memstore[id]
	if !ok {
		return nil, &errors.UUIDNotFoundError{UUID: id, Kind: "notebook"}
	}
	return mapper.ModelToNotebook(f)
}

// Set stores the Notebook under its uuid, replacing any previous state.
func (r *repository) Set(ctx context.Context, nb *entity.Notebook) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if nb == nil {
		return errors.New("can't save nil notebook")
	}
	if nb.UUID == uuid.Nil {
		return errors.New("can't save notebook without a uuid")
	}
	r.memstore[nb.UUID] = mapper.NotebookToModel(nb)
	r.updateGauges()
	return nil
}

// Delete removes the Notebook associated with the given id.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.memstore, id)
	r.updateGauges()
	return nil
}

// List returns the ids of all open notebooks.
func (r *repository) List(ctx context.Context) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]uuid.UUID, 0, len(r.memstore))
	for id := range r.memstore {
		ids = append(ids, id)
	}
	return ids, nil
}

// NotebookCount returns the number of open notebooks.
func (r *repository) NotebookCount(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.memstore), nil
}

// updateGauges must be called with mu held.
func (r *repository) updateGauges() {
	cells := 0
	for _, nb := range r.memstore {
		cells += len(nb.Cells)
	}
	r.stats.Gauge("open_notebooks").Update(float64(len(r.memstore)))
	r.stats.Gauge("open_cells").Update(float64(cells))
}
