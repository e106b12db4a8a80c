package connection

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

//go:generate mockgen -source=connection.go -destination=repositorymock/connection_mock.go -package=repositorymock

// Repository is an entity-scoped repository of inbound connections.
type Repository interface {
	Get(context.Context, uuid.UUID) (*entity.Connection, error)
	GetFromContext(ctx context.Context) (*entity.Connection, error)
	Set(context.Context, *entity.Connection) error
	Delete(ctx context.Context, id uuid.UUID) error
	// AddHandle records a notebook opened on the connection.
	AddHandle(ctx context.Context, id uuid.UUID, handle uuid.UUID) error
	// RemoveHandle forgets a notebook closed on the connection. Unknown handles are ignored.
	RemoveHandle(ctx context.Context, id uuid.UUID, handle uuid.UUID) error
	ConnectionCount(ctx context.Context) (int, error)
}

type repository struct {
	mu       sync.Mutex
	memstore map[uuid.UUID]*model.Connection
	stats    tally.Scope
}

// New returns a repository to a key-value Connection data store.
func New(stats tally.Scope) Repository {
	return &repository{
		memstore: make(map[uuid.UUID]*model.Connection),
		stats:    stats,
	}
}

// Get returns the Connection associated with the given id.
func (r *repository) Get(ctx context.Context, id uuid.UUID) (*entity.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.memstore[id]
	if !ok {
		return nil, &errors.UUIDNotFoundError{UUID: id, Kind: "connection"}
	}
	return mapper.ModelToConnection(f)
}

// GetFromContext returns the Connection associated with the given context.
func (r *repository) GetFromContext(ctx context.Context) (*entity.Connection, error) {
	id, err := mapper.ContextToConnectionUUID(ctx)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Set sets the Connection to its associated uuid.
func (r *repository) Set(ctx context.Context, f *entity.Connection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f == nil {
		return errors.New("can't save nil connection")
	}
	r.memstore[f.UUID] = mapper.ConnectionToModel(f)
	r.stats.Gauge("active_connections").Update(float64(len(r.memstore)))
	return nil
}

// Delete removes the Connection associated with the given id.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.memstore, id)
	r.stats.Gauge("active_connections").Update(float64(len(r.memstore)))
	return nil
}

func (r *repository) AddHandle(ctx context.Context, id uuid.UUID, handle uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.memstore[id]
	if !ok {
		return &errors.UUIDNotFoundError{UUID: id, Kind: "connection"}
	}
	for _, h := range f.Handles {
		if h == handle {
			return nil
		}
	}
	f.Handles = append(f.Handles, handle)
	return nil
}

func (r *repository) RemoveHandle(ctx context.Context, id uuid.UUID, handle uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.memstore[id]
	if !ok {
		return &errors.UUIDNotFoundError{UUID: id, Kind: "connection"}
	}
	for i, h := range f.Handles {
		if h == handle {
			f.Handles = append(f.Handles[:i], f.Handles[i+1:]...)
			return nil
		}
	}
	return nil
}

// ConnectionCount returns the total count of active connections.
func (r *repository) ConnectionCount(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.memstore), nil
}
