package mapper

import (
	"context"

	"github.com/baolong281/jupyter-copilot/src/nbcopilot/entity"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/errors"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/model"
	"github.com/gofrs/uuid"
)

// NotebookToModel maps a Notebook entity to its model equivalent. Cells are copied.
func NotebookToModel(f *entity.Notebook) *model.Notebook {
	return &model.Notebook{
		UUID:     f.UUID,
		Cells:    append([]string(nil), f.Cells...),
		Version:  f.Version,
		Language: f.Language,
		Path:     f.Path,
	}
}

// ModelToNotebook maps a model Notebook to its entity equivalent. Cells are copied.
func ModelToNotebook(f *model.Notebook) (*entity.Notebook, error) {
	return &entity.Notebook{
		UUID:     f.UUID,
		Cells:    append([]string(nil), f.Cells...),
		Version:  f.Version,
		Language: f.Language,
		Path:     f.Path,
	}, nil
}

// ConnectionToModel maps a Connection entity to its model equivalent.
func ConnectionToModel(f *entity.Connection) *model.Connection {
	return &model.Connection{
		UUID:    f.UUID,
		Handles: append([]uuid.UUID(nil), f.Handles...),
	}
}

// ModelToConnection maps a model Connection to its entity equivalent.
func ModelToConnection(f *model.Connection) (*entity.Connection, error) {
	return &entity.Connection{
		UUID:    f.UUID,
		Handles: append([]uuid.UUID(nil), f.Handles...),
	}, nil
}

// UUIDToConnection initializes a new Connection entity with the assigned uuid.
func UUIDToConnection(u uuid.UUID) *entity.Connection {
	return &entity.Connection{UUID: u}
}

// ContextToConnectionUUID extracts the inbound connection UUID from a context.
func ContextToConnectionUUID(c context.Context) (uuid.UUID, error) {
	s, ok := c.Value(entity.ConnectionContextKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, &errors.NoConnectionFoundError{}
	}
	return s, nil
}
