package model

import "github.com/gofrs/uuid"

// Notebook is the repository layer model for an open notebook.
type Notebook struct {
	UUID     uuid.UUID
	Cells    []string
	Version  int32
	Language string
	Path     string
}

// Connection is the repository layer model for an inbound notebook UI connection.
type Connection struct {
	UUID    uuid.UUID
	Handles []uuid.UUID
}
