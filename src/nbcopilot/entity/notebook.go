// Package entity contains the domain types of the notebook copilot daemon.
package entity

import (
	"strings"

	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/errors"
	"github.com/gofrs/uuid"
	"go.lsp.dev/uri"
)

const (
	// CellSeparator joins adjacent cells in the backend's view of a notebook.
	CellSeparator = "\n\n"
	// DefaultLanguage is used when a notebook does not declare a kernel language.
	DefaultLanguage = "python"

	// linesPerBoundary is the number of lines CellSeparator adds between two cells.
	linesPerBoundary = 2
)

// CellEditKind is the kind of a single cell mutation reported by the notebook UI.
type CellEditKind string

// Supported cell edit kinds.
const (
	CellEditUpdate CellEditKind = "update"
	CellEditAdd    CellEditKind = "add"
	CellEditDelete CellEditKind = "delete"
)

// NotebookParser reads persisted notebooks.
type NotebookParser interface {
	Parse(path string) (cells []string, language string, err error)
}

// Notebook is the in-memory copy of one notebook, presented to the backend as a single text document.
type Notebook struct {
	UUID     uuid.UUID `json:"uuid" zap:"uuid"`
	Cells    []string  `json:"cells" zap:"-"`
	Version  int32     `json:"version" zap:"version"`
	Language string    `json:"language" zap:"language"`
	Path     string    `json:"path" zap:"path"`
}

// NewNotebook creates a document at version 0. A notebook always has at least one cell.
func NewNotebook(path string, cells []string, language string) *Notebook {
	nb := &Notebook{
		Path:     path,
		Language: language,
	}
	nb.setCells(cells)
	if nb.Language == "" {
		nb.Language = DefaultLanguage
	}
	return nb
}

// Load replaces the cells with the notebook stored at path and returns the language it declares.
// The document language is only replaced when the file declares one.
func (n *Notebook) Load(parser NotebookParser, path string) (string, error) {
	cells, language, err := parser.Parse(path)
	if err != nil {
		return "", err
	}

	n.Path = path
	n.setCells(cells)
	if language != "" {
		n.Language = language
	}
	return language, nil
}

func (n *Notebook) setCells(cells []string) {
	if len(cells) == 0 {
		n.Cells = []string{""}
		return
	}
	n.Cells = append(make([]string, 0, len(cells)), cells...)
}

// UpdateCell replaces the content of an existing cell.
func (n *Notebook) UpdateCell(cellID int, content string) error {
	if cellID < 0 || cellID >= len(n.Cells) {
		return &errors.InvalidCellIndexError{Op: string(CellEditUpdate), CellID: cellID, Length: len(n.Cells)}
	}
	n.Cells[cellID] = content
	return nil
}

// AddCell inserts a cell at cellID. Inserting past the end pads the gap with empty cells.
func (n *Notebook) AddCell(cellID int, content string) error {
	if cellID < 0 {
		return &errors.InvalidCellIndexError{Op: string(CellEditAdd), CellID: cellID, Length: len(n.Cells)}
	}

	if cellID >= len(n.Cells) {
		for len(n.Cells) < cellID {
			n.Cells = append(n.Cells, "")
		}
		n.Cells = append(n.Cells, content)
		return nil
	}

	n.Cells = append(n.Cells, "")
	copy(n.Cells[cellID+1:], n.Cells[cellID:])
	n.Cells[cellID] = content
	return nil
}

// DeleteCell removes an existing cell.
func (n *Notebook) DeleteCell(cellID int) error {
	if cellID < 0 || cellID >= len(n.Cells) {
		return &errors.InvalidCellIndexError{Op: string(CellEditDelete), CellID: cellID, Length: len(n.Cells)}
	}
	n.Cells = append(n.Cells[:cellID], n.Cells[cellID+1:]...)
	return nil
}

// FullText is the text of the document as the backend sees it.
func (n *Notebook) FullText() string {
	return strings.Join(n.Cells, CellSeparator)
}

// AbsoluteLine converts a line inside a cell into a line of FullText.
func (n *Notebook) AbsoluteLine(cellID, localLine int) (int, error) {
	if cellID < 0 || cellID >= len(n.Cells) {
		return 0, &errors.InvalidCellIndexError{Op: "position", CellID: cellID, Length: len(n.Cells)}
	}

	line := localLine + linesPerBoundary*cellID
	for _, cell := range n.Cells[:cellID] {
		line += strings.Count(cell, "\n") + 1
	}
	return line, nil
}

// SetLanguage changes the language identity of the document.
func (n *Notebook) SetLanguage(language string) {
	n.Language = language
}

// UpdatePath changes the path identity of the document.
func (n *Notebook) UpdatePath(path string) {
	n.Path = path
}

// Name is the notebook path relative to the UI's root, without a leading slash.
func (n *Notebook) Name() string {
	return strings.TrimPrefix(n.Path, "/")
}

// URI is the document identity used with the backend.
func (n *Notebook) URI() uri.URI {
	return uri.File("/" + n.Name())
}

// Clone returns a deep copy.
func (n *Notebook) Clone() *Notebook {
	clone := *n
	clone.Cells = append(make([]string, 0, len(n.Cells)), n.Cells...)
	return &clone
}
