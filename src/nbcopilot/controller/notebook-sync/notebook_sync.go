package notebooksync

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/baolong281/jupyter-copilot/src/nbcopilot/entity"
	backend "github.com/baolong281/jupyter-copilot/src/nbcopilot/gateway/lsp-backend"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/errors"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/nbformat"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/repository/notebook"
	"github.com/gofrs/uuid"
	"github.com/sergi/go-diff/diffmatchpatch"
	tally "github.com/uber-go/tally/v4"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

//go:generate mockgen -source=notebook_sync.go -destination=notebooksyncmock/notebook_sync_mock.go -package=notebooksyncmock

const (
	_nameKey            = "notebook-sync"
	_defaultLanguageKey = "notebook.defaultLanguage"
)

// Controller keeps one virtual document per open notebook and mirrors it on the backend.
// Operations on one notebook are serialized; operations on different notebooks run concurrently.
type Controller interface {
	// OpenDocument loads the notebook at path and opens it on the backend at version 0.
	OpenDocument(ctx context.Context, path string) (uuid.UUID, error)
	// ApplyCellEdit changes the in-memory notebook without notifying the backend.
	ApplyCellEdit(ctx context.Context, handle uuid.UUID, kind entity.CellEditKind, cellID int, content string) error
	// Push bumps the version and sends the full text to the backend.
	Push(ctx context.Context, handle uuid.UUID) error
	// RequestCompletion asks the backend for completions at a cell-local position and returns its payload unchanged.
	RequestCompletion(ctx context.Context, handle uuid.UUID, cellID, line, character int) (json.RawMessage, error)
	ChangePath(ctx context.Context, handle uuid.UUID, path string) error
	SetLanguage(ctx context.Context, handle uuid.UUID, language string) error
	GetFullText(ctx context.Context, handle uuid.UUID) (string, error)
	// GetNotebook returns a copy of the notebook.
	GetNotebook(ctx context.Context, handle uuid.UUID) (*entity.Notebook, error)
	// Close closes the notebook on the backend and forgets it.
	Close(ctx context.Context, handle uuid.UUID) error
}

// Params are inbound parameters to initialize a new Controller.
type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    config.Provider
	Notebooks notebook.Repository
	Backend   backend.Gateway
	Parser    nbformat.Parser
	Logger    *zap.SugaredLogger
	Stats     tally.Scope
}

// document is the per-notebook state that never leaves the controller.
type document struct {
	mu         sync.Mutex
	callback   backend.CallbackID
	lastPushed string
}

type controller struct {
	notebooks       notebook.Repository
	backend         backend.Gateway
	parser          nbformat.Parser
	logger          *zap.SugaredLogger
	stats           tally.Scope
	defaultLanguage string

	docsMu sync.Mutex
	docs   map[uuid.UUID]*document
}

// New creates a new controller for notebook sync.
func New(p Params) (Controller, error) {
	var defaultLanguage string
	if err := p.Config.Get(_defaultLanguageKey).Populate(&defaultLanguage); err != nil {
		return nil, fmt.Errorf("reading %s: %w", _defaultLanguageKey, err)
	}
	if defaultLanguage == "" {
		defaultLanguage = entity.DefaultLanguage
	}

	c := &controller{
		notebooks:       p.Notebooks,
		backend:         p.Backend,
		parser:          p.Parser,
		logger:          p.Logger.With("plugin", _nameKey),
		stats:           p.Stats.SubScope("notebook_sync"),
		defaultLanguage: defaultLanguage,
		docs:            make(map[uuid.UUID]*document),
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: c.closeAll,
	})
	return c, nil
}

func (c *controller) OpenDocument(ctx context.Context, path string) (uuid.UUID, error) {
	if path == "" {
		return uuid.Nil, errors.NoPathOnWireError
	}

	nb := entity.NewNotebook(path, nil, c.defaultLanguage)
	if _, err := nb.Load(c.parser, path); err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, fmt.Errorf("generating notebook handle: %w", err)
	}
	nb.UUID = id

	doc := &document{lastPushed: nb.FullText()}
	doc.mu.Lock()
	defer doc.mu.Unlock()

	if err := c.notebooks.Set(ctx, nb); err != nil {
		return uuid.Nil, err
	}
	c.docsMu.Lock()
	c.docs[id] = doc
	c.docsMu.Unlock()

	// Registered first: a restart that lands before didOpen still reopens the notebook once doc.mu is released.
	doc.callback = c.backend.RegisterRestartCallback(func(ctx context.Context) {
		c.reopen(ctx, id)
	})
	if err := c.backend.DidOpen(ctx, didOpenParams(nb)); err != nil {
		c.backend.UnregisterRestartCallback(doc.callback)
		c.forget(ctx, id)
		return uuid.Nil, fmt.Errorf("opening %q on backend: %w", path, err)
	}

	c.stats.Counter("opened").Inc(1)
	c.logger.Infow("opened notebook", "uuid", id, "path", path, "language", nb.Language, "cells", len(nb.Cells))
	return id, nil
}

func (c *controller) ApplyCellEdit(ctx context.Context, handle uuid.UUID, kind entity.CellEditKind, cellID int, content string) error {
	var apply func(nb *entity.Notebook) error
	switch kind {
	case entity.CellEditUpdate:
		apply = func(nb *entity.Notebook) error { return nb.UpdateCell(cellID, content) }
	case entity.CellEditAdd:
		apply = func(nb *entity.Notebook) error { return nb.AddCell(cellID, content) }
	case entity.CellEditDelete:
		apply = func(nb *entity.Notebook) error { return nb.DeleteCell(cellID) }
	default:
		return &errors.UnknownEditKindError{Kind: string(kind)}
	}

	return c.withDocument(ctx, handle, func(nb *entity.Notebook, _ *document) error {
		if err := apply(nb); err != nil {
			if errors.IsInvalidCellIndex(err) {
				// The notebook UI can race ahead of us; a stale index is dropped rather than failing the session.
				c.stats.Counter("invalid_cell_edits").Inc(1)
				c.logger.Warnw("dropping cell edit", "uuid", handle, "kind", kind, "error", err)
				return nil
			}
			return err
		}
		return c.notebooks.Set(ctx, nb)
	})
}

func (c *controller) Push(ctx context.Context, handle uuid.UUID) error {
	return c.withDocument(ctx, handle, func(nb *entity.Notebook, doc *document) error {
		nb.Version++
		text := nb.FullText()
		if err := c.notebooks.Set(ctx, nb); err != nil {
			return err
		}

		inserted, deleted := diffSummary(doc.lastPushed, text)
		c.logger.Debugw("pushing notebook", "uuid", handle, "version", nb.Version, "inserted", inserted, "deleted", deleted)
		doc.lastPushed = text

		return c.backend.DidChange(ctx, &entity.DidChangeParams{
			TextDocument: protocol.VersionedTextDocumentIdentifier{
				TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: nb.URI()},
				Version:                nb.Version,
			},
			ContentChanges: []entity.FullContentChange{{Text: text}},
		})
	})
}

func (c *controller) RequestCompletion(ctx context.Context, handle uuid.UUID, cellID, line, character int) (json.RawMessage, error) {
	var params *entity.GetCompletionsParams
	err := c.withDocument(ctx, handle, func(nb *entity.Notebook, _ *document) error {
		absolute, err := nb.AbsoluteLine(cellID, line)
		if err != nil {
			return err
		}
		params = &entity.GetCompletionsParams{
			Doc: entity.CompletionDocument{
				URI:      nb.URI(),
				Position: protocol.Position{Line: uint32(absolute), Character: uint32(character)},
				Version:  nb.Version,
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The document lock is not held while waiting, so edits keep flowing during a slow completion.
	c.logger.Debugw("requesting completion", "uuid", handle, "cell", cellID, "line", params.Doc.Position.Line, "character", character)
	return c.backend.GetCompletions(ctx, params)
}

func (c *controller) ChangePath(ctx context.Context, handle uuid.UUID, path string) error {
	if path == "" {
		return errors.NoPathOnWireError
	}
	return c.reidentify(ctx, handle, func(nb *entity.Notebook) { nb.UpdatePath(path) })
}

func (c *controller) SetLanguage(ctx context.Context, handle uuid.UUID, language string) error {
	return c.reidentify(ctx, handle, func(nb *entity.Notebook) { nb.SetLanguage(language) })
}

func (c *controller) GetFullText(ctx context.Context, handle uuid.UUID) (string, error) {
	nb, err := c.notebooks.Get(ctx, handle)
	if err != nil {
		return "", err
	}
	return nb.FullText(), nil
}

func (c *controller) GetNotebook(ctx context.Context, handle uuid.UUID) (*entity.Notebook, error) {
	return c.notebooks.Get(ctx, handle)
}

func (c *controller) Close(ctx context.Context, handle uuid.UUID) error {
	err := c.withDocument(ctx, handle, func(nb *entity.Notebook, doc *document) error {
		c.backend.UnregisterRestartCallback(doc.callback)
		c.forget(ctx, handle)
		return c.backend.DidClose(ctx, &protocol.DidCloseTextDocumentParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: nb.URI()},
		})
	})
	if err != nil {
		return err
	}
	c.stats.Counter("closed").Inc(1)
	c.logger.Infow("closed notebook", "uuid", handle)
	return nil
}

// reidentify closes the notebook under its old identity and reopens it under the new one.
func (c *controller) reidentify(ctx context.Context, handle uuid.UUID, change func(nb *entity.Notebook)) error {
	return c.withDocument(ctx, handle, func(nb *entity.Notebook, _ *document) error {
		oldURI := nb.URI()
		err := c.backend.DidClose(ctx, &protocol.DidCloseTextDocumentParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: oldURI},
		})
		if err != nil {
			return err
		}

		change(nb)
		if err := c.notebooks.Set(ctx, nb); err != nil {
			return err
		}
		c.logger.Infow("reopening notebook", "uuid", handle, "from", oldURI, "to", nb.URI(), "language", nb.Language)
		return c.backend.DidOpen(ctx, didOpenParams(nb))
	})
}

// reopen re-sends a notebook to a freshly started backend.
func (c *controller) reopen(ctx context.Context, handle uuid.UUID) {
	err := c.withDocument(ctx, handle, func(nb *entity.Notebook, _ *document) error {
		return c.backend.DidOpen(ctx, didOpenParams(nb))
	})
	if _, ok := errors.NotFoundUUID(err); ok {
		// Closed while the backend was restarting.
		return
	}
	if err != nil {
		c.logger.Warnw("failed to reopen notebook after backend restart", "uuid", handle, "error", err)
		return
	}
	c.logger.Infow("reopened notebook after backend restart", "uuid", handle)
}

// withDocument runs fn with the notebook's lock held. fn receives a copy of the notebook; changes are kept only if fn stores them.
func (c *controller) withDocument(ctx context.Context, handle uuid.UUID, fn func(nb *entity.Notebook, doc *document) error) error {
	c.docsMu.Lock()
	doc, ok := c.docs[handle]
	c.docsMu.Unlock()
	if !ok {
		return &errors.UUIDNotFoundError{UUID: handle, Kind: "notebook"}
	}

	doc.mu.Lock()
	defer doc.mu.Unlock()

	nb, err := c.notebooks.Get(ctx, handle)
	if err != nil {
		return err
	}
	return fn(nb, doc)
}

func (c *controller) forget(ctx context.Context, handle uuid.UUID) {
	c.docsMu.Lock()
	delete(c.docs, handle)
	c.docsMu.Unlock()
	if err := c.notebooks.Delete(ctx, handle); err != nil {
		c.logger.Warnw("failed to delete notebook", "uuid", handle, "error", err)
	}
}

// closeAll closes every open notebook. It keeps going past failures.
func (c *controller) closeAll(ctx context.Context) error {
	handles, err := c.notebooks.List(ctx)
	if err != nil {
		return err
	}
	var errs error
	for _, handle := range handles {
		errs = multierr.Append(errs, c.Close(ctx, handle))
	}
	return errs
}

func didOpenParams(nb *entity.Notebook) *protocol.DidOpenTextDocumentParams {
	return &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        nb.URI(),
			LanguageID: protocol.LanguageIdentifier(nb.Language),
			Version:    nb.Version,
			Text:       nb.FullText(),
		},
	}
}

// diffSummary counts the characters inserted and deleted between two pushes.
func diffSummary(before, after string) (inserted, deleted int) {
	dmp := diffmatchpatch.New()
	for _, d := range dmp.DiffMain(before, after, false) {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			inserted += len(d.Text)
		case diffmatchpatch.DiffDelete:
			deleted += len(d.Text)
		}
	}
	return inserted, deleted
}
