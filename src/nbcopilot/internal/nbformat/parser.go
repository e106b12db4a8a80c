// Package nbformat reads the cell sources and kernel language out of a persisted .ipynb notebook.
package nbformat

import (
	"fmt"
	"strings"

	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/fs"
	"github.com/tidwall/gjson"
	"go.uber.org/fx"
)

//go:generate mockgen -source=parser.go -destination=nbformatmock/parser_mock.go -package=nbformatmock

const (
	_cellTypeCode     = "code"
	_cellTypeMarkdown = "markdown"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Parser reads notebooks from disk.
type Parser interface {
	// Parse returns the sources of the code and markdown cells in order, and the lowercased
	// kernel language, which is empty when the notebook metadata does not declare one.
	Parse(path string) (cells []string, language string, err error)
}

type parser struct {
	fs fs.FS
}

// New returns a Parser reading through the given filesystem.
func New(fs fs.FS) Parser {
	return &parser{fs: fs}
}

func (p *parser) Parse(path string) ([]string, string, error) {
	data, err := p.fs.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading notebook %q: %w", path, err)
	}
	if !gjson.ValidBytes(data) {
		return nil, "", fmt.Errorf("notebook %q is not valid JSON", path)
	}

	nb := gjson.ParseBytes(data)
	cells := make([]string, 0)
	nb.Get("cells").ForEach(func(_, cell gjson.Result) bool {
		switch cell.Get("cell_type").String() {
		case _cellTypeCode, _cellTypeMarkdown:
			cells = append(cells, source(cell.Get("source")))
		}
		return true
	})

	// A notebook that has never been run has no kernelspec yet.
	language := nb.Get("metadata.kernelspec.language").String()
	if language == "" {
		language = nb.Get("metadata.language_info.name").String()
	}

	return cells, strings.ToLower(language), nil
}

// source joins a multiline source, which nbformat stores either as one string or as a list of lines.
func source(r gjson.Result) string {
	if !r.IsArray() {
		return r.String()
	}

	var b strings.Builder
	for _, line := range r.Array() {
		b.WriteString(line.String())
	}
	return b.String()
}
