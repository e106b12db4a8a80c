package factory

import (
	"fmt"

	"github.com/baolong281/jupyter-copilot/src/nbcopilot/entity"
	"github.com/gofrs/uuid"
	"go.lsp.dev/jsonrpc2"
)

// UUID is a user-defined factory for a random uuid.UUID.
func UUID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

// JSONRPCRequest is a user-defined factory for a JSON-RPC request containing the specified method and parameters.
func JSONRPCRequest(method string, params interface{}) jsonrpc2.Request {
	req, _ := jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), method, params)
	return req
}

// Notebook is a factory for an open notebook with the given cells.
func Notebook(cells ...string) *entity.Notebook {
	nb := entity.NewNotebook(fmt.Sprintf("/home/user/notebook-%d.ipynb", len(cells)), cells, "")
	nb.UUID = UUID()
	return nb
}
