// Package gateway groups the daemon's outbounds.
package gateway

import (
	backend "github.com/baolong281/jupyter-copilot/src/nbcopilot/gateway/lsp-backend"
	"go.uber.org/fx"
)

// Module provides every outbound gateway.
var Module = fx.Options(
	backend.Module,
)
