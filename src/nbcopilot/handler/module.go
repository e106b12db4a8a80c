package handler

import (
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/controller"
	copilotdaemon "github.com/baolong281/jupyter-copilot/src/nbcopilot/handler/copilot-daemon"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/repository/connection"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/repository/notebook"
	"go.uber.org/fx"
)

// Module provides the notebook daemon's JSON-RPC handler into an Fx application.
var Module = fx.Options(
	controller.Module,
	fx.Provide(connection.New),
	fx.Provide(notebook.New),
	fx.Provide(copilotdaemon.New),
	fx.Invoke(func(h copilotdaemon.Handler) {}),
)
