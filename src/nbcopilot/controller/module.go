package controller

import (
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/controller/auth"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/controller/chat"
	notebooksync "github.com/baolong281/jupyter-copilot/src/nbcopilot/controller/notebook-sync"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(notebooksync.New),
	fx.Provide(auth.New),
	fx.Provide(chat.New),
)
