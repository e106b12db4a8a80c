package main

import (
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/app"
	"go.uber.org/fx"
)

func opts() fx.Option {
	return fx.Options(
		app.Module,
	)
}

func main() {
	fx.New(opts()).Run()
}
