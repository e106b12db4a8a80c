package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/fx"
	"go.uber.org/goleak"
)

func TestModule(t *testing.T) {
	err := fx.ValidateApp(Module, fx.NopLogger)
	assert.ErrorContains(t, err, "missing type", "the handler needs the inbound and gateways from the app module")
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
