package auth

import (
	"context"
	"encoding/json"

	"github.com/baolong281/jupyter-copilot/src/nbcopilot/entity"
	backend "github.com/baolong281/jupyter-copilot/src/nbcopilot/gateway/lsp-backend"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=auth.go -destination=authmock/auth_mock.go -package=authmock

const _nameKey = "auth"

// Controller passes account operations through to the backend.
// Results are returned unchanged; the decoded status is only logged.
type Controller interface {
	// Login starts the device flow. The returned status carries the user code and verification URI to show the user.
	Login(ctx context.Context) (entity.AuthStatus, json.RawMessage, error)
	SignOut(ctx context.Context) (json.RawMessage, error)
	Status(ctx context.Context) (json.RawMessage, error)
}

// Params are inbound parameters to initialize a new Controller.
type Params struct {
	fx.In

	Backend backend.Gateway
	Logger  *zap.SugaredLogger
	Stats   tally.Scope
}

type controller struct {
	backend backend.Gateway
	logger  *zap.SugaredLogger
	stats   tally.Scope
}

// New creates a new auth controller.
func New(p Params) Controller {
	return &controller{
		backend: p.Backend,
		logger:  p.Logger.With("plugin", _nameKey),
		stats:   p.Stats.SubScope("auth"),
	}
}

func (c *controller) Login(ctx context.Context) (entity.AuthStatus, json.RawMessage, error) {
	c.stats.Counter("login").Inc(1)
	result, err := c.backend.SignInInitiate(ctx)
	if err != nil {
		return entity.AuthStatus{}, nil, err
	}
	status := c.logStatus("sign in initiated", result)
	return status, result, nil
}

func (c *controller) SignOut(ctx context.Context) (json.RawMessage, error) {
	c.stats.Counter("sign_out").Inc(1)
	result, err := c.backend.SignOut(ctx)
	if err != nil {
		return nil, err
	}
	c.logStatus("signed out", result)
	return result, nil
}

func (c *controller) Status(ctx context.Context) (json.RawMessage, error) {
	result, err := c.backend.CheckStatus(ctx)
	if err != nil {
		return nil, err
	}
	c.logStatus("checked status", result)
	return result, nil
}

// logStatus decodes what it can of an auth result. Payloads it cannot decode are still passed through.
func (c *controller) logStatus(msg string, result json.RawMessage) entity.AuthStatus {
	var status entity.AuthStatus
	if err := json.Unmarshal(result, &status); err != nil {
		c.logger.Debugw(msg, "payload", string(result))
		return status
	}
	c.logger.Infow(msg, "status", status.Status, "user", status.User, "verificationUri", status.VerificationURI)
	return status
}
