package auth

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/baolong281/jupyter-copilot/src/nbcopilot/gateway/lsp-backend/backendmock"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestController(t *testing.T) (Controller, *backendmock.MockGateway, *observer.ObservedLogs) {
	ctrl := gomock.NewController(t)
	gw := backendmock.NewMockGateway(ctrl)
	core, logs := observer.New(zapcore.DebugLevel)
	c := New(Params{
		Backend: gw,
		Logger:  zap.New(core).Sugar(),
		Stats:   tally.NewTestScope("testing", nil),
	})
	return c, gw, logs
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("device flow", func(t *testing.T) {
		c, gw, logs := newTestController(t)
		payload := json.RawMessage(`{"status":"PromptUserDeviceFlow","userCode":"ABCD-1234","verificationUri":"https://github.com/login/device","expiresIn":899,"interval":5}`)
		gw.EXPECT().SignInInitiate(gomock.Any()).Return(payload, nil)

		status, raw, err := c.Login(ctx)
		require.NoError(t, err)
		assert.Equal(t, payload, raw)
		assert.Equal(t, "ABCD-1234", status.UserCode)
		assert.Equal(t, "https://github.com/login/device", status.VerificationURI)
		assert.Equal(t, 899, status.ExpiresIn)
		assert.Equal(t, 1, logs.FilterMessage("sign in initiated").Len())
	})

	t.Run("already signed in", func(t *testing.T) {
		c, gw, _ := newTestController(t)
		gw.EXPECT().SignInInitiate(gomock.Any()).Return(json.RawMessage(`{"status":"AlreadySignedIn","user":"octocat"}`), nil)

		status, _, err := c.Login(ctx)
		require.NoError(t, err)
		assert.Equal(t, "AlreadySignedIn", status.Status)
		assert.Equal(t, "octocat", status.User)
	})

	t.Run("opaque payload is passed through", func(t *testing.T) {
		c, gw, _ := newTestController(t)
		gw.EXPECT().SignInInitiate(gomock.Any()).Return(json.RawMessage(`["unexpected"]`), nil)

		status, raw, err := c.Login(ctx)
		require.NoError(t, err)
		assert.Empty(t, status.Status)
		assert.JSONEq(t, `["unexpected"]`, string(raw))
	})

	t.Run("backend error", func(t *testing.T) {
		c, gw, _ := newTestController(t)
		gw.EXPECT().SignInInitiate(gomock.Any()).Return(nil, errors.ErrSessionClosed)

		_, _, err := c.Login(ctx)
		assert.ErrorIs(t, err, errors.ErrSessionClosed)
	})
}

func TestSignOutAndStatus(t *testing.T) {
	ctx := context.Background()
	c, gw, _ := newTestController(t)

	gw.EXPECT().SignOut(gomock.Any()).Return(json.RawMessage(`{"status":"NotSignedIn"}`), nil)
	result, err := c.SignOut(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"NotSignedIn"}`, string(result))

	gw.EXPECT().CheckStatus(gomock.Any()).Return(json.RawMessage(`{"status":"OK","user":"octocat"}`), nil)
	result, err = c.Status(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"OK","user":"octocat"}`, string(result))

	remote := &errors.RemoteError{Method: "checkStatus", Code: -32603, Message: "internal"}
	gw.EXPECT().CheckStatus(gomock.Any()).Return(nil, remote)
	_, err = c.Status(ctx)
	assert.ErrorIs(t, err, remote)

	gw.EXPECT().SignOut(gomock.Any()).Return(nil, remote)
	_, err = c.SignOut(ctx)
	assert.ErrorIs(t, err, remote)
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
