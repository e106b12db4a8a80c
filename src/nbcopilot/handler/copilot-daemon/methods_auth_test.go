package copilotdaemon

import (
	"encoding/json"
	"testing"

	"github.com/baolong281/jupyter-copilot/src/nbcopilot/entity"
	interrors "github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/mock/gomock"
)

func TestAuthMethods(t *testing.T) {
	payload := json.RawMessage(`{"status":"PendingLogin","userCode":"ABCD-1234","verificationUri":"https://github.com/login/device"}`)

	tests := []struct {
		name      string
		method    string
		setReturn func(tr *testRouter, result json.RawMessage, err error)
	}{
		{
			name:   "Login",
			method: entity.MethodAuthLogin,
			setReturn: func(tr *testRouter, result json.RawMessage, err error) {
				tr.auth.EXPECT().Login(gomock.Any()).Return(entity.AuthStatus{Status: entity.AuthStatusPendingLogin}, result, err)
			},
		},
		{
			name:   "SignOut",
			method: entity.MethodAuthSignOut,
			setReturn: func(tr *testRouter, result json.RawMessage, err error) {
				tr.auth.EXPECT().SignOut(gomock.Any()).Return(result, err)
			},
		},
		{
			name:   "Status",
			method: entity.MethodAuthStatus,
			setReturn: func(tr *testRouter, result json.RawMessage, err error) {
				tr.auth.EXPECT().Status(gomock.Any()).Return(result, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestRouter(t)

			tt.setReturn(tr, payload, nil)
			r := tr.call(t, tt.method, nil)
			require.NoError(t, r.err)
			assert.Equal(t, payload, r.result)

			tt.setReturn(tr, nil, &interrors.RemoteError{Method: "signInInitiate", Code: -32603, Message: "not authorized"})
			r = tr.call(t, tt.method, nil)
			assert.Equal(t, jsonrpc2.Code(-32603), replyCode(t, r.err))
			assert.ErrorContains(t, r.err, "not authorized")
		})
	}
}
