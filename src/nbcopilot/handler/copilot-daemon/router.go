package copilotdaemon

import (
	"context"
	"sync"

	"github.com/baolong281/jupyter-copilot/src/nbcopilot/controller/auth"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/controller/chat"
	notebooksync "github.com/baolong281/jupyter-copilot/src/nbcopilot/controller/notebook-sync"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/entity"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/repository/connection"
	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally/v4"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/zap"
)

type jsonRPCRouter struct {
	uuid        uuid.UUID
	notebooks   notebooksync.Controller
	auth        auth.Controller
	chat        chat.Controller
	connections connection.Repository
	logger      *zap.SugaredLogger
	stats       tally.Scope

	// lifetime is canceled when the connection drops, ending requests still waiting on the backend.
	lifetime context.Context
	end      context.CancelFunc
	inflight sync.WaitGroup
}

// HandleReq handles routing for a single request.
// Requests are read one at a time, so anything that waits on a backend response is answered from its own goroutine.
func (r *jsonRPCRouter) HandleReq(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	ctx = context.WithValue(ctx, entity.ConnectionContextKey, r.uuid)
	r.stats.Tagged(map[string]string{"method": req.Method()}).Counter("requests").Inc(1)

	switch req.Method() {
	// Notebook methods. Edits and pushes are handled in arrival order.
	case entity.MethodNotebookOpen:
		return r.OpenNotebook(ctx, reply, req)

	case entity.MethodNotebookCellEdit:
		return r.CellEdit(ctx, reply, req)

	case entity.MethodNotebookPush:
		return r.Push(ctx, reply, req)

	case entity.MethodNotebookCompletion:
		return r.async(ctx, reply, req, r.Completion)

	case entity.MethodNotebookChangePath:
		return r.ChangePath(ctx, reply, req)

	case entity.MethodNotebookSetLanguage:
		return r.SetLanguage(ctx, reply, req)

	case entity.MethodNotebookSync:
		return r.Sync(ctx, reply, req)

	case entity.MethodNotebookClose:
		return r.CloseNotebook(ctx, reply, req)

	// Auth methods.
	case entity.MethodAuthLogin:
		return r.async(ctx, reply, req, r.Login)

	case entity.MethodAuthSignOut:
		return r.async(ctx, reply, req, r.SignOut)

	case entity.MethodAuthStatus:
		return r.async(ctx, reply, req, r.Status)

	// Chat methods.
	case entity.MethodChatStart:
		return r.async(ctx, reply, req, r.StartChat)

	case entity.MethodChatTurn:
		return r.async(ctx, reply, req, r.ChatTurn)

	case entity.MethodChatEnd:
		return r.async(ctx, reply, req, r.EndChat)

	default:
		return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
	}
}

// UUID identifies the connection this router serves.
func (r *jsonRPCRouter) UUID() uuid.UUID {
	return r.uuid
}

// async answers the request from a new goroutine tied to the connection's lifetime.
func (r *jsonRPCRouter) async(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request, method jsonrpc2.Handler) error {
	if r.lifetime == nil {
		return method(ctx, reply, req)
	}

	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(r.lifetime, cancel)

	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		defer cancel()
		defer stop()

		if err := method(ctx, reply, req); err != nil {
			r.logger.Debugw("replying to request", "method", req.Method(), "error", err)
		}
	}()
	return nil
}

// shutdown cancels requests still in flight and waits for them to reply.
func (r *jsonRPCRouter) shutdown() {
	if r.end != nil {
		r.end()
	}
	r.inflight.Wait()
}
