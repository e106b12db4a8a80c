package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	notebooksync "github.com/baolong281/jupyter-copilot/src/nbcopilot/controller/notebook-sync"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/entity"
	backend "github.com/baolong281/jupyter-copilot/src/nbcopilot/gateway/lsp-backend"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/errors"
	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=chat.go -destination=chatmock/chat_mock.go -package=chatmock

const (
	_nameKey = "chat"
	_source  = "panel"
)

// Controller keeps at most one backend conversation per open notebook.
type Controller interface {
	// StartConversation opens a conversation about the notebook, replacing any active one.
	StartConversation(ctx context.Context, handle uuid.UUID, message string) (json.RawMessage, error)
	SendTurn(ctx context.Context, handle uuid.UUID, message string) (json.RawMessage, error)
	EndConversation(ctx context.Context, handle uuid.UUID) error
	// Release ends the notebook's conversation if it has one.
	Release(ctx context.Context, handle uuid.UUID) error
}

// Params are inbound parameters to initialize a new Controller.
type Params struct {
	fx.In

	Backend   backend.Gateway
	Notebooks notebooksync.Controller
	Logger    *zap.SugaredLogger
	Stats     tally.Scope
}

type controller struct {
	backend   backend.Gateway
	notebooks notebooksync.Controller
	logger    *zap.SugaredLogger
	stats     tally.Scope

	mu            sync.Mutex
	conversations map[uuid.UUID]entity.Conversation
}

// New creates a new chat controller.
func New(p Params) Controller {
	return &controller{
		backend:       p.Backend,
		notebooks:     p.Notebooks,
		logger:        p.Logger.With("plugin", _nameKey),
		stats:         p.Stats.SubScope("chat"),
		conversations: make(map[uuid.UUID]entity.Conversation),
	}
}

func (c *controller) StartConversation(ctx context.Context, handle uuid.UUID, message string) (json.RawMessage, error) {
	nb, err := c.notebooks.GetNotebook(ctx, handle)
	if err != nil {
		return nil, err
	}

	if err := c.Release(ctx, handle); err != nil {
		c.logger.Warnw("failed to end previous conversation", "uuid", handle, "error", err)
	}

	token := entity.ChatWorkDoneTokenPrefix + nb.Name()
	result, err := c.backend.CreateConversation(ctx, &entity.CreateConversationParams{
		Message:       message,
		WorkDoneToken: token,
		Doc: entity.ConversationDocument{
			URI:        nb.URI(),
			LanguageID: nb.Language,
			Version:    nb.Version,
			Text:       nb.FullText(),
		},
		Source:             _source,
		ComputeSuggestions: true,
		Turns:              []entity.ConversationTurnRequest{{Request: message}},
		Capabilities: entity.ConversationCapabilities{
			Skills:    []string{},
			AllSkills: true,
		},
	})
	if err != nil {
		return nil, err
	}

	id, err := conversationID(result)
	if err != nil {
		return nil, err
	}
	conversation := entity.Conversation{ID: id, WorkDoneToken: token}

	c.mu.Lock()
	c.conversations[handle] = conversation
	c.stats.Gauge("active_conversations").Update(float64(len(c.conversations)))
	c.mu.Unlock()

	c.logger.Infow("conversation started", "uuid", handle, "conversation", conversation.ID)
	return result, nil
}

func (c *controller) SendTurn(ctx context.Context, handle uuid.UUID, message string) (json.RawMessage, error) {
	conversation, ok := c.active(handle)
	if !ok {
		return nil, &errors.NoConversationError{Handle: handle}
	}

	c.stats.Counter("turns").Inc(1)
	c.logger.Debugw("sending conversation turn", "uuid", handle, "conversation", conversation.ID)
	return c.backend.ConversationTurn(ctx, &entity.ConversationTurnParams{
		ConversationID: conversation.ID,
		Message:        message,
		WorkDoneToken:  conversation.WorkDoneToken,
	})
}

func (c *controller) EndConversation(ctx context.Context, handle uuid.UUID) error {
	conversation, ok := c.take(handle)
	if !ok {
		return &errors.NoConversationError{Handle: handle}
	}
	return c.destroy(ctx, handle, conversation)
}

func (c *controller) Release(ctx context.Context, handle uuid.UUID) error {
	conversation, ok := c.take(handle)
	if !ok {
		return nil
	}
	return c.destroy(ctx, handle, conversation)
}

func (c *controller) destroy(ctx context.Context, handle uuid.UUID, conversation entity.Conversation) error {
	c.logger.Infow("ending conversation", "uuid", handle, "conversation", conversation.ID)
	return c.backend.DestroyConversation(ctx, &entity.DestroyConversationParams{ConversationID: conversation.ID})
}

func (c *controller) active(handle uuid.UUID) (entity.Conversation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	conversation, ok := c.conversations[handle]
	return conversation, ok
}

func (c *controller) take(handle uuid.UUID) (entity.Conversation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	conversation, ok := c.conversations[handle]
	if ok {
		delete(c.conversations, handle)
		c.stats.Gauge("active_conversations").Update(float64(len(c.conversations)))
	}
	return conversation, ok
}

// conversationID reads the id from a conversation/create result.
// Some backend versions answer with a [result, error] pair instead of the result object.
func conversationID(result json.RawMessage) (string, error) {
	var created entity.CreateConversationResult
	if err := json.Unmarshal(result, &created); err != nil {
		var pair []json.RawMessage
		if pairErr := json.Unmarshal(result, &pair); pairErr != nil || len(pair) == 0 {
			return "", fmt.Errorf("decoding conversation/create result: %w", err)
		}
		if err := json.Unmarshal(pair[0], &created); err != nil {
			return "", fmt.Errorf("decoding conversation/create result: %w", err)
		}
	}
	if created.ConversationID == "" {
		return "", errors.New("conversation/create returned no conversationId")
	}
	return created.ConversationID, nil
}
