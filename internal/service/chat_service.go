package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"tubemind-be/internal/constant"
	"tubemind-be/internal/dto"
	"tubemind-be/internal/entity"
	"tubemind-be/internal/pkg/logger"
	"tubemind-be/internal/repository/memory"
	"tubemind-be/internal/repository/specification"
	"tubemind-be/internal/repository/unitofwork"
	"tubemind-be/internal/websocket"
	"tubemind-be/pkg/agent"
	"tubemind-be/pkg/llm"
	"tubemind-be/pkg/retrieval"
	"tubemind-be/pkg/store"
	"tubemind-be/pkg/utils"

	"github.com/google/uuid"
)

// IChatService drives chat sessions: REST CRUD plus the websocket turn loop.
type IChatService interface {
	CreateSession(ctx context.Context, userId uuid.UUID, request *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error)
	GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, request *dto.DeleteSessionRequest) error

	websocket.MessageHandler
}

type chatService struct {
	uowFactory  unitofwork.RepositoryFactory
	sessionRepo *memory.SessionRepository
	retriever   *retrieval.Retriever
	graph       *agent.Graph
	hub         *websocket.Hub
	sysLogger   logger.ILogger
	llmLogger   *log.Logger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	sessionRepo *memory.SessionRepository,
	retriever *retrieval.Retriever,
	graph *agent.Graph,
	hub *websocket.Hub,
	sysLogger logger.ILogger,
	llmLogger *log.Logger,
) IChatService {
	return &chatService{
		uowFactory:  uowFactory,
		sessionRepo: sessionRepo,
		retriever:   retriever,
		graph:       graph,
		hub:         hub,
		sysLogger:   sysLogger,
		llmLogger:   llmLogger,
	}
}

// NewLLMLogger opens the dedicated pipeline trace sink. Prompt and trace
// noise stays out of the main logs; the same sink is shared with the agent
// nodes.
func NewLLMLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "llm_pipeline.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[LLM] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

// CreateSession creates a new chat session bound to a video.
func (cs *chatService) CreateSession(ctx context.Context, userId uuid.UUID, request *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	videoId := utils.ExtractVideoID(request.VideoURL)
	if videoId == "" {
		return nil, fmt.Errorf("unrecognized video url: %s", request.VideoURL)
	}

	title := request.Title
	if title == "" {
		title = "Chat about " + videoId
	}

	session := &entity.ChatSession{
		Id:      uuid.New(),
		UserId:  userId,
		VideoId: videoId,
		Title:   title,
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create chat session: %w", err)
	}

	return &dto.CreateSessionResponse{Id: session.Id, VideoId: session.VideoId}, nil
}

func (cs *chatService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	res := make([]*dto.GetAllSessionsResponse, len(sessions))
	for i, s := range sessions {
		res[i] = &dto.GetAllSessionsResponse{
			Id:        s.Id,
			VideoId:   s.VideoId,
			Title:     s.Title,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		}
	}
	return res, nil
}

func (cs *chatService) GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := cs.ownedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: session.Id},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}

	res := make([]*dto.GetChatHistoryResponse, len(messages))
	for i, m := range messages {
		res[i] = &dto.GetChatHistoryResponse{
			Id:        m.Id,
			Role:      m.Role,
			Content:   m.Content,
			Metadata:  m.Metadata,
			CreatedAt: m.CreatedAt,
		}
	}
	return res, nil
}

func (cs *chatService) DeleteSession(ctx context.Context, userId uuid.UUID, request *dto.DeleteSessionRequest) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := cs.ownedSession(ctx, uow, userId, request.ChatSessionId)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, session.Id); err != nil {
		return fmt.Errorf("failed to delete session messages: %w", err)
	}
	if err := uow.ChatSessionRepository().Delete(ctx, session.Id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}

	cs.sessionRepo.Delete(session.Id.String())
	return nil
}

// Handle answers one websocket turn: retrieve, run the graph while streaming
// thought events, emit the result, then persist both sides of the exchange.
func (cs *chatService) Handle(ctx context.Context, sessionID, userID uuid.UUID, inbound dto.ChatInbound) {
	state, err := cs.loadState(ctx, sessionID, userID)
	if err != nil {
		cs.sysLogger.Error("ChatService", "Failed to load session state", map[string]interface{}{
			"session_id": sessionID, "error": err.Error(),
		})
		cs.hub.Send(sessionID, dto.WsEvent{Type: dto.WsEventError, Data: "session not found"})
		return
	}

	if inbound.URL != "" {
		if vid := utils.ExtractVideoID(inbound.URL); vid != "" && vid != state.VideoID {
			state.VideoID = vid
			cs.rebindVideo(ctx, sessionID, vid)
		}
	}

	var thoughts []string
	emitThought := func(line string) {
		thoughts = append(thoughts, line)
		cs.llmLogger.Printf("%s", line)
		cs.hub.Send(sessionID, dto.WsEvent{Type: dto.WsEventThought, Data: line})
	}

	groundingContext := ""
	if state.VideoID != "" {
		emitThought("RETRIEVER: Searching the video knowledge base.")
		groundingContext, err = cs.retriever.Retrieve(ctx, state.VideoID, inbound.Message)
		if err != nil {
			// Degrade to an ungrounded answer rather than failing the turn.
			cs.sysLogger.Warn("ChatService", "Retrieval failed", map[string]interface{}{
				"session_id": sessionID, "video_id": state.VideoID, "error": err.Error(),
			})
			groundingContext = ""
		}
	}

	initial := agent.State{
		Query:   inbound.Message,
		Context: groundingContext,
		History: state.History,
	}

	final, err := cs.graph.Run(ctx, initial, func(node, line string) {
		emitThought(line)
	})
	if ctx.Err() != nil {
		// The client is gone. Abandon the turn without persisting anything.
		cs.sysLogger.Warn("ChatService", "Client disconnected mid-turn, abandoning", map[string]interface{}{
			"session_id": sessionID,
		})
		return
	}
	if err != nil {
		cs.sysLogger.Error("ChatService", "Pipeline failed", map[string]interface{}{
			"session_id": sessionID, "error": err.Error(),
		})
		cs.hub.Send(sessionID, dto.WsEvent{Type: dto.WsEventError, Data: "Something went wrong while answering. Please try again."})
		return
	}

	cs.hub.Send(sessionID, dto.WsEvent{
		Type:        dto.WsEventResult,
		Data:        final.Answer,
		Suggestions: final.Suggestions,
		Meta:        final.Metadata,
	})

	// Persistence happens only after the client has its answer: a failed
	// write costs durability of this turn, never the turn itself.
	if final.Metadata == nil {
		final.Metadata = map[string]interface{}{}
	}
	final.Metadata["thoughts"] = thoughts
	if err := cs.saveTurn(ctx, sessionID, inbound.Message, final); err != nil {
		cs.sysLogger.Error("ChatService", "Failed to persist turn", map[string]interface{}{
			"session_id": sessionID, "error": err.Error(),
		})
	}

	state.AppendTurn(inbound.Message, final.Answer)
	state.LastRoute = string(final.Route)
	cs.sessionRepo.Save(state)
}

// loadState returns the warm in-memory session, rebuilding it from persisted
// rows on a cache miss.
func (cs *chatService) loadState(ctx context.Context, sessionID, userID uuid.UUID) (*store.Session, error) {
	if state, found := cs.sessionRepo.Get(sessionID.String()); found {
		if state.UserID != userID.String() {
			return nil, fmt.Errorf("session %s does not belong to user", sessionID)
		}
		return state, nil
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	session, err := cs.ownedSession(ctx, uow, userID, sessionID)
	if err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: session.Id},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: constant.HistoryWindow, Offset: 0},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild session history: %w", err)
	}

	// Rows came newest-first; prompts want oldest-first.
	history := make([]llm.Message, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		role := llm.RoleUser
		if messages[i].Role == constant.ChatMessageRoleModel {
			role = llm.RoleAssistant
		}
		history = append(history, llm.Message{Role: role, Content: messages[i].Content})
	}

	state := &store.Session{
		ID:      session.Id.String(),
		UserID:  session.UserId.String(),
		VideoID: session.VideoId,
		History: history,
	}
	cs.sessionRepo.Save(state)
	return state, nil
}

func (cs *chatService) ownedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session %s not found", sessionId)
	}
	return session, nil
}

func (cs *chatService) rebindVideo(ctx context.Context, sessionID uuid.UUID, videoId string) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionID})
	if err != nil || session == nil {
		cs.sysLogger.Warn("ChatService", "Could not rebind session video", map[string]interface{}{
			"session_id": sessionID, "video_id": videoId,
		})
		return
	}
	session.VideoId = videoId
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		cs.sysLogger.Warn("ChatService", "Failed to persist video rebind", map[string]interface{}{
			"session_id": sessionID, "error": err.Error(),
		})
	}
}

// saveTurn writes the user message and the model reply atomically. Partial
// conversations are worse than missing ones.
func (cs *chatService) saveTurn(ctx context.Context, sessionID uuid.UUID, userMsg string, final agent.State) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	userTurn := &entity.ChatMessage{
		Id:            uuid.New(),
		Content:       userMsg,
		Role:          constant.ChatMessageRoleUser,
		ChatSessionId: sessionID,
	}
	if err := uow.ChatMessageRepository().Create(ctx, userTurn); err != nil {
		return err
	}

	modelTurn := &entity.ChatMessage{
		Id:            uuid.New(),
		Content:       final.Answer,
		Role:          constant.ChatMessageRoleModel,
		Metadata:      final.Metadata,
		ChatSessionId: sessionID,
	}
	if err := uow.ChatMessageRepository().Create(ctx, modelTurn); err != nil {
		return err
	}

	return uow.Commit()
}
