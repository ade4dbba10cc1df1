package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/business-nexus/backend/internal/application/config"
	"github.com/business-nexus/backend/internal/application/constant"
	"github.com/business-nexus/backend/internal/domain/events"
	"github.com/business-nexus/backend/internal/infra/adapters/memory"
	"github.com/business-nexus/backend/internal/infra/appctx"
	"github.com/business-nexus/backend/internal/usecase"
)

type WebSocketHandler struct {
	upgrader *websocket.Upgrader

	signalingUsecase usecase.SignalingUsecase

	connRepo memory.ConnectionRepository
}

func NewWebSocketHandler(cfg *config.Config, signalingUsecase usecase.SignalingUsecase, connRepo memory.ConnectionRepository) *WebSocketHandler {
	return &WebSocketHandler{
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if cfg.Debug {
					return true
				}

				return r.Header.Get("Origin") == cfg.Domain
			},
		},
		signalingUsecase: signalingUsecase,
		connRepo:         connRepo,
	}
}

func (h *WebSocketHandler) Handle(c echo.Context) error {
	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"WebSocket upgrade error",
			slog.Any(constant.Error, err),
		)
		return err
	}
	defer ws.Close()

	_, ok := appctx.UserID(c.Request().Context())
	if !ok {
		return fmt.Errorf("get user id from context")
	}

	connID := uuid.New()

	h.connRepo.Add(connID, ws)

	// disconnect is the single cancellation signal: presence entry removed,
	// room left, remaining peer told, exactly once
	defer func() {
		h.signalingUsecase.HandleDisconnect(context.WithoutCancel(c.Request().Context()), connID)
		h.connRepo.Remove(connID)
	}()

	err = ws.SetReadDeadline(time.Now().Add(60 * time.Second))
	if err != nil {
		return err
	}
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
					slog.Error("ping failed", slog.Any(constant.Error, err))
					return
				}
			case <-c.Request().Context().Done():
				return
			}
		}
	}()

	for {
		select {
		case <-c.Request().Context().Done():
			return nil
		default:
			_, msg, err := ws.ReadMessage()
			if err != nil {
				h.handleWebsocketError(c.Request().Context(), err)

				return nil
			}

			signalMessage := new(events.Message)

			if err = json.Unmarshal(msg, &signalMessage); err != nil {
				slog.Error("unmarshal websocket message", slog.Any(constant.Error, err))

				return nil
			}

			if err = h.handleMessage(c.Request().Context(), connID, signalMessage); err != nil {
				slog.Error("handle message", slog.Any(constant.Error, err))
			}
		}
	}
}

func (h *WebSocketHandler) handleMessage(
	ctx context.Context,
	connID uuid.UUID,
	msg *events.Message,
) error {
	userID, ok := appctx.UserID(ctx)
	if !ok {
		return fmt.Errorf("get user id from context")
	}

	switch msg.Type {
	case events.TypeRegister:
		// the JWT identity is authoritative, the event payload carries no
		// information the server trusts
		h.signalingUsecase.HandleRegister(ctx, userID, connID)

	case events.TypeJoinRoom:
		var joinEvent events.JoinRoomEvent

		if err := json.Unmarshal(msg.Data, &joinEvent); err != nil {
			return fmt.Errorf("unmarshal join-room event: %w", err)
		}

		if err := h.signalingUsecase.HandleJoinRoom(ctx, userID, connID, joinEvent); err != nil {
			return fmt.Errorf("handle join-room: %w", err)
		}

	case events.TypeLeaveRoom:
		if err := h.signalingUsecase.HandleLeaveRoom(ctx, connID); err != nil {
			return fmt.Errorf("handle leave-room: %w", err)
		}

	case events.TypeOffer:
		var offer events.SdpEvent

		if err := json.Unmarshal(msg.Data, &offer); err != nil {
			return fmt.Errorf("unmarshal offer: %w", err)
		}

		if err := h.signalingUsecase.HandleOffer(ctx, connID, offer); err != nil {
			return fmt.Errorf("handle offer: %w", err)
		}

	case events.TypeAnswer:
		var answer events.SdpEvent

		if err := json.Unmarshal(msg.Data, &answer); err != nil {
			return fmt.Errorf("unmarshal answer: %w", err)
		}

		if err := h.signalingUsecase.HandleAnswer(ctx, connID, answer); err != nil {
			return fmt.Errorf("handle answer: %w", err)
		}

	case events.TypeIceCandidate:
		var candidate events.IceCandidateEvent

		if err := json.Unmarshal(msg.Data, &candidate); err != nil {
			return fmt.Errorf("unmarshal ice candidate: %w", err)
		}

		if err := h.signalingUsecase.HandleCandidate(ctx, connID, candidate); err != nil {
			return fmt.Errorf("handle ice candidate: %w", err)
		}

	default:
		return errors.New("unknown message type")
	}

	return nil
}

func (h *WebSocketHandler) handleWebsocketError(ctx context.Context, err error) {
	userID, ok := appctx.UserID(ctx)
	if !ok {
		userID = uuid.Nil
	}

	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		switch closeErr.Code {
		case websocket.CloseNormalClosure, websocket.CloseGoingAway:
			slog.Info("user disconnected from websocket", slog.Any(constant.UserID, userID))
		default:
			slog.Error("websocket close error")
		}
	} else {
		slog.Error(
			"websocket read",
			slog.Any(constant.Error, err),
		)
	}
}
