package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/player"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// ErrUnknownMessage is returned for socket messages of an unknown type.
var ErrUnknownMessage = errors.New("unknown message type")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SocketMessage is a playback command sent over /sessions/{id}/ws.
// Type is one of start, continue, choose or view.
type SocketMessage struct {
	Type   string `json:"type"`
	NodeID string `json:"node_id,omitempty"`
	Index  int    `json:"index,omitempty"`
}

// SocketReply answers every SocketMessage.
type SocketReply struct {
	Type   string       `json:"type"` // "view" or "error"
	View   *player.View `json:"view,omitempty"`
	Error  string       `json:"error,omitempty"`
	Status int          `json:"status,omitempty"`
}

// ServeSocket handles GET /sessions/{id}/ws. Each text frame is a
// SocketMessage and gets exactly one SocketReply.
func (s *Server) ServeSocket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "session_id", id, "err", err)
		return
	}
	defer conn.Close()
	s.logger.Debug("websocket connected", "session_id", id)

	ctx := r.Context()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("websocket closed", "session_id", id, "err", err)
			}
			return
		}

		var msg SocketMessage
		reply := SocketReply{Type: "view"}
		if err := json.Unmarshal(data, &msg); err != nil {
			reply = errorReply(fmt.Errorf("%w: %v", ErrUnknownMessage, err))
		} else if view, err := s.dispatch(ctx, id, msg); err != nil {
			s.logger.Warn("websocket "+msg.Type+" rejected", "session_id", id, "err", err)
			reply = errorReply(err)
		} else {
			reply.View = &view
			if msg.Type != "view" {
				if data, err := json.Marshal(view); err == nil {
					s.Streams.Broadcast(id, string(data))
				}
			}
		}

		if err := conn.WriteJSON(reply); err != nil {
			s.logger.Debug("websocket write failed", "session_id", id, "err", err)
			return
		}
	}
}

func (s *Server) dispatch(ctx context.Context, id string, msg SocketMessage) (player.View, error) {
	var view player.View
	var err error
	switch msg.Type {
	case "start":
		nodeID := msg.NodeID
		if nodeID == "" {
			nodeID = s.StartNode
		}
		view, err = s.Sessions.Start(ctx, id, s.Graph, nodeID)
	case "continue":
		view, err = s.Sessions.Play(ctx, id, s.Graph, (*player.Engine).OnContinue)
	case "choose":
		view, err = s.Sessions.Play(ctx, id, s.Graph, func(e *player.Engine) error {
			return e.OnChoose(msg.Index)
		})
	case "view":
		view, err = s.Sessions.View(ctx, id, s.Graph)
	default:
		return player.View{}, fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
	if err != nil && !errors.Is(err, domain.ErrNodeNotFound) {
		return player.View{}, err
	}
	return view, nil
}

func errorReply(err error) SocketReply {
	return SocketReply{Type: "error", Error: err.Error(), Status: statusFor(err)}
}
