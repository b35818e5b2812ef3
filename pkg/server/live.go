package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/goliatone/go-schoolsite/pkg/validation"
)

// liveReply answers one live validation message. Message is the current
// message of Field (empty when it passes); Valid and Errors describe the
// whole form so clients can enable the submit button.
type liveReply struct {
	Field   string            `json:"field,omitempty"`
	Message string            `json:"message"`
	Valid   bool              `json:"valid"`
	Errors  map[string]string `json:"errors,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// handleLive upgrades to a websocket that revalidates one field per message.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	form, validator, err := s.formFor(r)
	if err != nil {
		writeProblem(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader already wrote the error response
		s.logger.Debug("live upgrade failed", zap.String("form", form.ID), zap.Error(err))
		return
	}
	s.metrics.live.Inc()
	defer s.metrics.live.Dec()

	send := make(chan liveReply, 8)
	done := make(chan struct{})
	go s.liveWriter(conn, send, done)
	defer func() {
		close(send)
		<-done
	}()

	conn.SetReadLimit(liveReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(2 * livePingInterval))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(2 * livePingInterval))
	})

	for {
		op, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("live connection closed", zap.String("form", form.ID), zap.Error(err))
			}
			return
		}
		if op != websocket.TextMessage {
			continue
		}

		reply := liveValidate(validator, data)
		select {
		case send <- reply:
		case <-done:
			return
		}
	}
}

func liveValidate(validator *validation.Validator, data []byte) liveReply {
	var req validationRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return liveReply{Error: "malformed message"}
	}
	values := req.values()
	result := validator.Validate(values)
	reply := liveReply{Field: req.Field, Valid: result.Valid, Errors: result.Errors}
	if req.Field != "" {
		reply.Message, _ = validator.ValidateField(req.Field, values)
	}
	return reply
}

// liveWriter owns all writes to conn. It closes done once the connection is
// finished, either because send was closed or the server is shutting down.
func (s *Server) liveWriter(conn *websocket.Conn, send <-chan liveReply, done chan<- struct{}) {
	ticker := time.NewTicker(livePingInterval)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
		close(done)
	}()

	for {
		select {
		case reply, ok := <-send:
			if !ok {
				writeClose(conn, websocket.CloseNormalClosure)
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
			if err := conn.WriteJSON(reply); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					s.logger.Debug("live write failed", zap.Error(err))
				}
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.closing:
			writeClose(conn, websocket.CloseGoingAway)
			return
		}
	}
}

func writeClose(conn *websocket.Conn, code int) {
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, ""),
		time.Now().Add(liveWriteTimeout))
}
