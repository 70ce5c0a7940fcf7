package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	maxMsgSize = 8192
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS handled by middleware; tighten in production
	},
}

// wsError is pushed to the client when a streamed position is malformed.
type wsError struct {
	Error string `json:"error"`
}

// handleWS handles GET /api/v1/ws — upgrades to WebSocket and evaluates each
// position the client streams, pushing one evaluation response per message.
// Replay tooling walks a game record through this to get per-move analysis
// without one HTTP round trip per ply.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()
	log.Info().Str("remote", r.RemoteAddr).Msg("analysis stream connected")

	conn.SetReadLimit(maxMsgSize)
	for {
		conn.SetReadDeadline(time.Now().Add(pongWait))

		var req position
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("analysis stream unexpected close")
			}
			return
		}

		conn.SetWriteDeadline(time.Now().Add(writeWait))
		b, c, ko, perr := parsePosition(req)
		if perr != nil {
			if err := conn.WriteJSON(wsError{Error: perr.Error()}); err != nil {
				return
			}
			continue
		}
		if err := conn.WriteJSON(s.evaluate(b, c, ko)); err != nil {
			return
		}
	}
}
