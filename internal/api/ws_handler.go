package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"go-summarizer/internal/summarize"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type safeWSConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *safeWSConn) WriteJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}

func (s *safeWSConn) Close() error {
	return s.conn.Close()
}

// WSStageEvent is pushed as each pipeline stage starts
type WSStageEvent struct {
	Event string `json:"event"`
	Stage string `json:"stage"`
}

// WSResultEvent carries the final result and ends the exchange
type WSResultEvent struct {
	Event  string           `json:"event"`
	Result summarize.Result `json:"result"`
}

// GET /ws/summarize
//
// The client sends one {api_key,url} message. The server replies with a
// stage event per pipeline step and a single result event, then closes.
func WSSummarizeHandler(svc *summarize.Service, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawConn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}
		conn := &safeWSConn{conn: rawConn}
		defer conn.Close()

		rawConn.SetReadDeadline(time.Now().Add(30 * time.Second))
		_, msg, err := rawConn.ReadMessage()
		if err != nil {
			conn.WriteJSON(map[string]string{"error": "invalid initial payload"})
			return
		}
		rawConn.SetReadDeadline(time.Time{})

		var req summarize.Request
		if err := json.Unmarshal(msg, &req); err != nil {
			conn.WriteJSON(map[string]string{"error": "invalid JSON"})
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		// Any further read error means the client went away
		go func() {
			for {
				if _, _, err := rawConn.ReadMessage(); err != nil {
					cancel()
					return
				}
			}
		}()

		res := svc.Summarize(ctx, req, func(stage string) {
			conn.WriteJSON(WSStageEvent{Event: "stage", Stage: stage})
		})
		if err := conn.WriteJSON(WSResultEvent{Event: "result", Result: res}); err != nil {
			log.Debug().Err(err).Str("request_id", res.RequestID).Msg("client gone before result")
			return
		}
		conn.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
	}
}
