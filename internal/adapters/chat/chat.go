// Package chat is the websocket transport for the coordinator: it
// owns the live connections, decodes inbound intents, and fans
// coordinator results out to the audiences they name.
package chat

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parley/internal/app/coord"
	"github.com/dkeye/Parley/internal/config"
	"github.com/dkeye/Parley/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

type ChatWSController struct {
	Coord   *coord.Coordinator
	Limiter *MessageRateLimiter

	readLimit  int64
	pingPeriod time.Duration

	mu    sync.RWMutex
	conns map[domain.ConnectionID]*ChatConn
}

func NewChatWSController(c *coord.Coordinator, cfg *config.Config) *ChatWSController {
	return &ChatWSController{
		Coord:      c,
		Limiter:    NewMessageRateLimiter(cfg.MsgRateLimit, cfg.MsgRateInterval),
		readLimit:  cfg.ReadLimit,
		pingPeriod: cfg.PingPeriod,
		conns:      make(map[domain.ConnectionID]*ChatConn),
	}
}

type ChatConn struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	closed bool
}

func (c *ChatConn) TrySend(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- data:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *ChatConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleChat upgrades the request and runs the connection's pumps.
// Connection ids are minted here, one per upgrade; they are never
// reused, which the coordinator's registration contract relies on.
func (ctl *ChatWSController) HandleChat(ctx context.Context, c *gin.Context) {
	cid := domain.ConnectionID(uuid.NewString())

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "chat").Msg("ws upgrade")
		return
	}
	if ctl.readLimit > 0 {
		ws.SetReadLimit(ctl.readLimit)
	}
	log.Info().Str("module", "chat").Str("cid", string(cid)).Msg("new WS connection")

	conn := &ChatConn{
		conn: ws,
		send: make(chan []byte, 32),
	}
	ctl.track(cid, conn)

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		defer cancel()
		ctl.writePump(ctx, conn)
		// Unblocks the read pump if the writer died first.
		conn.Close()
	}()
	go ctl.readPump(ctx, cid, conn)
}

func (ctl *ChatWSController) track(cid domain.ConnectionID, conn *ChatConn) {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	ctl.conns[cid] = conn
}

func (ctl *ChatWSController) untrack(cid domain.ConnectionID) {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	delete(ctl.conns, cid)
}

func (ctl *ChatWSController) lookup(cid domain.ConnectionID) (*ChatConn, bool) {
	ctl.mu.RLock()
	defer ctl.mu.RUnlock()
	conn, ok := ctl.conns[cid]
	return conn, ok
}

// sendTo delivers v to one connection, if it is still live.
func (ctl *ChatWSController) sendTo(cid domain.ConnectionID, v any) {
	if conn, ok := ctl.lookup(cid); ok {
		ctl.sendJSON(cid, conn, v)
	}
}

// broadcast delivers v to every listed connection except exclude.
func (ctl *ChatWSController) broadcast(audience []domain.ConnectionID, exclude domain.ConnectionID, v any) {
	for _, cid := range audience {
		if cid == exclude {
			continue
		}
		ctl.sendTo(cid, v)
	}
}
