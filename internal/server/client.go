package server

import (
	"battlescape-server/internal/domain"
	"battlescape-server/internal/engine"
	"battlescape-server/internal/network"
	"battlescape-server/internal/version"
	"battlescape-server/pkg/api"
	"battlescape-server/pkg/logger"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	joinTimeout    = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и GameService
type Client struct {
	Game   *engine.GameService
	Conn   *websocket.Conn
	Send   chan api.ServerFrame
	IP     string
	Player int

	log *logrus.Entry
}

func NewClient(game *engine.GameService, conn *websocket.Conn, ip string) *Client {
	return &Client{
		Game:   game,
		Conn:   conn,
		Send:   make(chan api.ServerFrame, 256),
		IP:     ip,
		Player: -1,
		log:    logger.Component("ws_client").WithField("ip", ip),
	}
}

// login читает первое сообщение и занимает слот в матче.
func (c *Client) login() (engine.JoinResult, error) {
	var cmd api.ClientCommand
	if err := c.Conn.ReadJSON(&cmd); err != nil {
		return engine.JoinResult{}, fmt.Errorf("handshake: %w", err)
	}
	if cmd.Action != api.ActionLogin {
		return engine.JoinResult{}, fmt.Errorf("handshake: expected %s, got %q", api.ActionLogin, cmd.Action)
	}

	var p api.LoginPayload
	if len(cmd.Payload) > 0 {
		if err := json.Unmarshal(cmd.Payload, &p); err != nil {
			return engine.JoinResult{}, fmt.Errorf("invalid payload format: %w", err)
		}
	}
	if err := p.Validate(); err != nil {
		return engine.JoinResult{}, fmt.Errorf("validation failed: %w", err)
	}
	if p.Protocol != 0 && p.Protocol != version.ProtocolVersion {
		return engine.JoinResult{}, fmt.Errorf("protocol %d, server speaks %d", p.Protocol, version.ProtocolVersion)
	}

	name := cmd.Token
	if name == "" {
		name = "player"
	}
	ctx, cancel := context.WithTimeout(context.Background(), joinTimeout)
	defer cancel()
	return c.Game.Join(ctx, name, c.IP, domain.Team(p.Team))
}

// readPump читает команды от клиента
func (c *Client) readPump() {
	joined := false
	defer func() {
		if joined {
			// сервис снимет подписку, и writePump получит закрытый Send
			c.Game.Disconnect(c.Player)
			c.log.WithField("player", c.Player).Info("Client disconnected")
		} else {
			close(c.Send)
		}
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	// 1. HANDSHAKE (LOGIN)
	res, err := c.login()
	if err != nil {
		c.log.WithError(err).Warn("Login refused")
		c.Send <- api.ServerFrame{Type: api.FrameError, Text: err.Error()}
		return
	}
	joined = true
	c.Player = res.Player
	c.log.WithFields(logrus.Fields{
		"player": res.Player,
		"team":   res.Team,
	}).Info("Client logged in")

	// 2. Пересылка кадров из Hub в writePump
	go func() {
		for msg := range res.Frames {
			c.Send <- msg
		}
		close(c.Send)
	}()

	// 3. ЦИКЛ ЧТЕНИЯ КОМАНД
	for {
		var cmd api.ClientCommand
		if err := c.Conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Error("WS Error")
			}
			return
		}
		if err := c.Game.ProcessCommand(c.Player, cmd); err != nil {
			c.Game.Hub.SendTo(c.Player, api.ServerFrame{Type: api.FrameError, Text: fmt.Sprintf("%s: %v", cmd.Action, err)})
		}
	}
}

// writePump отправляет кадры клиенту (msgpack, бинарные сообщения) + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.log.WithError(err).Debug("write close message failed")
				}
				return
			}
			data, err := network.EncodeFrame(message)
			if err != nil {
				c.log.WithError(err).Error("encode frame failed")
				continue
			}
			if err := c.Conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				c.log.WithError(err).Debug("write frame failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
