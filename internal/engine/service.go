package engine

import (
	"battlescape-server/internal/actions"
	"battlescape-server/internal/ai"
	"battlescape-server/internal/config"
	"battlescape-server/internal/domain"
	"battlescape-server/internal/engine/handlers"
	handleractions "battlescape-server/internal/engine/handlers/actions"
	"battlescape-server/internal/events"
	"battlescape-server/internal/filter"
	"battlescape-server/internal/infrastructure/storage"
	"battlescape-server/internal/network"
	"battlescape-server/internal/sim"
	"battlescape-server/pkg/api"
	"battlescape-server/pkg/logger"
	"battlescape-server/pkg/utils"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	// ErrNotYourRound - действие вне раунда своей команды.
	ErrNotYourRound = actions.ErrNotYourRound
	// ErrUnknownAction - у действия нет хендлера.
	ErrUnknownAction = errors.New("unknown action")
	// ErrStopped - сервис уже не принимает команды.
	ErrStopped = errors.New("service stopped")
)

// Command - действие игрока, поставленное в очередь горутины матча.
type Command struct {
	Player  int
	Action  string
	Payload json.RawMessage
}

// JoinResult - занятый слот и канал кадров для него.
type JoinResult struct {
	Player int
	Team   domain.Team
	Frames chan api.ServerFrame
}

type joinRequest struct {
	name, ip string
	team     domain.Team
	reply    chan joinReply
}

type joinReply struct {
	res JoinResult
	err error
}

type inspectRequest struct {
	fn   func(g *Game)
	done chan struct{}
}

// ServiceOptions - внешние зависимости сервиса.
type ServiceOptions struct {
	Cvars    *config.Registry
	Console  sim.Console
	Stats    sim.StatsLog
	Scripted *ai.Scripted
	Filter   *filter.Filter
	Results  *storage.ResultsService
}

// GameService владеет матчем: одна горутина крутит кадры и выполняет
// команды, сеть общается с ней только через каналы.
type GameService struct {
	Hub *network.Broadcaster

	// MatchID - случайный идентификатор матча для логов и клиентов.
	MatchID string

	cfg     Config
	game    *Game
	events  *events.Buffer
	results *storage.ResultsService

	CommandChan    chan Command
	DisconnectChan chan int
	consoleChan    chan string
	joinChan       chan joinRequest
	inspectChan    chan inspectRequest
	done           chan struct{}

	handlers  map[string]handlers.HandlerFunc
	savedPath string
	log       *logrus.Entry
}

func NewService(cfg Config, opts ServiceOptions) (*GameService, error) {
	buf := events.NewBuffer()
	game, err := NewGame(cfg, Options{
		Cvars:    opts.Cvars,
		Events:   buf,
		Console:  opts.Console,
		Stats:    opts.Stats,
		Scripted: opts.Scripted,
		Filter:   opts.Filter,
	})
	if err != nil {
		return nil, err
	}

	s := &GameService{
		Hub:            network.NewBroadcaster(),
		MatchID:        utils.GenerateID(),
		cfg:            cfg,
		game:           game,
		events:         buf,
		results:        opts.Results,
		CommandChan:    make(chan Command, 100),
		DisconnectChan: make(chan int, 16),
		consoleChan:    make(chan string, 16),
		joinChan:       make(chan joinRequest),
		inspectChan:    make(chan inspectRequest),
		done:           make(chan struct{}),
		handlers:       make(map[string]handlers.HandlerFunc),
	}
	s.log = logger.Component("service").WithField("match", s.MatchID)
	s.registerHandlers()
	return s, nil
}

func (s *GameService) registerHandlers() {
	s.handlers[api.ActionMove] = handlers.WithPayload(handleractions.HandleMove)
	s.handlers[api.ActionTurn] = handlers.WithPayload(handleractions.HandleTurn)
	s.handlers[api.ActionShoot] = handlers.WithPayload(handleractions.HandleShoot)
	s.handlers[api.ActionState] = handlers.WithPayload(handleractions.HandleState)
	s.handlers[api.ActionUse] = handlers.WithPayload(handleractions.HandleUse)
	s.handlers[api.ActionEndRound] = handlers.WithEmptyPayload(handleractions.HandleEndRound)
	s.handlers[api.ActionInit] = handlers.WithEmptyPayload(handleractions.HandleInit)
}

func (s *GameService) Config() Config { return s.cfg }

// Done закрывается, когда матч закончен (или сервис остановлен).
func (s *GameService) Done() <-chan struct{} { return s.done }

// ResultsPath - файл с итогами, если он был записан.
func (s *GameService) ResultsPath() string { return s.savedPath }

func (s *GameService) Start(ctx context.Context) {
	go s.Run(ctx)
}

// --- API для сети ---

// Join занимает слот игрока. Кадры для слота идут в JoinResult.Frames;
// первым приходит WELCOME.
func (s *GameService) Join(ctx context.Context, name, ip string, team domain.Team) (JoinResult, error) {
	req := joinRequest{name: name, ip: ip, team: team, reply: make(chan joinReply, 1)}
	select {
	case s.joinChan <- req:
	case <-s.done:
		return JoinResult{}, ErrStopped
	case <-ctx.Done():
		return JoinResult{}, ctx.Err()
	}
	select {
	case r := <-req.reply:
		return r.res, r.err
	case <-ctx.Done():
		return JoinResult{}, ctx.Err()
	}
}

// ProcessCommand ставит действие игрока в очередь.
func (s *GameService) ProcessCommand(num int, cmd api.ClientCommand) error {
	if _, ok := s.handlers[cmd.Action]; !ok {
		return ErrUnknownAction
	}
	select {
	case <-s.done:
		return ErrStopped
	default:
	}
	select {
	case s.CommandChan <- Command{Player: num, Action: cmd.Action, Payload: cmd.Payload}:
		return nil
	case <-s.done:
		return ErrStopped
	}
}

// Disconnect освобождает слот игрока.
func (s *GameService) Disconnect(num int) {
	select {
	case s.DisconnectChan <- num:
	case <-s.done:
	}
}

// Console выполняет строку серверной консоли в горутине матча.
func (s *GameService) Console(line string) {
	select {
	case s.consoleChan <- line:
	case <-s.done:
	}
}

// Inspect вызывает fn с матчем между кадрами. После остановки сервиса
// матч больше не меняется, и fn вызывается сразу.
func (s *GameService) Inspect(fn func(g *Game)) {
	req := inspectRequest{fn: fn, done: make(chan struct{})}
	select {
	case s.inspectChan <- req:
		<-req.done
	case <-s.done:
		fn(s.game)
	}
}

// --- GAME LOOP ---

func (s *GameService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.FrameInterval())
	defer ticker.Stop()
	defer close(s.done)

	s.log.WithField("interval", s.cfg.FrameInterval()).Info("Game loop started")

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Game loop stopped")
			return

		case <-ticker.C:
			s.game.RunFrame()

		case cmd := <-s.CommandChan:
			s.executeCommand(cmd)

		case req := <-s.joinChan:
			s.handleJoin(req)

		case num := <-s.DisconnectChan:
			s.game.Leave(num)
			s.Hub.Unregister(num)

		case line := <-s.consoleChan:
			s.game.ServerCommand(line)

		case req := <-s.inspectChan:
			req.fn(s.game)
			close(req.done)
		}

		s.flush()
		if s.game.Ended() {
			s.finish()
			return
		}
	}
}

// flush раздает накопленные события подписчикам.
func (s *GameService) flush() {
	evs := s.events.Drain()
	if len(evs) == 0 {
		return
	}
	s.Hub.Route(s.game.Level().FrameNum, evs)
}

func (s *GameService) handleJoin(req joinRequest) {
	p, err := s.game.Join(req.name, req.ip, req.team)
	if err != nil {
		req.reply <- joinReply{err: err}
		return
	}
	frames := s.Hub.Register(p.Num)
	s.Hub.SendTo(p.Num, api.ServerFrame{
		Type:   api.FrameWelcome,
		Frame:  s.game.Level().FrameNum,
		Player: p.Num,
		Team:   int(p.Team),
		Match:  s.MatchID,
	})
	req.reply <- joinReply{res: JoinResult{Player: p.Num, Team: p.Team, Frames: frames}}
}

func (s *GameService) executeCommand(cmd Command) {
	p := s.game.Player(cmd.Player)
	if p == nil || !p.InUse || p.AI {
		return
	}
	h, ok := s.handlers[cmd.Action]
	if !ok {
		return
	}

	hctx := handlers.Context{
		Sim:      s.game.Context(),
		Player:   p,
		EndRound: s.game.ClientEndRound,
	}
	res, err := h(hctx, cmd.Payload)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"player": cmd.Player,
			"action": cmd.Action,
		}).WithError(err).Debug("Command rejected")
		s.Hub.SendTo(cmd.Player, api.ServerFrame{Type: api.FrameError, Frame: s.game.Level().FrameNum, Text: err.Error()})
		return
	}
	if res.Msg != "" {
		s.Hub.SendTo(cmd.Player, api.ServerFrame{Type: res.MsgType, Frame: s.game.Level().FrameNum, Text: res.Msg})
	}
}

// finish сохраняет итоги законченного матча.
func (s *GameService) finish() {
	r := s.game.Results()
	if r == nil || s.results == nil {
		return
	}
	path, err := s.results.Save(&storage.MatchRecord{
		Seed:      s.cfg.Seed,
		Timestamp: time.Now().Unix(),
		Winner:    int(r.Winner),
		Payload:   EncodeResults(r),
	})
	if err != nil {
		s.log.WithError(err).Error("Failed to save results")
		return
	}
	s.savedPath = path
}
