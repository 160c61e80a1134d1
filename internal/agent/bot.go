// Package agent - безголовые клиенты для локальных матчей.
package agent

import (
	"battlescape-server/internal/domain"
	"battlescape-server/internal/engine"
	"battlescape-server/internal/events"
	"battlescape-server/pkg/api"
	"battlescape-server/pkg/logger"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Bot представляет собой "Игрока-компьютера" (Headless Agent).
// Он подключается к сервису так же, как игрок через WebSocket, но без
// сети: получает свои кадры из хаба и отправляет команды в очередь.
// Стратегия простая: как только ход переходит к его команде, бот
// заканчивает раунд.
//
// Жизненный цикл:
//  1. NewBot -> Вход в матч, получение личного канала кадров.
//  2. Run -> Запуск в отдельной горутине, слушает свои кадры.
//  3. EV_RESET/EV_ENDROUND с его командой -> команда ENDROUND.
type Bot struct {
	Name    string
	Player  int
	Team    domain.Team
	Service *engine.GameService
	Inbox   chan api.ServerFrame

	rounds int
	log    *logrus.Entry
}

func NewBot(ctx context.Context, name string, team domain.Team, service *engine.GameService) (*Bot, error) {
	res, err := service.Join(ctx, name, "bot", team)
	if err != nil {
		return nil, fmt.Errorf("bot %s: %w", name, err)
	}
	b := &Bot{
		Name:    name,
		Player:  res.Player,
		Team:    res.Team,
		Service: service,
		Inbox:   res.Frames,
		log: logger.Component("bot").WithFields(logrus.Fields{
			"player": res.Player,
			"team":   res.Team,
		}),
	}
	b.log.Info("Bot joined")
	return b, nil
}

// Run запускает цикл жизни бота. Должен быть запущен в горутине.
// Возвращается, когда канал кадров закрыт или отменен ctx.
func (b *Bot) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-b.Inbox:
			if !ok {
				b.log.WithField("rounds", b.rounds).Info("Bot shut down")
				return
			}
			if b.myTurn(frame) {
				b.endRound()
			}
		}
	}
}

// Rounds - сколько раундов бот завершил.
func (b *Bot) Rounds() int { return b.rounds }

// myTurn ищет в кадре последнюю смену активной команды.
func (b *Bot) myTurn(frame api.ServerFrame) bool {
	if frame.Type != api.FrameEvents {
		return false
	}
	active := domain.NoActiveTeam
	for _, ev := range frame.Events {
		r := events.NewReader(ev.Payload)
		switch events.Kind(ev.Kind) {
		case events.EvReset:
			r.Byte() // своя команда
			active = domain.Team(r.Byte())
		case events.EvEndRound:
			active = domain.Team(r.Byte())
		}
	}
	return active == b.Team
}

func (b *Bot) endRound() {
	if err := b.Service.ProcessCommand(b.Player, api.ClientCommand{Action: api.ActionEndRound}); err != nil {
		b.log.WithError(err).Warn("End round failed")
		return
	}
	b.rounds++
	b.log.WithField("rounds", b.rounds).Debug("Round ended by bot")
}
