package handlers

import (
	"battlescape-server/internal/domain"
	"battlescape-server/internal/sim"
	"encoding/json"
)

// Context передает хендлеру состояние матча.
// Хендлер мутирует его напрямую: вызывается только из горутины сервиса.
type Context struct {
	Sim    *sim.Context
	Player *domain.Player // Тот, кто прислал команду

	// EndRound - конец раунда игрока (живет в движке, хендлер его только вызывает).
	EndRound func(p *domain.Player)
}

// Actor возвращает актора по номеру эдикта или nil.
func (c Context) Actor(num int) *domain.Edict {
	return c.Sim.Store.InUse(num)
}

// Result - возвращает результат выполнения команды.
// Хендлер НЕ пишет в сокет напрямую, он возвращает данные.
type Result struct {
	Msg     string // Ответ отправителю
	MsgType string // INFO, ERROR
}

// HandlerFunc - это контракт для любой команды (MOVE, SHOOT, etc).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult() Result {
	return Result{}
}
