package api

import (
	"encoding/json"
)

// Действия клиента.
const (
	ActionLogin    = "LOGIN"
	ActionInit     = "INIT"
	ActionMove     = "MOVE"
	ActionTurn     = "TURN"
	ActionShoot    = "SHOOT"
	ActionState    = "STATE"
	ActionUse      = "USE"
	ActionEndRound = "ENDROUND"
)

// Типы кадров сервера.
const (
	FrameWelcome = "WELCOME"
	FrameEvents  = "EVENTS"
	FrameError   = "ERROR"
	FrameInfo    = "INFO"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// ServerFrame - кадр, который сервер отправляет клиенту бинарным
// websocket-сообщением в msgpack.
type ServerFrame struct {
	// Type - WELCOME после входа, EVENTS с событиями кадра,
	// ERROR/INFO в ответ на команду.
	Type string `msgpack:"type" json:"type"`

	// Frame - номер кадра симуляции.
	Frame int `msgpack:"frame" json:"frame"`

	// Player, Team и Match заполняются в WELCOME.
	Player int    `msgpack:"player,omitempty" json:"player,omitempty"`
	Team   int    `msgpack:"team,omitempty" json:"team,omitempty"`
	Match  string `msgpack:"match,omitempty" json:"match,omitempty"`

	// Events - события, в маске которых есть бит этого игрока, в порядке записи.
	Events []EventView `msgpack:"events,omitempty" json:"events,omitempty"`

	// Text - текст ошибки или ответа.
	Text string `msgpack:"text,omitempty" json:"text,omitempty"`
}

// EventView - одно событие. Payload - сырые байты (little-endian поля).
type EventView struct {
	Kind    uint8  `msgpack:"kind" json:"kind"`
	Name    string `msgpack:"name" json:"name"`
	Payload []byte `msgpack:"payload" json:"payload"`
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
type ClientCommand struct {
	// Token - имя игрока. Обязателен только для первого сообщения "LOGIN".
	Token string `json:"token,omitempty"`

	// Action название действия, которое нужно выполнить.
	Action string `json:"action"`

	// Payload JSON-объект с данными для действия. Его структура зависит от Action.
	Payload json.RawMessage `json:"payload"`
}

// --- Payloads ---

// LoginPayload - команда, за которую хочет играть клиент.
type LoginPayload struct {
	Team int `json:"team"`
	// Protocol - версия протокола клиента; 0 - не проверять.
	Protocol int `json:"protocol,omitempty"`
}

// MovePayload - актор Entity идет в клетку (X, Y).
type MovePayload struct {
	Entity int `json:"entity"`
	X      int `json:"x"`
	Y      int `json:"y"`
}

// TurnPayload - поворот актора (0..7, против часовой от +X).
type TurnPayload struct {
	Entity int `json:"entity"`
	Dir    int `json:"dir"`
}

// ShootPayload - выстрел по клетке (X, Y) из руки Hand режимом FireDef.
type ShootPayload struct {
	Entity  int `json:"entity"`
	X       int `json:"x"`
	Y       int `json:"y"`
	Hand    int `json:"hand"`
	FireDef int `json:"fireDef"`
}

// StatePayload - смена позы/реакции: crouch, reaction_off, reaction_many, reaction_once.
type StatePayload struct {
	Entity int    `json:"entity"`
	State  string `json:"state"`
}

// EntityPayload - действие актора без параметров (USE).
type EntityPayload struct {
	Entity int `json:"entity"`
}
