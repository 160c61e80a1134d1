package server

import (
	"battlescape-server/internal/domain"
	"battlescape-server/internal/engine"
	"encoding/json"
	"net/http"
)

// DebugHandler предоставляет доступ к внутреннему состоянию движка
type DebugHandler struct {
	Service *engine.GameService
}

func NewDebugHandler(s *engine.GameService) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/level", h.handleLevel)
	mux.HandleFunc("/debug/edicts", h.handleDumpEdicts)
	mux.HandleFunc("/debug/players", h.handlePlayers)
}

// snapshot сериализует данные внутри цикла матча: эдикты содержат
// указатели и срезы, которые нельзя читать из другой горутины.
func (h *DebugHandler) snapshot(w http.ResponseWriter, fn func(g *engine.Game) any) {
	var data []byte
	var err error
	h.Service.Inspect(func(g *engine.Game) {
		data, err = json.Marshal(fn(g))
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, json.RawMessage(data))
}

// /debug/level - состояние раунда и счетчики команд
func (h *DebugHandler) handleLevel(w http.ResponseWriter, r *http.Request) {
	type LevelView struct {
		Phase string        `json:"phase"`
		Level *domain.Level `json:"level"`
	}
	h.snapshot(w, func(g *engine.Game) any {
		return LevelView{Phase: g.Phase().String(), Level: g.Level()}
	})
}

// /debug/edicts?type=actor - дамп используемых эдиктов (включая скрытые параметры AI)
func (h *DebugHandler) handleDumpEdicts(w http.ResponseWriter, r *http.Request) {
	onlyActors := r.URL.Query().Get("type") == "actor"
	h.snapshot(w, func(g *engine.Game) any {
		dump := []*domain.Edict{}
		for ent := range g.Context().Store.All(nil) {
			if onlyActors && !ent.Type.IsActor() {
				continue
			}
			dump = append(dump, ent)
		}
		return dump
	})
}

// /debug/players - занятые слоты игроков
func (h *DebugHandler) handlePlayers(w http.ResponseWriter, r *http.Request) {
	h.snapshot(w, func(g *engine.Game) any {
		players := []domain.Player{}
		for _, p := range g.Context().Players {
			if p.InUse {
				players = append(players, p)
			}
		}
		return players
	})
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	// Разрешаем запросы с любого источника (нужно для локального debug_client.html)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(data)
}
