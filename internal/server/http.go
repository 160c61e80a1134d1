package server

import (
	"battlescape-server/internal/config"
	"battlescape-server/internal/engine"
	"battlescape-server/internal/filter"
	"battlescape-server/internal/version"
	"battlescape-server/pkg/logger"
	"encoding/json"
	"net/http"
	_ "net/http/pprof" // Profiling
)

type Server struct {
	Engine *engine.GameService
	Filter *filter.Filter
	Cvars  *config.Registry
	Port   string
}

func New(engine *engine.GameService, f *filter.Filter, cvars *config.Registry, port string) *Server {
	return &Server{
		Engine: engine,
		Filter: f,
		Cvars:  cvars,
		Port:   port,
	}
}

// Routes собирает обработчики. Вынесено из Run для тестов.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", enableCORS(s.handleWS))
	mux.HandleFunc("/health", enableCORS(s.handleHealth))
	mux.HandleFunc("/version", enableCORS(s.handleVersion))

	debugHandler := NewDebugHandler(s.Engine)
	debugHandler.RegisterRoutes(mux)
}

// Run запускает HTTP сервер
func (s *Server) Run() error {
	mux := http.DefaultServeMux
	s.Routes(mux)

	logger.Component("service").Infof("Battlescape server running on :%s", s.Port)
	return http.ListenAndServe(":"+s.Port, mux)
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Разрешаем запросы с фронтенда
		w.Header().Set("Access-Control-Allow-Origin", "*")
		// Разрешаем заголовки, если фронт шлет что-то нестандартное
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next(w, r)
	}
}

// handleWS обрабатывает подключение по WebSocket. Адрес проверяется
// фильтром до апгрейда.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if s.Filter != nil && s.Filter.Blocked(r.RemoteAddr, s.Cvars.Bool(config.SvFilterBan)) {
		logger.Component("ws_client").WithField("ip", r.RemoteAddr).Info("Connection filtered")
		http.Error(w, "Banned.", http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Component("ws_client").WithError(err).Error("Upgrade error")
		return
	}

	client := NewClient(s.Engine, conn, r.RemoteAddr)

	// Запускаем пампы
	go client.writePump()
	go client.readPump()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(version.Info())
}
