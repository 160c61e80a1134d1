package engine

import (
	"battlescape-server/internal/config"
	"battlescape-server/internal/domain"
	"time"
)

// Config хранит параметры запуска сервера. Правила матча живут в cvar'ах
// (config.Registry), здесь только то, что нужно процессу.
type Config struct {
	// Seed - мастер-зерно: от него зависят поле боя, спавн и все броски.
	Seed int64
	// MaxFPS - кадров симуляции в секунду реального времени.
	MaxFPS int

	Port       string
	ResultsDir string
	StatsLog   string
	IPFile     string
	AIManifest string
	Bots       int

	// SquadSize - сколько солдат получает человек при входе.
	SquadSize int
	// Width/Height поля боя; 0 - размер генератора по умолчанию.
	Width, Height int
	// DoorAutoClose - через сколько секунд открытая дверь закрывается сама (0 - никогда).
	DoorAutoClose float64
}

// NewConfig создает конфиг по умолчанию (случайный сид)
func NewConfig() Config {
	return Config{
		Seed:       time.Now().UnixNano(),
		MaxFPS:     domain.FramesPerSec,
		Port:       "8080",
		ResultsDir: "results",
		StatsLog:   "stats.log",
		IPFile:     "listip.cfg",
		SquadSize:  4,
	}
}

// Apply переносит заданные значения секции server из YAML-файла.
func (c *Config) Apply(s *config.ServerSection) {
	if s == nil {
		return
	}
	if s.Port != "" {
		c.Port = s.Port
	}
	if s.Seed != 0 {
		c.Seed = s.Seed
	}
	if s.ResultsDir != "" {
		c.ResultsDir = s.ResultsDir
	}
	if s.StatsLog != "" {
		c.StatsLog = s.StatsLog
	}
	if s.IPFile != "" {
		c.IPFile = s.IPFile
	}
	if s.AIManifest != "" {
		c.AIManifest = s.AIManifest
	}
	if s.Bots > 0 {
		c.Bots = s.Bots
	}
}

// FrameInterval - реальная длительность одного кадра.
func (c Config) FrameInterval() time.Duration {
	fps := c.MaxFPS
	if fps <= 0 {
		fps = domain.FramesPerSec
	}
	return time.Second / time.Duration(fps)
}
