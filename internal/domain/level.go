package domain

// Level - состояние раунда и матча.
type Level struct {
	FrameNum int     `json:"framenum"`
	Time     float64 `json:"time"`

	ActiveTeam     Team    `json:"activeTeam"`
	ActualRound    int     `json:"actualRound"`
	NextEndRound   int     `json:"nextEndRound"`
	RoundStartTime float64 `json:"roundStartTime"`

	// IntermissionTime - момент финализации; 0 = не запланирована.
	IntermissionTime float64 `json:"intermissionTime"`
	Winner           Team    `json:"winner"`

	NumSpawned     [MaxTeams]int           `json:"numSpawned"`
	NumAlive       [MaxTeams]int           `json:"numAlive"`
	NumSpawnPoints [MaxTeams]int           `json:"numSpawnPoints"`
	NumKills       [MaxTeams][MaxTeams]int `json:"numKills"`
	NumStuns       [MaxTeams][MaxTeams]int `json:"numStuns"`

	// ConfigStrings - значения, которые клиенты видят как серверную конфигурацию.
	ConfigStrings map[string]string `json:"configStrings"`
}

// NewLevel создает пустое состояние без активной команды.
func NewLevel() *Level {
	return &Level{
		ActiveTeam:    NoActiveTeam,
		Winner:        NoActiveTeam,
		ConfigStrings: make(map[string]string),
	}
}

// Running истинно, пока есть активная команда.
func (l *Level) Running() bool { return l.ActiveTeam != NoActiveTeam }

// AdvanceFrame увеличивает счетчик кадров и пересчитывает время.
func (l *Level) AdvanceFrame() {
	l.FrameNum++
	l.Time = float64(l.FrameNum) * FrameTime
}
