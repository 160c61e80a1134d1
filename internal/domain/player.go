package domain

// Player - слот контроллера команды (человек или AI).
type Player struct {
	Num   int    `json:"num"`
	InUse bool   `json:"inuse"`
	Name  string `json:"name"`
	Team  Team   `json:"team"`
	AI    bool   `json:"ai"`
	Ready bool   `json:"ready"`
	IP    string `json:"ip,omitempty"`

	// LastThink - последний актор, обработанный AI (для продолжения цикла).
	LastThink int `json:"-"`
}

// MaxPlayers - размер массива игроков: люди и AI делят слоты.
// Бит маски игрока равен 1<<Num, поэтому слотов не больше 32.
const MaxPlayers = 16

// PlayerMask - битовая маска по слотам игроков.
type PlayerMask uint32

// PMAll - все слоты.
const PMAll PlayerMask = 0xFFFFFFFF

// Has проверяет бит слота.
func (m PlayerMask) Has(num int) bool {
	return num >= 0 && num < 32 && m&(1<<uint(num)) != 0
}

// PlayerBit возвращает маску одного слота.
func PlayerBit(num int) PlayerMask {
	if num < 0 || num >= 32 {
		return 0
	}
	return 1 << uint(num)
}
