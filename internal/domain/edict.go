package domain

// AIBackend - какой "мозг" управляет актором.
// Выбирается при спавне и больше не меняется.
type AIBackend uint8

const (
	AIHeuristic AIBackend = iota
	AIScripted
)

func (b AIBackend) String() string {
	if b == AIScripted {
		return "scripted"
	}
	return "heuristic"
}

// Edict - объект поля боя: актор, дверь, триггер, предметы на полу, мир.
//
// Number равен слоту арены и не меняется, пока InUse. После освобождения
// все поля обнулены, Generation увеличена.
type Edict struct {
	InUse      bool       `json:"inuse"`
	Number     int        `json:"number"`
	Generation uint16     `json:"generation"`
	Type       EntityType `json:"type"`
	Solid      Solid      `json:"solid"`
	Linked     bool       `json:"linked"`

	Pos    GridPos `json:"pos"`
	Origin Vec3    `json:"origin"`
	Mins   Vec3    `json:"mins"`
	Maxs   Vec3    `json:"maxs"`
	Dir    int     `json:"dir"`

	Team     Team   `json:"team"`
	PNum     int    `json:"pnum"`     // слот игрока-владельца
	VisFlags uint32 `json:"visflags"` // биты команд, которые видят эдикт

	HP     int   `json:"hp"`
	STUN   int   `json:"stun"`
	TU     int   `json:"tu"`
	Morale int   `json:"morale"`
	State  State `json:"state"`

	Chr Character `json:"chr"`
	Inv Inventory `json:"inv"`

	AIBackend AIBackend `json:"aiBackend"`
	AIType    string    `json:"aiType,omitempty"`

	Behaviour Behaviour `json:"behaviour"`
	NextThink float64   `json:"nextthink"`

	// GroupMaster - номер главного эдикта группы (-1 или свой номер для мастера).
	GroupMaster int `json:"groupMaster"`
	// GroupMembers заполнен только у мастера.
	GroupMembers []int `json:"groupMembers,omitempty"`

	// Touched - кто сейчас стоит в объеме триггера (номера эдиктов).
	Touched []int `json:"touched,omitempty"`
	// ClientAction - номер двери/объекта, который актор может использовать (0 - нет).
	ClientAction int `json:"clientAction,omitempty"`

	Name       string `json:"name,omitempty"`
	TargetName string `json:"targetname,omitempty"`
	Target     string `json:"target,omitempty"`
	Model      string `json:"model,omitempty"`
	Particle   string `json:"particle,omitempty"`
}

// AbsBox - коробка эдикта в мировых координатах.
func (e *Edict) AbsBox() AABB {
	return AABB{Mins: e.Origin.Add(e.Mins), Maxs: e.Origin.Add(e.Maxs)}
}

// IsLivingActor - актор, который не мертв и не оглушен.
func (e *Edict) IsLivingActor() bool {
	return e.Type.IsActor() && !e.State.IsDead()
}

// SetBox задает mins/maxs.
func (e *Edict) SetBox(mins, maxs Vec3) {
	e.Mins = mins
	e.Maxs = maxs
}

// SetPos ставит эдикт в клетку и пересчитывает мировые координаты.
func (e *Edict) SetPos(p GridPos) {
	e.Pos = p
	e.Origin = p.ToWorld()
}

// IsGroupMaster истинно для мастера группы или одиночного эдикта.
func (e *Edict) IsGroupMaster() bool {
	return e.GroupMaster < 0 || e.GroupMaster == e.Number
}

// HasTouched проверяет, записан ли эдикт в список касаний триггера.
func (e *Edict) HasTouched(number int) bool {
	for _, n := range e.Touched {
		if n == number {
			return true
		}
	}
	return false
}

// AddTouched записывает касание (без дубликатов).
func (e *Edict) AddTouched(number int) {
	if !e.HasTouched(number) {
		e.Touched = append(e.Touched, number)
	}
}

// RemoveTouched удаляет запись касания.
func (e *Edict) RemoveTouched(number int) {
	for i, n := range e.Touched {
		if n == number {
			e.Touched = append(e.Touched[:i], e.Touched[i+1:]...)
			return
		}
	}
}

// ClampStats удерживает HP/STUN/TU/морали в допустимых границах.
func (e *Edict) ClampStats() {
	if e.TU < 0 {
		e.TU = 0
	}
	if e.HP < 0 {
		e.HP = 0
	}
	if e.STUN < 0 {
		e.STUN = 0
	}
	if e.STUN > 255 {
		e.STUN = 255
	}
	if e.Morale < 0 {
		e.Morale = 0
	}
}
