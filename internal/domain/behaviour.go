package domain

// BehaviourKind - закрытый набор поведений эдиктов.
// Вместо указателей на функции think/use/touch/reset эдикт хранит тег,
// а системы диспатчат по нему через switch.
type BehaviourKind uint8

const (
	BehaviourNone BehaviourKind = iota
	BehaviourDoor
	BehaviourBreakable
	BehaviourTrigger
	BehaviourTimedStep
)

func (k BehaviourKind) String() string {
	switch k {
	case BehaviourDoor:
		return "door"
	case BehaviourBreakable:
		return "breakable"
	case BehaviourTrigger:
		return "trigger"
	case BehaviourTimedStep:
		return "timed_step"
	}
	return "none"
}

// HasThink - есть ли у поведения think-колбэк.
func (k BehaviourKind) HasThink() bool { return k == BehaviourTimedStep || k == BehaviourDoor }

// HasUse - можно ли "использовать" эдикт.
func (k BehaviourKind) HasUse() bool { return k == BehaviourDoor || k == BehaviourTrigger }

// HasTouch - реагирует ли эдикт на касание.
func (k BehaviourKind) HasTouch() bool { return k == BehaviourTrigger || k == BehaviourDoor }

// HasReset - вызывается ли reset при выходе из объема.
func (k BehaviourKind) HasReset() bool { return k == BehaviourTrigger }

// DoorState - состояние двери.
type DoorState struct {
	Open bool `json:"open"`
	// Offset - сдвиг коробки двери в открытом состоянии.
	Offset Vec3 `json:"offset"`
	// AutoClose - через сколько секунд think закроет открытую дверь (0 = никогда).
	AutoClose float64 `json:"autoClose"`
}

// TriggerSpec - параметры объема-триггера.
type TriggerSpec struct {
	// OneShot: срабатывает один раз для каждого вошедшего, пока тот не выйдет.
	OneShot bool `json:"oneShot"`
	// Owner - номер эдикта, который триггер "обслуживает" (например, дверь).
	Owner int `json:"owner"`
	// Fired - сколько раз сработал touch.
	Fired int `json:"fired"`
	// Resets - сколько раз сработал reset.
	Resets int `json:"resets"`
}

// TimedStep - очередь отложенных шагов движения.
type TimedStep struct {
	Steps  []GridPos `json:"steps"`
	Cursor int       `json:"cursor"`
	Sound  string    `json:"sound,omitempty"`
}

// Pending возвращает, остались ли несделанные шаги.
func (m *TimedStep) Pending() bool { return m.Cursor < len(m.Steps) }

// Behaviour - данные поведения; актуальна только часть, соответствующая Kind.
type Behaviour struct {
	Kind    BehaviourKind `json:"kind"`
	Door    DoorState     `json:"door"`
	Trigger TriggerSpec   `json:"trigger"`
	Step    TimedStep     `json:"step"`
}
