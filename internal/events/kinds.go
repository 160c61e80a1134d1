package events

// Kind - тип сетевого события.
type Kind uint8

const (
	EvNull Kind = iota
	EvReset
	EvStart
	EvEndRound
	EvResults
	EvCenterView
	EvPrint
	EvConfigString

	EvEntAppear
	EvEntPerish
	EvEntDestroy

	EvActorAppear
	EvActorMove
	EvActorTurn
	EvActorShoot
	EvActorDie
	EvActorStats
	EvActorStateChange

	EvInvAdd
	EvInvDel

	EvModelExplode
	EvDoorOpen
	EvDoorClose
	EvSound
)

var kindNames = [...]string{
	EvNull:             "EV_NULL",
	EvReset:            "EV_RESET",
	EvStart:            "EV_START",
	EvEndRound:         "EV_ENDROUND",
	EvResults:          "EV_RESULTS",
	EvCenterView:       "EV_CENTERVIEW",
	EvPrint:            "EV_PRINT",
	EvConfigString:     "EV_CONFIGSTRING",
	EvEntAppear:        "EV_ENT_APPEAR",
	EvEntPerish:        "EV_ENT_PERISH",
	EvEntDestroy:       "EV_ENT_DESTROY",
	EvActorAppear:      "EV_ACTOR_APPEAR",
	EvActorMove:        "EV_ACTOR_MOVE",
	EvActorTurn:        "EV_ACTOR_TURN",
	EvActorShoot:       "EV_ACTOR_SHOOT",
	EvActorDie:         "EV_ACTOR_DIE",
	EvActorStats:       "EV_ACTOR_STATS",
	EvActorStateChange: "EV_ACTOR_STATECHANGE",
	EvInvAdd:           "EV_INV_ADD",
	EvInvDel:           "EV_INV_DEL",
	EvModelExplode:     "EV_MODEL_EXPLODE",
	EvDoorOpen:         "EV_DOOR_OPEN",
	EvDoorClose:        "EV_DOOR_CLOSE",
	EvSound:            "EV_SOUND",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "EV_UNKNOWN"
}

// PrintLevel - куда клиент выводит EV_PRINT.
type PrintLevel uint8

const (
	PrintConsole PrintLevel = iota
	PrintHUD
	PrintChat
)
