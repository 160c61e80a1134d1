package config

// Имена переменных, которые читает ядро симуляции.
const (
	MorPanic        = "mor_panic"
	MorShaken       = "mor_shaken"
	MorRegeneration = "mor_regeneration"
	MSanity         = "m_sanity"
	MRage           = "m_rage"
	MRageStop       = "m_rage_stop"
	MPanicStop      = "m_panic_stop"

	MobDeath      = "mob_death"
	MobWound      = "mob_wound"
	MofWatching   = "mof_watching"
	MofTeamkill   = "mof_teamkill"
	MofCivilian   = "mof_civilian"
	MofEnemy      = "mof_enemy"
	MorPain       = "mor_pain"
	MorDefault    = "mor_default"
	MorDistance   = "mor_distance"
	MorVictim     = "mor_victim"
	MorAttacker   = "mor_attacker"
	MonTeamfactor = "mon_teamfactor"

	GNoDamage = "g_nodamage"
	GNoTU     = "g_notu"
	GAIDebug  = "g_aidebug"

	SvMaxEntities    = "sv_maxentities"
	SvMaxTeams       = "sv_maxteams"
	SvMaxClients     = "sv_maxclients"
	SvRoundTimeLimit = "sv_roundtimelimit"
	SvEnableMorale   = "sv_enablemorale"
	SvFilterBan      = "sv_filterban"
	SvTeamplay       = "sv_teamplay"

	AINumAliens    = "ai_numaliens"
	AINumCivilians = "ai_numcivilians"
	AINumActors    = "ai_numactors"

	Difficulty = "difficulty"
	LogStats   = "logstats"
)

// Default описывает значение по умолчанию одной переменной.
type Default struct {
	Name        string
	Value       string
	Description string
}

// Defaults - полный список переменных сервера.
var Defaults = []Default{
	{MorPanic, "30", "Morale value below which an actor may panic or rage"},
	{MorShaken, "50", "Morale value below which an actor becomes shaken"},
	{MorRegeneration, "15", "Morale regenerated per round"},
	{MSanity, "1.0", "Sanity roll factor"},
	{MRage, "0.6", "Panic versus rage roll factor"},
	{MRageStop, "2.0", "Factor for leaving rage"},
	{MPanicStop, "1.0", "Factor for leaving panic"},

	{MobDeath, "10", "Morale damage for a death"},
	{MobWound, "0.1", "Morale damage per point of wound damage"},
	{MofWatching, "1.7", "Modifier when the event is seen"},
	{MofTeamkill, "2.0", "Modifier for teamkills"},
	{MofCivilian, "0.3", "Modifier for civilian victims"},
	{MofEnemy, "0.5", "Modifier for the attacker's team"},
	{MorPain, "3.6", "Modifier for the victim itself"},
	{MorDefault, "0.3", "Base distance modifier"},
	{MorDistance, "120", "Distance halving the morale effect"},
	{MorVictim, "0.7", "Weight of distance to the victim"},
	{MorAttacker, "0.3", "Weight of distance to the attacker"},
	{MonTeamfactor, "0.6", "How much team losses scale morale damage"},

	{GNoDamage, "0", "Disable all damage"},
	{GNoTU, "0", "Disable time unit costs"},
	{GAIDebug, "0", "Verbose AI decision logging, every team sees every edict"},

	{SvMaxEntities, "1024", "Entity arena capacity"},
	{SvMaxTeams, "2", "Maximum playing teams"},
	{SvMaxClients, "1", "Maximum connected clients, 1 means single-player"},
	{SvRoundTimeLimit, "0", "Seconds per round in multiplayer, 0 disables"},
	{SvEnableMorale, "1", "Enable morale for multiplayer teams"},
	{SvFilterBan, "1", "1 bans listed addresses, 0 allows only listed addresses"},
	{SvTeamplay, "0", "Human teams need every player ready to end a round"},

	{AINumAliens, "8", "Alien actors spawned per AI player"},
	{AINumCivilians, "8", "Civilian actors spawned per AI player"},
	{AINumActors, "8", "Actors spawned for an AI player on a human team"},

	{Difficulty, "0", "Single-player difficulty, -4..4"},
	{LogStats, "1", "Append [STATS] lines to the stats log"},
}
