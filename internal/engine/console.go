package engine

import (
	"battlescape-server/internal/config"
	"battlescape-server/internal/domain"
	"battlescape-server/internal/filter"
	"battlescape-server/internal/systems"
	"battlescape-server/pkg/logger"
	"errors"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// consoleCmd - обработчик серверной команды. args[0] - имя команды.
type consoleCmd func(g *Game, args []string)

var consoleCommands map[string]consoleCmd

func init() {
	consoleCommands = map[string]consoleCmd{
		"startgame": cmdStartGame,
		"addip":     cmdAddIP,
		"removeip":  cmdRemoveIP,
		"listip":    cmdListIP,
		"writeip":   cmdWriteIP,
		"ai_add":    cmdAIAdd,
		"win":       cmdWin,
		"set":       cmdSet,
		"stunteam":  cmdStunTeam,
	}
}

// ServerCommand выполняет строку серверной консоли.
func (g *Game) ServerCommand(line string) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return
	}
	// "sv addip ..." из listip.cfg
	if args[0] == "sv" && len(args) > 1 {
		args = args[1:]
	}

	logger.Component("console").WithFields(logrus.Fields{
		"cmd":  args[0],
		"args": len(args) - 1,
	}).Debug("Server command")

	cmd, ok := consoleCommands[strings.ToLower(args[0])]
	if !ok {
		g.ctx.Console.Printf("Unknown server command \"%s\"\n", args[0])
		return
	}
	cmd(g, args)
}

func (g *Game) printf(format string, args ...any) {
	g.ctx.Console.Printf(format+"\n", args...)
}

func cmdStartGame(g *Game, _ []string) {
	g.StartGame()
}

func cmdAddIP(g *Game, args []string) {
	if len(args) < 2 {
		g.printf("Usage: addip <ip-mask>")
		return
	}
	err := g.filter.Add(args[1])
	switch {
	case errors.Is(err, filter.ErrFull):
		g.printf("IP filter list is full")
	case err != nil:
		g.printf("Bad filter address: %s", args[1])
	}
}

func cmdRemoveIP(g *Game, args []string) {
	if len(args) < 2 {
		g.printf("Usage: sv removeip <ip-mask>")
		return
	}
	removed, err := g.filter.Remove(args[1])
	switch {
	case err != nil:
		g.printf("Bad filter address: %s", args[1])
	case removed:
		g.printf("Removed.")
	default:
		g.printf("Didn't find %s.", args[1])
	}
}

func cmdListIP(g *Game, _ []string) {
	g.printf("Filter list:")
	for _, m := range g.filter.List() {
		g.printf("%s", m)
	}
}

func cmdWriteIP(g *Game, _ []string) {
	path := g.cfg.IPFile
	if path == "" {
		path = "listip.cfg"
	}
	g.printf("Writing %s.", path)
	if err := g.filter.WriteFile(path, g.ctx.Cfg.Int(config.SvFilterBan)); err != nil {
		g.printf("Couldn't open %s", path)
		g.log.WithError(err).Warn("Failed to write ip list")
	}
}

func cmdAIAdd(g *Game, args []string) {
	if len(args) < 2 {
		g.printf("Usage: ai_add <teamnum>")
		return
	}
	team, err := strconv.Atoi(args[1])
	if err != nil || team <= 0 || team >= domain.MaxTeams {
		g.printf("Bad team number.")
		return
	}
	if _, err := g.AddAIPlayer(domain.Team(team)); err != nil {
		g.printf("Couldn't create AI player: %v", err)
	}
}

func cmdWin(g *Game, args []string) {
	if len(args) < 2 {
		g.printf("Usage: win <teamnum>")
		return
	}
	team, err := strconv.Atoi(args[1])
	if err != nil || team <= 0 || team >= domain.MaxTeams {
		g.printf("Bad team number.")
		return
	}
	g.EndGame(domain.Team(team))
}

func cmdSet(g *Game, args []string) {
	if len(args) < 3 {
		g.printf("Usage: set <cvar> <value>")
		return
	}
	v := g.ctx.Cfg.Set(args[1], strings.Join(args[2:], " "))
	g.printf("%s = \"%s\"", v.Name, v.String())
}

// cmdStunTeam - отладка: оглушает команду из аргумента или активную.
func cmdStunTeam(g *Game, args []string) {
	team := g.ctx.Level.ActiveTeam
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 || n >= domain.MaxTeams {
			g.printf("Bad team number.")
			return
		}
		team = domain.Team(n)
	}
	if !team.Valid() {
		g.printf("Usage: stunteam [teamnum]")
		return
	}
	n := systems.StunTeam(g.ctx, team)
	g.printf("Stunned %d actors of team %d.", n, team)
}
