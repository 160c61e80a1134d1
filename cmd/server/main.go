package main

import (
	"battlescape-server/internal/agent"
	"battlescape-server/internal/ai"
	"battlescape-server/internal/config"
	"battlescape-server/internal/domain"
	"battlescape-server/internal/engine"
	"battlescape-server/internal/filter"
	"battlescape-server/internal/infrastructure/storage"
	"battlescape-server/internal/server"
	"battlescape-server/internal/sim"
	"battlescape-server/internal/version"
	"battlescape-server/pkg/logger"
	"battlescape-server/pkg/utils"
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

const envPrefix = "BS_"

func main() {
	// .env до логгера: LOG_LEVEL может прийти оттуда
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}
	logger.Init()

	// 1. Парсинг конфигурации
	var (
		seed       int64
		replayPath string
		configPath string
		matchName  string
		bots       int
	)
	// Читаем флаг -seed. По умолчанию 0 (значит сгенерировать случайно).
	flag.Int64Var(&seed, "seed", 0, "Battlefield master seed (0 for random)")
	flag.StringVar(&replayPath, "replay", "", "Path to .bsr results file to print")
	flag.StringVar(&configPath, "config", "", "Path to server.yaml")
	flag.StringVar(&matchName, "match", "", "Match name; derives the seed when -seed is not set")
	flag.IntVar(&bots, "bots", -1, "Number of headless bots to join (-1 = from config)")
	flag.Parse()

	logger.Log.Info("Starting battlescape server...")
	logger.Log.Info(version.String())

	// РЕЖИМ ПРОСМОТРА ИТОГОВ
	if replayPath != "" {
		if err := printResults(replayPath); err != nil {
			logger.Log.Fatal("Failed to read results: ", err)
		}
		return
	}

	cvars := config.New()
	cfg := engine.NewConfig()
	if configPath != "" {
		section, err := cvars.LoadFile(configPath)
		if err != nil {
			logger.Log.Fatal(err)
		}
		cfg.Apply(section)
	}
	if n := cvars.ApplyEnv(envPrefix); n > 0 {
		logger.Log.Infof("Applied %d cvars from environment", n)
	}
	if port := os.Getenv(envPrefix + "PORT"); port != "" {
		cfg.Port = port
	}
	if seed == 0 && matchName != "" {
		seed = utils.StringToSeed(matchName)
	}
	if seed != 0 {
		cfg.Seed = seed
		logger.Log.Infof("Using explicit master seed: %d", seed)
	} else {
		logger.Log.Infof("Using master seed: %d", cfg.Seed)
	}
	if bots >= 0 {
		cfg.Bots = bots
	}

	// 2. IP-фильтр
	ipFilter := filter.New()
	ban, err := ipFilter.LoadFile(cfg.IPFile)
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to load ip list")
	}
	if ban >= 0 {
		cvars.SetInt(config.SvFilterBan, ban)
	}

	// 3. Lua AI
	var scripted *ai.Scripted
	if cfg.AIManifest != "" {
		m, err := ai.LoadManifest(cfg.AIManifest)
		if err != nil {
			logger.Log.Fatal(err)
		}
		scripted = ai.NewScripted(ai.Heuristic{})
		if err := scripted.LoadManifest(m); err != nil {
			logger.Log.Fatal(err)
		}
		defer scripted.Close()
		logger.Log.Infof("Loaded AI scripts: %v", scripted.Types())
	}

	// 4. Инициализация ядра с конфигом
	statsLog := storage.NewStatsLog(cfg.StatsLog)
	defer statsLog.Close()

	gameService, err := engine.NewService(cfg, engine.ServiceOptions{
		Cvars:    cvars,
		Console:  sim.NewLogConsole(),
		Stats:    statsLog,
		Scripted: scripted,
		Filter:   ipFilter,
		Results:  storage.NewResultsService(cfg.ResultsDir),
	})
	if err != nil {
		logger.Log.Fatal("Failed to create game: ", err)
	}

	// Graceful Shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	gameService.Start(ctx)

	for i := 0; i < cfg.Bots; i++ {
		team := domain.Team(i%max(cvars.Int(config.SvMaxTeams), 1) + 1)
		bot, err := agent.NewBot(ctx, fmt.Sprintf("bot%d", i+1), team, gameService)
		if err != nil {
			logger.Log.WithError(err).Warn("Bot not started")
			continue
		}
		go bot.Run(ctx)
	}

	go readConsole(gameService)

	// 5. Запуск сервера
	srv := server.New(gameService, ipFilter, cvars, cfg.Port)
	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatal("Server start error: ", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Log.Info("Shutting down...")
	case <-gameService.Done():
		if path := gameService.ResultsPath(); path != "" {
			logger.Log.Infof("Match finished, results written to %s", path)
		} else {
			logger.Log.Info("Match finished")
		}
	}
	logger.Log.Info("Done.")
}

// readConsole передает строки stdin в серверную консоль.
func readConsole(s *engine.GameService) {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		s.Console(sc.Text())
	}
}

func printResults(path string) error {
	rec, err := storage.NewResultsService(os.TempDir()).Load(path)
	if err != nil {
		return err
	}
	r, err := engine.DecodeResults(rec.Payload)
	if err != nil {
		return err
	}

	fmt.Printf("seed %d, winner team %d\n", rec.Seed, r.Winner)
	for t := 0; t < domain.MaxTeams; t++ {
		if r.Spawned[t] == 0 {
			continue
		}
		fmt.Printf("team %d: spawned %d, alive %d, kills %v, stuns %v\n",
			t, r.Spawned[t], r.Alive[t], r.Kills[t], r.Stuns[t])
	}
	for _, s := range r.Survivors {
		fmt.Printf("  ucn %d: hp %d, morale %d, rank %d, skills %v, kills %v\n",
			s.UCN, s.HP, s.Morale, s.Rank, s.Skills, s.Kills)
	}
	return nil
}
