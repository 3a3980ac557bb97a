package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/wordseek/seekengine/cache"
	"github.com/wordseek/seekengine/config"
	"github.com/wordseek/seekengine/daily"
	"github.com/wordseek/seekengine/game"
	"github.com/wordseek/seekengine/models"
	"github.com/wordseek/seekengine/routes"
	"github.com/wordseek/seekengine/utils"
	"github.com/wordseek/seekengine/words"
)

func main() {
	issueToken := flag.String("issue-token", "", "print a service token for the named chat adapter and exit")
	tokenTTL := flag.Duration("token-ttl", 365*24*time.Hour, "validity of a token printed by -issue-token")
	flag.Parse()

	cfg := config.Load()

	if *issueToken != "" {
		token, err := utils.GenerateToken(cfg.JWTSecret, *issueToken, *tokenTTL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "issue token: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	// Initialize logger early
	log, err := utils.InitLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := config.InitDatabase(models.All()...)
	kv := cache.Open(ctx, utils.GetRedis(), log)

	corpus, err := words.Load(cfg.CorpusPath)
	if err != nil {
		log.Fatal("load corpus", zap.Error(err))
	}
	log.Info("corpus loaded", zap.Int("words", corpus.Len()))

	store := game.NewSessionStore(db, cfg.RecentWindow)
	selector := game.NewSelector(db, corpus, cfg.RecentWindow)
	games := game.NewEngine(store, selector, corpus, kv, game.Rules{
		MaxGuesses: cfg.MaxGuesses,
		ScoreBase:  cfg.ScoreBase,
		HintAfter:  cfg.HintAfter,
	}, log.Named("game"))
	authority := game.NewAuthority(db, store, kv, cfg.AdminUsers, cfg.VoteQuorum,
		time.Duration(cfg.VoteTTLSeconds)*time.Second, log.Named("authority"))

	cal, err := daily.NewCalendar(cfg.DailyTimezone, cfg.DailyCutoverHour, cfg.DailyStartDate)
	if err != nil {
		log.Fatal("daily calendar", zap.Error(err))
	}
	enrichTimeout := time.Duration(cfg.EnrichTimeoutMillis) * time.Millisecond
	var enricher daily.Enricher
	if cfg.EnrichURL != "" {
		enricher = daily.NewHTTPEnricher(daily.EnricherConfig{
			Endpoint:     cfg.EnrichURL,
			TokenURL:     cfg.EnrichTokenURL,
			ClientID:     cfg.EnrichClientID,
			ClientSecret: cfg.EnrichClientSecret,
			Timeout:      enrichTimeout,
		})
	}
	dailyEngine := daily.NewEngine(db, corpus, cal, kv, games, enricher, daily.Options{
		Secret:        cfg.DailySecret,
		MaxAttempts:   cfg.DailyMaxAttempts,
		EnrichTimeout: enrichTimeout,
	}, log.Named("daily"))

	utils.StartPuzzleWarmer(ctx, time.Duration(cfg.DailyWarmMinutes)*time.Minute, func(ctx context.Context) error {
		_, err := dailyEngine.EnsurePuzzle(ctx, dailyEngine.Today())
		return err
	})

	r := routes.SetupRouter(routes.Deps{
		Config:    cfg,
		Games:     games,
		Authority: authority,
		Daily:     dailyEngine,
		Log:       log,
	})

	log.Info("starting server", zap.String("port", cfg.AppPort))
	err = utils.GraceServer(ctx, ":"+cfg.AppPort, r, func() {
		if rdb := utils.GetRedis(); rdb != nil {
			_ = rdb.Close()
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err != nil {
		log.Fatal("server stopped with error", zap.Error(err))
	}
}
