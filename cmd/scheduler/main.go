package main

import (
	"flag"

	"go-hrops/internal/app"
	"go-hrops/internal/bootstrap"
	"go-hrops/internal/config"
	"go-hrops/internal/shared/apperror"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	once := flag.Bool("once", false, "run the annual rollover now and exit")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := bootstrap.NewLogger(cfg.IsProduction())
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	apperror.Init()

	if err := app.RunScheduler(cfg, *once); err != nil {
		logger.Fatal("run scheduler failed", zap.Error(err))
	}
}
