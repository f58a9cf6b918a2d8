package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"truevalue/app/client/bayut"
	"truevalue/app/client/telegram"
	"truevalue/app/config"
	"truevalue/app/service/agent"
	"truevalue/app/service/conversation"
	"truevalue/app/service/engine"
	"truevalue/app/service/queue"
	"truevalue/app/service/transcribe"
	"truevalue/app/util/mylog"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, bayut.NewClient)
	do.Provide(di, telegram.NewClient)
	do.Provide(di, transcribe.New)
	do.Provide(di, conversation.New)
	do.Provide(di, agent.New)
	do.Provide(di, queue.New)
	do.Provide(di, engine.New)

	slog.Info("Service started")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	go do.MustInvoke[*conversation.Service](di).RunSweepLoop(appCtx)

	go do.MustInvoke[*engine.Service](di).Run(appCtx)

	<-appCtx.Done()
}
