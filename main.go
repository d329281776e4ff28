package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/labstack/echo/v4"
	"github.com/mihaipriboi/HackitAll2025/config"
	"github.com/mihaipriboi/HackitAll2025/db"
	"github.com/mihaipriboi/HackitAll2025/runner"
	"github.com/mihaipriboi/HackitAll2025/strategy"
	"github.com/mihaipriboi/HackitAll2025/web"
	"github.com/mihaipriboi/HackitAll2025/world"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	network, err := world.LoadNetwork(ctx, config.Config.DataDir())
	if err != nil {
		panic(err)
	}

	store, err := db.NewStore(ctx)
	if err != nil {
		panic(err)
	}
	defer store.Close()

	archive := config.Config.ArchiveClient()
	st := strategy.New(network, strategy.WithTotalHours(config.Config.TotalHours()))
	gameRunner := runner.New(
		config.Config.GameClient(),
		st,
		network,
		store,
		runner.WithPace(config.Config.Pace()),
		runner.WithTotalHours(config.Config.TotalHours()),
		runner.WithArchive(archive, config.Config.ArchiveBucket()),
	)
	manager := runner.NewManager(gameRunner)
	defer manager.Stop()

	e := echo.New()
	e.HideBanner = true
	e.Use(
		web.ErrorLogAndMaskMiddleware(slog.Default()),
		web.NoCacheOnErrorMiddleware(),
	)

	{
		group := e.Group("/api", web.DefaultNoCacheMiddleware())

		statusHandler := web.NewStatusHandler(gameRunner, network)
		group.GET("/status", statusHandler.Status)
		group.GET("/airports", statusHandler.Airports)

		reportHandler := web.NewReportHandler(store)
		group.GET("/costs", reportHandler.Costs)
		group.GET("/penalties", reportHandler.Penalties)
		group.GET("/totals", reportHandler.Totals)
		group.GET("/penalties/feed.rss", web.NewPenaltyFeedEndpoint(store, "application/rss+xml", web.RSSFeedWriter()))
		group.GET("/penalties/feed.atom", web.NewPenaltyFeedEndpoint(store, "application/atom+xml", web.AtomFeedWriter()))

		archiveHandler := web.NewArchiveHandler(archive, config.Config.ArchiveBucket())
		group.GET("/reports/:sessionId", archiveHandler.Report)

		strategyHandler := web.NewStrategyHandler(st)
		group.GET("/strategy/params", strategyHandler.Params)
		group.PUT("/strategy/params", strategyHandler.UpdateParams)

		runHandler := web.NewRunHandler(ctx, manager)
		group.POST("/run", runHandler.Start)
		group.POST("/stop", runHandler.Stop)
	}

	if os.Getenv("ROTABLES_AUTORUN") == "1" {
		if err := manager.Start(ctx); err != nil {
			panic(err)
		}
	}

	if err := serve(ctx, e); err != nil {
		panic(err)
	}
}

func serve(ctx context.Context, e *echo.Echo) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-ctx.Done()
		if err := e.Shutdown(context.Background()); err != nil {
			slog.Error("error shutting down the echo server", slog.String("err", err.Error()))
		}
	}()

	if err := e.Start(fmt.Sprintf(":%d", config.Config.EchoPort())); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	}

	return nil
}
