package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cbodonnell/epochwars/pkg/api"
	"github.com/cbodonnell/epochwars/pkg/config"
	"github.com/cbodonnell/epochwars/pkg/log"
	"github.com/cbodonnell/epochwars/pkg/servers"
	"github.com/cbodonnell/epochwars/pkg/version"
)

func main() {
	listen := flag.String("listen", config.DefaultAddress, "Address to listen on")
	games := flag.String("games", config.GetEnv("EPOCHWARS_GAME_SERVERS", ""), "Comma-separated list of game server addresses to hand out")
	httpAddr := flag.String("http", config.GetEnv("EPOCHWARS_LOCATOR_HTTP", ""), "Address for the HTTP status API (disabled if empty)")
	logLevel := flag.String("log-level", config.GetEnv("EPOCHWARS_LOG_LEVEL", config.DefaultLogLevel), "Log level")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting session locator version %s", version.Get())

	var addrs []string
	for _, addr := range strings.Split(*games, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			addrs = append(addrs, addr)
		}
	}
	locator, err := servers.NewLocatorServer(addrs)
	if err != nil {
		panic(fmt.Sprintf("Failed to create session locator: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *httpAddr != "" {
		apiServer := api.NewAPIServer(api.NewAPIServerOptions{
			Address: *httpAddr,
			Locator: locator,
		})
		go apiServer.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := apiServer.Stop(shutdownCtx); err != nil {
				log.Error("Failed to stop API server: %v", err)
			}
		}()
	}

	if err := locator.ListenAndServe(ctx, *listen); err != nil {
		log.Error("Session locator stopped: %v", err)
		stop()
		os.Exit(1)
	}
	log.Info("Session locator stopped")
}
