package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kamdyne/embednav/internal/core"
	"github.com/kamdyne/embednav/internal/logger"
	"github.com/kamdyne/embednav/internal/messenger"
	"github.com/kamdyne/embednav/internal/router"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configFile string

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the embednav engine",
		Long:  "Connect to Discord, register commands, and serve interactive embed widgets",
		Run: func(cmd *cobra.Command, args []string) {
			// Optional .env next to the working directory; absence is fine.
			_ = godotenv.Load()

			config, err := core.LoadConfig(configFile)
			if err != nil {
				log.Fatalf("Failed to load config: %v", err)
			}

			fmt.Printf("Starting embednav with config: %s\n", configFile)
			fmt.Printf("Command prefix: %s\n", config.CommandPrefix)
			fmt.Printf("Whitelist enabled: %v\n", config.Security.WhitelistEnabled)

			logConfig := logger.Config{
				Level:        config.Logging.Level,
				File:         config.Logging.File,
				MaxSize:      config.Logging.MaxSize,
				MaxBackups:   config.Logging.MaxBackups,
				MaxAge:       config.Logging.MaxAge,
				Compress:     config.Logging.Compress,
				EnableStdout: config.Logging.EnableStdout,
			}
			if err := logger.InitLogger(logConfig); err != nil {
				log.Fatalf("Failed to initialize logger: %v", err)
			}

			logger.WithFields(logrus.Fields{
				"config_file": configFile,
				"log_level":   config.Logging.Level,
			}).Info("Logger initialized")

			conn := messenger.NewDiscordMessenger(config.Discord.Token)
			engine, err := core.NewEngine(config, conn)
			if err != nil {
				log.Fatalf("Failed to create engine: %v", err)
			}

			registerBuiltins(engine)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

			engineErrChan := make(chan error, 1)
			go func() {
				engineErrChan <- engine.Run(ctx)
			}()

			select {
			case sig := <-sigChan:
				logger.WithField("signal", sig.String()).Info("received-shutdown-signal")
				cancel()
				if err := <-engineErrChan; err != nil {
					log.Fatalf("Engine shutdown failed: %v", err)
				}
			case err := <-engineErrChan:
				if err != nil {
					log.Fatalf("Engine failed: %v", err)
				}
			}
		},
	}
)

// registerBuiltins wires the demonstration commands shipped with the CLI.
// Library consumers register their own responders against Engine.Registry.
func registerBuiltins(engine *core.Engine) {
	err := engine.Registry().Register("about", router.Static(&messenger.Renderable{
		Title:       "embednav",
		Description: "Reaction-driven pagination and selection widgets.",
	}))
	if err != nil {
		log.Fatalf("Failed to register about command: %v", err)
	}
}

func init() {
	startCmd.Flags().StringVarP(&configFile, "config", "c", "config.yaml", "Configuration file path")
}
