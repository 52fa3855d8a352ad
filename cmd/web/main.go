// Package main provides the entry point for the Bunny Bakes web server
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bunnybakes/v1/internal/infrastructure/container"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		fx.NopLogger, // Use our own logger instead of Fx's

		container.Module,

		fx.Invoke(func() {
			fmt.Println(`
  ____                          ____        _
 | __ ) _   _ _ __  _ __  _   _| __ )  __ _| | _____  ___
 |  _ \| | | | '_ \| '_ \| | | |  _ \ / _' | |/ / _ \/ __|
 | |_) | |_| | | | | | | | |_| | |_) | (_| |   <  __/\__ \
 |____/ \__,_|_| |_|_| |_|\__, |____/ \__,_|_|\_\___||___/
                          |___/        (\(\  baking magic
                                       ( -.-)
                                       o_(")(")
			`)
		}),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	<-ctx.Done()

	fmt.Println("\nShutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := app.Stop(shutdownCtx); err != nil {
		log.Fatalf("Failed to stop application gracefully: %v", err)
	}

	fmt.Println("Application stopped successfully")
}
