// Tails concierge turn events off NATS. Useful when wiring a presentation
// front-end: run it next to the server and watch turns stream by.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ai-concierge-be/pkg/events"
	pktNats "ai-concierge-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	sub, err := pktNats.NewSubscriber(natsURL)
	if err != nil {
		color.Red("Failed to connect to NATS: %v", err)
		os.Exit(1)
	}
	defer sub.Close()

	err = sub.Subscribe("events."+events.TypeConciergeTurn, "event-tail", func(ctx context.Context, event events.Event) error {
		pretty, _ := json.MarshalIndent(event.Payload(), "", "  ")
		color.Cyan("— %s", event.EventType())
		color.White("%s", pretty)
		return nil
	})
	if err != nil {
		color.Red("Failed to subscribe: %v", err)
		os.Exit(1)
	}

	color.Green("Listening for concierge turns. Ctrl-C to stop.")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}
