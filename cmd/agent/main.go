package main

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"food-order-assistant/config"
	"food-order-assistant/internal/agent"
	"food-order-assistant/internal/logger"
)

func main() {
	logCfg := config.MustLoad[logger.Config]("LOG")
	logger.Init(*logCfg)

	agentCfg := config.MustLoad[agent.Config]("AGENT")

	cartID := agentCfg.CartID
	if cartID == "" {
		cartID = newSessionID()
	}

	a, err := agent.New(*agentCfg, cartID)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize agent")
	}
	if err := a.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start session")
	}

	fmt.Printf("Using cart: %s\n", cartID)
	fmt.Println("Type your request (e.g. 'Show biryani places in Guindy', 'Add 2 Chicken Biryani', 'Checkout').")
	fmt.Println("Ctrl+D to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		user := strings.TrimSpace(scanner.Text())
		if user == "" {
			continue
		}

		reply, err := a.Turn(context.Background(), user)
		if err != nil {
			log.Error().Err(err).Msg("turn failed")
			continue
		}
		fmt.Printf("\nAssistant: %s\n\n", reply)
	}
	fmt.Println("\nGoodbye!")
}

func newSessionID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("session-%d", os.Getpid())
	}
	return "session-" + hex.EncodeToString(b[:])
}
