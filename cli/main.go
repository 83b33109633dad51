// Command cli is an interactive client for the completion websocket.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
)

func main() {
	addr := flag.String("addr", "http://localhost:8080", "API base URL")
	email := flag.String("email", "admin@example.com", "account email")
	password := flag.String("password", os.Getenv("GENALIMA_PASSWORD"), "account password (default $GENALIMA_PASSWORD)")
	templateID := flag.String("template", "default", "template id used when no chat is given")
	chatID := flag.String("chat", "", "chat id; replies are stored in the chat")
	flag.Parse()

	log.SetFlags(log.Ltime)

	client := NewClient(*addr)
	if err := client.Login(*email, *password); err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	fmt.Printf("Connecting to %s...\n", client.WebsocketURL())
	if err := client.Connect(); err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer client.Close()

	fmt.Println("Connected. Type a message and press Enter to send.")
	fmt.Println("Commands: /quit to exit")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		fmt.Println("\nInterrupted")
		client.Close()
		os.Exit(0)
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/quit" {
			fmt.Println("Bye!")
			return
		}

		frame, err := client.Ask(input, *templateID, *chatID)
		if err != nil {
			log.Printf("Request failed: %v", err)
			return
		}
		fmt.Println(Render(frame))
	}
}
