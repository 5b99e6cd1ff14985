// Command lynva-mock-api serves a seeded in-memory backend for local
// development and demos of lynva-tui.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/lynva/lynva-tui/pkg/mockapi"
)

func main() {
	var (
		port    int
		anonKey string
		empty   bool
		quiet   bool
	)

	flag.IntVar(&port, "port", 54321, "Port to listen on")
	flag.StringVar(&anonKey, "anon-key", mockapi.DefaultAnonKey, "API key clients must send")
	flag.BoolVar(&empty, "empty", false, "Start with the owner account but no records")
	flag.BoolVar(&quiet, "quiet", false, "Do not log requests")
	flag.Parse()

	state := mockapi.NewState()
	if empty {
		state = mockapi.NewEmptyState()
		state.AddAccount(mockapi.Account{
			Email:      mockapi.DefaultEmail,
			Password:   mockapi.DefaultPassword,
			BusinessID: mockapi.SeedBusinessID,
		})
	}

	handler := mockapi.NewServer(state, anonKey)
	if !quiet {
		handler.Logf = log.Printf
	}

	log.Printf("Starting mock server on :%d", port)
	log.Printf("Sign in as %s / %s with anon key %q", mockapi.DefaultEmail, mockapi.DefaultPassword, anonKey)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
