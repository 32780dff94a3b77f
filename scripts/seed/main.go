// Package main implements a standalone seed script that populates a running
// portal server with demo accounts through its HTTP API, then verifies the
// result through the admin listing when admin credentials are provided.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/Ashiksyedmuhammad/React-User-Management/client"
	apperrors "github.com/Ashiksyedmuhammad/React-User-Management/pkg/errors"
	"github.com/Ashiksyedmuhammad/React-User-Management/pkg/httpclient"
	"github.com/Ashiksyedmuhammad/React-User-Management/pkg/logger"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type demoUser struct {
	name     string
	email    string
	password string
}

var demoUsers = []demoUser{
	{"Alice Johnson", "alice@example.com", "alice-pass-1"},
	{"Bob Martinez", "bob@example.com", "bob-pass-1"},
	{"Carol White", "carol@example.com", "carol-pass-1"},
	{"David Kim", "david@example.com", "david-pass-1"},
	{"Erin O'Brien", "erin@example.com", "erin-pass-1"},
	{"Frank Zhang", "frank@example.com", "frank-pass-1"},
	{"Grace Okafor", "grace@example.com", "grace-pass-1"},
	{"Hector Alvarez", "hector@example.com", "hector-pass-1"},
	{"Ines Ferreira", "ines@example.com", "ines-pass-1"},
	{"Jamal Washington", "jamal@example.com", "jamal-pass-1"},
	{"Kira Sato", "kira@example.com", "kira-pass-1"},
	{"Liam Byrne", "liam@example.com", "liam-pass-1"},
}

func main() {
	log.SetFlags(log.Ltime | log.Lmsgprefix)
	log.SetPrefix("[seed] ")

	portalURL := getEnv("PORTAL_URL", "http://localhost:3000")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	slogger := logger.New("seed", getEnv("LOG_LEVEL", "warn"))

	// All seed traffic goes through a circuit breaker so a server that is
	// down or melting fails the script fast instead of hammering it.
	httpc := httpclient.New(httpclient.DefaultConfig())
	cb := httpclient.NewCircuitBreakerClient(httpc, httpclient.DefaultCircuitBreakerConfig("seed"), slogger)

	// ---------------------------------------------------------------
	// 1. Wait for the server to report ready
	// ---------------------------------------------------------------
	log.Printf("Waiting for %s to become ready...", portalURL)
	if err := waitForReady(ctx, cb, portalURL); err != nil {
		log.Fatalf("server not ready: %v", err)
	}
	log.Println("Server is ready.")

	// ---------------------------------------------------------------
	// 2. Register demo accounts
	// ---------------------------------------------------------------
	log.Printf("Registering %d demo accounts...", len(demoUsers))
	created := 0
	for _, u := range demoUsers {
		err := register(ctx, cb, portalURL, u)
		switch {
		case err == nil:
			created++
			log.Printf("  Registered: %s <%s>", u.name, u.email)
		case errors.Is(err, apperrors.ErrAlreadyExists):
			log.Printf("  Exists:     %s <%s>", u.name, u.email)
		default:
			log.Printf("  WARNING: register %s: %v", u.email, err)
		}
	}
	log.Printf("Registered %d new accounts.", created)

	// ---------------------------------------------------------------
	// 3. Verify through the admin listing, if credentials are available
	// ---------------------------------------------------------------
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping verification.")
		log.Println("Seed complete!")
		return
	}

	api := client.New(client.Config{BaseURL: portalURL})
	if _, err := api.Login(ctx, adminEmail, adminPassword); err != nil {
		log.Fatalf("admin login: %v", err)
	}

	list, err := api.AdminListUsers(ctx, client.ListUsersOptions{Limit: 100})
	if err != nil {
		log.Fatalf("list users: %v", err)
	}
	log.Printf("Portal now has %d non-admin users across %d pages.", list.TotalUsers, list.TotalPages)
	log.Println("Seed complete!")
}

// waitForReady polls the readiness endpoint until it returns 200 or the
// context expires.
func waitForReady(ctx context.Context, cb *httpclient.CircuitBreakerClient, baseURL string) error {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		resp, err := cb.Get(ctx, baseURL+"/health/ready")
		if err == nil {
			code := resp.StatusCode
			_ = resp.Body.Close()
			if code == http.StatusOK {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			if err != nil {
				return fmt.Errorf("last error: %w", err)
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func register(ctx context.Context, cb *httpclient.CircuitBreakerClient, baseURL string, u demoUser) error {
	body, err := json.Marshal(map[string]string{
		"name":     u.name,
		"email":    u.email,
		"password": u.password,
	})
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}

	resp, err := cb.Post(ctx, baseURL+"/api/auth/register", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return httpclient.ParseResponseError(resp)
	}
	_ = resp.Body.Close()
	return nil
}
