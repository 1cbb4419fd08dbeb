package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/KirkDiggler/witchfire-saves/internal/config"
	redisclient "github.com/KirkDiggler/witchfire-saves/internal/redis"
	savesession "github.com/KirkDiggler/witchfire-saves/internal/repositories/save_session"
	"github.com/KirkDiggler/witchfire-saves/internal/savedoc"
)

// Scans stored save sessions and offers to delete the ones the server can no
// longer read. Uses the same WITCHFIRE_REDIS_* settings as the server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	client, err := redisclient.NewClient(redisclient.Options{
		Addrs:    cfg.Redis.Addrs,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		UseTLS:   cfg.Redis.TLS,
	})
	if err != nil {
		log.Fatal("Failed to create Redis client:", err)
	}
	defer func() {
		_ = client.Close()
	}()

	ctx := context.Background()
	if err := redisclient.Ping(ctx, client); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	fmt.Println("Connected to Redis:", cfg.Redis.Addrs)
	fmt.Println("Scanning for corrupted save sessions...")

	iter := client.Scan(ctx, 0, "save_session:*", 0).Iterator()

	var corruptedKeys []string
	var checkedCount int

	for iter.Next(ctx) {
		key := iter.Val()
		checkedCount++

		data, err := client.Get(ctx, key).Bytes()
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", key, err)
			continue
		}

		if reason := checkSession(data); reason != "" {
			fmt.Printf("✗ %s: %s\n", key, reason)
			corruptedKeys = append(corruptedKeys, key)
		}
	}

	if err := iter.Err(); err != nil {
		log.Fatal("Error during scan:", err)
	}

	fmt.Printf("\nChecked %d keys, found %d corrupted entries\n", checkedCount, len(corruptedKeys))

	if len(corruptedKeys) == 0 {
		fmt.Println("No corrupted data found!")
		return
	}

	fmt.Println("\nCorrupted keys:")
	for _, key := range corruptedKeys {
		fmt.Printf("  - %s\n", key)
	}

	fmt.Print("\nDo you want to DELETE these corrupted entries? (yes/no): ")
	var response string
	_, _ = fmt.Scanln(&response)

	if response != "yes" {
		fmt.Println("Aborted - no changes made")
		return
	}

	for _, key := range corruptedKeys {
		if err := client.Del(ctx, key).Err(); err != nil {
			fmt.Printf("Failed to delete %s: %v\n", key, err)
		} else {
			fmt.Printf("Deleted %s\n", key)
		}
	}
	fmt.Println("\nCleanup complete!")
}

// checkSession returns why a stored session is unusable, or "" when it is fine
func checkSession(data []byte) string {
	var session savesession.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return "envelope is not valid JSON"
	}
	if session.ID == "" || session.Revision < 1 {
		return "envelope is missing its id or revision"
	}
	if _, err := savedoc.Parse(session.Original); err != nil {
		return "original document is unreadable"
	}
	if _, err := savedoc.Parse(session.Working); err != nil {
		return "working document is unreadable"
	}
	return ""
}
