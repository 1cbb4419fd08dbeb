// Package main is the entry point for the save editor server and its client
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/witchfire-saves/cmd/server/client"
)

var rootCmd = &cobra.Command{
	Use:   "witchfire-saves",
	Short: "Witchfire save editor gRPC server",
	Long:  `witchfire-saves opens Witchfire save documents into editing sessions and serves inventory edits over gRPC.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
