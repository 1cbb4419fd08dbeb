// Package client provides commands that drive the save editor over gRPC
package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/witchfire-saves/internal/handlers/saveedit/v1alpha1"
)

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration
)

// ClientCmd is the root command for all client commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Client commands for the save editor",
	Long:  `Client commands open save files into sessions on a running server and edit them.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:50051", "gRPC server address")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	// Session commands
	ClientCmd.AddCommand(openCmd)
	ClientCmd.AddCommand(infoCmd)
	ClientCmd.AddCommand(resetCmd)
	ClientCmd.AddCommand(exportCmd)
	ClientCmd.AddCommand(closeCmd)

	// Inventory commands
	ClientCmd.AddCommand(addCmd)
	ClientCmd.AddCommand(removeCmd)
	ClientCmd.AddCommand(setTierCmd)
	ClientCmd.AddCommand(tierCmd)
	ClientCmd.AddCommand(researchCmd)
	ClientCmd.AddCommand(countCmd)
	ClientCmd.AddCommand(listCmd)
	ClientCmd.AddCommand(catalogCmd)
}

// createConnection creates a gRPC connection to the server
func createConnection() (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	return conn, nil
}

// call sends one request and returns the response body
func call(method string, fields map[string]any) (*structpb.Struct, error) {
	conn, err := createConnection()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := v1alpha1.NewClient(conn).Call(ctx, method, fields)
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", method, err)
	}
	return resp, nil
}

// callAndPrint sends one request and prints the response as JSON
func callAndPrint(cmd *cobra.Command, method string, fields map[string]any) error {
	resp, err := call(method, fields)
	if err != nil {
		return err
	}
	return printStruct(cmd.OutOrStdout(), resp)
}

func printStruct(w io.Writer, s *structpb.Struct) error {
	out, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to format response: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
