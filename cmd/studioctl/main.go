// studioctl is the operator CLI: it manages the ADMIN_TOKEN entries in .env
// and checks connectivity against a running server.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const envFile = ".env"

func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("failed to generate secret: %v", err))
	}
	return hex.EncodeToString(buf)
}

// envLines reads .env as raw lines; a missing file yields none.
func envLines() []string {
	data, err := os.ReadFile(envFile)
	if err != nil {
		return nil
	}
	return strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
}

func setLine(lines []string, key, value string) []string {
	for i, l := range lines {
		if strings.HasPrefix(l, key+"=") {
			lines[i] = key + "=" + value
			return lines
		}
	}
	return append(lines, key+"="+value)
}

func removeLine(lines []string, key string) []string {
	kept := lines[:0]
	for _, l := range lines {
		if !strings.HasPrefix(l, key+"=") {
			kept = append(kept, l)
		}
	}
	return kept
}

func getValue(lines []string, key string) string {
	for _, l := range lines {
		if strings.HasPrefix(l, key+"=") {
			return l[len(key)+1:]
		}
	}
	return ""
}

func writeEnv(lines []string) error {
	var kept []string
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			kept = append(kept, l)
		}
	}
	return os.WriteFile(envFile, []byte(strings.Join(kept, "\n")+"\n"), 0o600)
}

var rootCmd = &cobra.Command{
	Use:   "studioctl",
	Short: "Operator CLI for the template studio server",
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage ADMIN_TOKEN entries in .env",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set [value]",
	Short: "Set ADMIN_TOKEN, generating a random one when no value is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lines := envLines()
		if len(args) == 1 {
			lines = setLine(lines, "ADMIN_TOKEN", args[0])
			fmt.Println("Set ADMIN_TOKEN to provided value")
		} else {
			lines = setLine(lines, "ADMIN_TOKEN", randomSecret())
			fmt.Println("Generated ADMIN_TOKEN")
		}
		if err := writeEnv(lines); err != nil {
			return err
		}
		fmt.Println("Updated .env. Restart the server to pick up the change.")
		return nil
	},
}

var tokenRotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Move the current ADMIN_TOKEN to ADMIN_TOKEN_2 and generate a fresh one",
	RunE: func(cmd *cobra.Command, args []string) error {
		lines := envLines()
		current := getValue(lines, "ADMIN_TOKEN")
		if current == "" {
			return fmt.Errorf("cannot rotate: ADMIN_TOKEN missing")
		}
		lines = setLine(lines, "ADMIN_TOKEN_2", current)
		lines = setLine(lines, "ADMIN_TOKEN", randomSecret())
		if err := writeEnv(lines); err != nil {
			return err
		}
		fmt.Println("Rotation complete. New ADMIN_TOKEN generated, old moved to ADMIN_TOKEN_2.")
		fmt.Println("After all users switch, finalize with: studioctl token clear-secondary")
		return nil
	},
}

var tokenClearSecondaryCmd = &cobra.Command{
	Use:   "clear-secondary",
	Short: "Remove ADMIN_TOKEN_2",
	RunE: func(cmd *cobra.Command, args []string) error {
		lines := removeLine(envLines(), "ADMIN_TOKEN_2")
		if err := writeEnv(lines); err != nil {
			return err
		}
		fmt.Println("Removed ADMIN_TOKEN_2")
		return nil
	},
}

var doctorPort int

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check connectivity and auth against a local server",
	RunE: func(cmd *cobra.Command, args []string) error {
		lines := envLines()
		token := getValue(lines, "ADMIN_TOKEN")
		if env := os.Getenv("ADMIN_TOKEN"); env != "" {
			token = env
		}
		port := doctorPort
		if port == 0 {
			port = 3000
			if v := getValue(lines, "PORT"); v != "" {
				fmt.Sscanf(v, "%d", &port)
			}
		}

		report := func(label, value string) {
			fmt.Printf("%-18s: %s\n", label, value)
		}
		report("Port", fmt.Sprintf("%d", port))
		if token != "" {
			report("Has ADMIN_TOKEN", fmt.Sprintf("%d chars", len(token)))
		} else {
			report("Has ADMIN_TOKEN", "NO")
		}

		client := &http.Client{Timeout: 2 * time.Second}
		base := fmt.Sprintf("http://127.0.0.1:%d", port)

		resp, err := client.Get(base + "/api/ping")
		if err != nil {
			report("Ping", "FAIL "+err.Error())
			return fmt.Errorf("server unreachable")
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		report("Ping", fmt.Sprintf("OK %d", resp.StatusCode))

		if token == "" {
			report("Auth check", "Skipped (no token in env)")
			return nil
		}
		req, err := http.NewRequest(http.MethodGet, base+"/api/admin/auth/check", nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err = client.Do(req)
		if err != nil {
			report("Auth check", "FAIL "+err.Error())
			return nil
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		var check struct {
			Role string `json:"role"`
		}
		_ = json.Unmarshal(body, &check)
		if check.Role != "" {
			report("Auth check", fmt.Sprintf("Status %d (%s)", resp.StatusCode, check.Role))
		} else {
			report("Auth check", fmt.Sprintf("Status %d", resp.StatusCode))
		}
		return nil
	},
}

func main() {
	tokenCmd.AddCommand(tokenSetCmd, tokenRotateCmd, tokenClearSecondaryCmd)
	doctorCmd.Flags().IntVar(&doctorPort, "port", 0, "server port (default from .env PORT or 3000)")
	rootCmd.AddCommand(tokenCmd, doctorCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
