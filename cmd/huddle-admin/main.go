// ABOUTME: Admin CLI for the huddle server
// ABOUTME: Inspects users and tasks, mints tokens and checks server health

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fatih/color"

	"github.com/huddleapp/huddle/internal/auth"
	"github.com/huddleapp/huddle/internal/config"
	"github.com/huddleapp/huddle/internal/store"
)

const banner = `
 _               _     _ _                       _           _
| |__  _   _  __| | __| | | ___        __ _  __| |_ __ ___ (_)_ __
| '_ \| | | |/ _' |/ _' | |/ _ \_____ / _' |/ _' | '_ ' _ \| | '_ \
| | | | |_| | (_| | (_| | |  __/_____| (_| | (_| | | | | | | | | | |
|_| |_|\__,_|\__,_|\__,_|_|\___|      \__,_|\__,_|_| |_| |_|_|_| |_|
`

// adminConfig is the TOML config for the admin CLI.
type adminConfig struct {
	ServerURL    string `toml:"server_url"`
	ServerConfig string `toml:"server_config"`
}

// loadAdminConfig reads ~/.config/huddle/admin.toml and applies environment
// overrides. A missing file is fine; defaults apply.
func loadAdminConfig() adminConfig {
	cfg := adminConfig{
		ServerURL: "http://localhost:8000",
	}

	path := os.Getenv("HUDDLE_ADMIN_CONFIG")
	if path == "" {
		if homeDir, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(homeDir, ".config", "huddle", "admin.toml")
		}
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: ignoring malformed %s: %v\n", path, err)
			}
		}
	}

	if url := os.Getenv("HUDDLE_SERVER_URL"); url != "" {
		cfg.ServerURL = url
	}
	if sc := os.Getenv("HUDDLE_CONFIG"); sc != "" {
		cfg.ServerConfig = sc
	}
	return cfg
}

// loadServerConfig loads the server YAML config for commands that need
// direct access to the database or the JWT secret.
func loadServerConfig(cfg adminConfig) (*config.Config, error) {
	path := cfg.ServerConfig
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".config", "huddle", "server.yaml")
	}
	return config.Load(path)
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := loadAdminConfig()
	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "health":
		err = cmdHealth(ctx, cfg)
	case "users":
		err = cmdUsers(ctx, cfg)
	case "tasks":
		err = cmdTasks(ctx, cfg, args)
	case "token":
		err = cmdToken(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()
	fmt.Println("Usage: huddle-admin <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  health                       Check server health")
	fmt.Println("  users                        List registered users")
	fmt.Println("  tasks <username>             List a user's tasks (reads the database)")
	fmt.Println("  token create <username>      Mint a JWT for a username")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  HUDDLE_SERVER_URL            Server base URL (default: http://localhost:8000)")
	fmt.Println("  HUDDLE_CONFIG                Server YAML config (for tasks / token create)")
	fmt.Println("  HUDDLE_ADMIN_CONFIG          Admin TOML config (default: ~/.config/huddle/admin.toml)")
	fmt.Println()
}

func cmdHealth(ctx context.Context, cfg adminConfig) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.ServerURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	color.Green("healthy")
	return nil
}

func cmdUsers(ctx context.Context, cfg adminConfig) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.ServerURL+"/auth/all", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("listing users: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("listing users: status %d", resp.StatusCode)
	}

	var body struct {
		Users []struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Username string `json:"username"`
		} `json:"users"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	if len(body.Users) == 0 {
		fmt.Println("No users registered.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "USERNAME\tNAME\tEMAIL")
	for _, u := range body.Users {
		fmt.Fprintf(w, "%s\t%s\t%s\n", u.Username, u.Name, u.Email)
	}
	return w.Flush()
}

func cmdTasks(ctx context.Context, cfg adminConfig, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: huddle-admin tasks <username>")
	}
	username := args[0]

	serverCfg, err := loadServerConfig(cfg)
	if err != nil {
		return fmt.Errorf("loading server config: %w", err)
	}

	s, err := store.NewSQLiteStore(serverCfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	tasks, err := s.ListTasks(ctx, username)
	if err != nil {
		return fmt.Errorf("listing tasks: %w", err)
	}

	if len(tasks) == 0 {
		fmt.Printf("No tasks for %s.\n", username)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tPRIORITY\tSTATUS\tDONE\tDUE")
	for _, t := range tasks {
		done := ""
		if t.Completed {
			done = "✓"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Title, t.Priority, t.Status, done, t.DueDate)
	}
	return w.Flush()
}

func cmdToken(cfg adminConfig, args []string) error {
	if len(args) < 1 || args[0] != "create" {
		return fmt.Errorf("usage: huddle-admin token create <username> [ttl]")
	}
	if len(args) < 2 {
		return fmt.Errorf("usage: huddle-admin token create <username> [ttl]")
	}
	username := args[1]

	ttl := 24 * time.Hour
	if len(args) >= 3 {
		parsed, err := time.ParseDuration(args[2])
		if err != nil {
			return fmt.Errorf("parsing ttl %q: %w", args[2], err)
		}
		ttl = parsed
	}

	serverCfg, err := loadServerConfig(cfg)
	if err != nil {
		return fmt.Errorf("loading server config: %w", err)
	}

	verifier, err := auth.NewJWTVerifier([]byte(serverCfg.Auth.JWTSecret))
	if err != nil {
		return fmt.Errorf("creating JWT verifier: %w", err)
	}

	token, err := verifier.Generate(username, ttl)
	if err != nil {
		return fmt.Errorf("generating token: %w", err)
	}

	color.Green("Token for %s (expires %s):", username, time.Now().Add(ttl).Format("Jan 02, 2006 15:04"))
	fmt.Println(token)
	return nil
}
