package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/folio-arcade/internal/platform/tui"
	"github.com/vovakirdan/folio-arcade/internal/storage"
	"github.com/vovakirdan/folio-arcade/internal/web"
)

var (
	flagSSHAddr     string
	flagHTTPAddr    string
	flagHostKey     string
	flagIdleTimeout int
	flagNoSSH       bool
	flagNoHTTP      bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH and HTTP servers",
	Long: `Serve the game modal over SSH and the site's JSON API over HTTP.

Each SSH connection gets its own modal session; the visitor is keyed by
public key fingerprint. The HTTP API keys visitors by cookie and also
serves the chatbot, appointment booking and contact form relays.
Profiles and results are stored in the shared database.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, uses server.host_key_path, auto-generated if missing

Examples:
  folio serve                             # SSH and HTTP on the configured addresses
  folio serve --ssh :2222 --http :8080    # Override both addresses
  folio serve --no-ssh                    # HTTP API only
  folio serve --no-http --db ./folio.db   # SSH only, with a specific database

Users can connect with:
  ssh localhost -p 2222`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default: server.ssh_addr)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP server address (default: server.http_addr or $PORT)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (default: server.host_key_path)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().BoolVar(&flagNoSSH, "no-ssh", false, "Do not start the SSH server")
	serveCmd.Flags().BoolVar(&flagNoHTTP, "no-http", false, "Do not start the HTTP server")
}

func runServe(_ *cobra.Command, _ []string) {
	if flagNoSSH && flagNoHTTP {
		fmt.Fprintln(os.Stderr, "Error: nothing to serve with both --no-ssh and --no-http")
		os.Exit(1)
	}

	cfg := loadConfig()
	if flagSSHAddr != "" {
		cfg.Server.SSHAddr = flagSSHAddr
	}
	if flagHTTPAddr != "" {
		cfg.Server.HTTPAddr = flagHTTPAddr
	}
	if flagHostKey != "" {
		cfg.Server.HostKeyPath = flagHostKey
	}

	store, err := storage.Open(dbPath(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		// Continue without storage - profiles live in memory, no results log
		store = nil
	}
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	var api *web.Server
	if !flagNoHTTP {
		opts := []web.Option{
			web.WithSeed(flagSeed),
			web.WithLogger(newLogger("folio-http")),
		}
		if store != nil {
			opts = append(opts, web.WithProfileKV(store), web.WithResults(store))
		}
		api = web.NewServer(cfg.Server.HTTPAddr, cfg, opts...)
	}

	if flagNoSSH {
		fmt.Printf("Starting folio HTTP API on %s\n", api.Addr())
		fmt.Println("Press Ctrl+C to stop")
		if err := api.ListenAndServe(); err != nil {
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	sshCfg := tui.DefaultSSHServerConfig(cfg.Server)
	sshCfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	sshCfg.Seed = flagSeed

	server, err := tui.NewSSHServer(sshCfg, cfg, store, newLogger("folio-ssh"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	if api != nil {
		go func() {
			if err := api.Serve(); err != nil {
				fmt.Fprintf(os.Stderr, "HTTP server error: %v\n", err)
			}
		}()
		fmt.Printf("Serving the folio HTTP API on %s\n", api.Addr())
	}

	fmt.Printf("Starting folio SSH server on %s\n", server.Addr())
	fmt.Printf("Connect with: ssh localhost -p %s\n", port(server.Addr()))
	fmt.Println("Press Ctrl+C to stop")

	// Blocks until SIGINT or SIGTERM
	serveErr := server.ListenAndServe()
	if api != nil {
		if err := api.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "HTTP shutdown error: %v\n", err)
		}
	}
	if serveErr != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", serveErr)
		os.Exit(1)
	}
}

// port returns the port part of a listen address.
func port(addr string) string {
	if _, p, err := net.SplitHostPort(addr); err == nil {
		return p
	}
	return addr
}
