package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/ayusman/aero/internal/app"
	"github.com/ayusman/aero/internal/config"
	"github.com/ayusman/aero/internal/server"
	"github.com/ayusman/aero/internal/store"
	"github.com/ayusman/aero/internal/tray"
)

func main() {
	configPath := flag.String("config", "~/.aero/config.yaml", "path to the YAML config file")
	addr := flag.String("addr", "", "HTTP listen address (overrides the config file)")
	noTray := flag.Bool("no-tray", false, "run without the menu bar icon")
	flag.Parse()

	fmt.Println("Aero - Hand Gesture Control")

	cfg, err := config.Load(config.ExpandHome(*configPath))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ApplyEnv(".env"); err != nil {
		log.Fatalf("Invalid environment: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *noTray {
		cfg.Tray.Enabled = false
	}

	st, err := store.New(config.ExpandHome(cfg.Store.Path))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	a, err := app.New(app.FromConfig(cfg, st))
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}
	if err := a.DiscoverPlugins(); err != nil {
		log.Printf("Failed to discover plugins: %v", err)
	}
	log.Printf("Loaded %d plugins from %s", len(a.PluginManager().List()), a.PluginManager().PluginDir())

	hub := server.NewHub()
	a.Register(hub)

	webDir := cfg.Server.StaticDir
	if webDir == "" {
		webDir = findWebDir()
	}
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Plugins:   a.PluginManager(),
		Detection: a,
		Frames:    a,
		Hub:       hub,
	})
	httpServer := srv.HTTPServer(cfg.Server.Addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Server failed: %v", err)
			stop()
		}
	}()

	// The settings UI stays useful without a camera.
	if err := a.Start(); err != nil {
		log.Printf("Detection pipeline not started: %v", err)
	}

	if cfg.Tray.Enabled {
		runTray(ctx, a, settingsURL(cfg.Server.Addr))
	} else {
		<-ctx.Done()
	}

	log.Println("Shutting down")
	a.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}

// runTray blocks on the menu bar icon until Quit is chosen or ctx ends.
func runTray(ctx context.Context, a *app.App, url string) {
	t := tray.New(a.IsEnabled())
	t.OnToggle(a.SetEnabled)
	t.OnSettings(func() {
		if err := openBrowser(url); err != nil {
			log.Printf("Failed to open settings: %v", err)
		}
	})
	a.OnEnabledChange(t.SetEnabled)
	a.Register(t)

	go func() {
		<-ctx.Done()
		t.Quit()
	}()
	t.Run()
}

func settingsURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

func openBrowser(url string) error {
	name := "xdg-open"
	if runtime.GOOS == "darwin" {
		name = "open"
	}
	return exec.Command(name, url).Start()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.aero/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	for _, p := range []string{"web", "../web", "../../web"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if absPath, err := filepath.Abs(p); err == nil {
				return absPath
			}
			return p
		}
	}

	homeWebDir := config.ExpandHome("~/.aero/web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}
	return ""
}
