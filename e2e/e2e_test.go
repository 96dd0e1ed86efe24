package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/aero/internal/app"
	"github.com/ayusman/aero/internal/capture"
	"github.com/ayusman/aero/internal/detector"
	"github.com/ayusman/aero/internal/server"
	"github.com/ayusman/aero/internal/store"
)

// recordingPlugin installs a plugin that appends every request it receives
// to requests.log in its own directory.
func recordingPlugin(t *testing.T, dir string) string {
	t.Helper()

	pluginDir := filepath.Join(dir, "recorder")
	if err := os.MkdirAll(pluginDir, 0755); err != nil {
		t.Fatal(err)
	}
	manifest := `{"name":"recorder","version":"1.0.0","executable":"run.sh","actions":["record"]}`
	if err := os.WriteFile(filepath.Join(pluginDir, "plugin.json"), []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}
	script := "#!/bin/sh\ncat >> requests.log\necho >> requests.log\necho '{\"success\":true}'\n"
	if err := os.WriteFile(filepath.Join(pluginDir, "run.sh"), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return filepath.Join(pluginDir, "requests.log")
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestE2E_SwipeTriggersBoundPlugin(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	pluginDir := filepath.Join(tmpDir, "plugins")
	requestLog := recordingPlugin(t, pluginDir)

	application, err := app.New(app.Config{
		Store:     s,
		Camera:    capture.NewMockCamera(nil, false),
		Detector:  detector.NewMockDetector(),
		PluginDir: pluginDir,
	})
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}
	if err := application.DiscoverPlugins(); err != nil {
		t.Fatalf("DiscoverPlugins() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	application.Actions().Start(ctx)
	defer application.Actions().Close()

	hub := server.NewHub()
	application.Register(hub)

	srv := server.New(server.Config{
		Store:     s,
		Plugins:   application.PluginManager(),
		Detection: application,
		Frames:    application,
		Hub:       hub,
	})
	ts := httptest.NewServer(srv)
	defer ts.Close()
	client := ts.Client()

	t.Run("BindGesture", func(t *testing.T) {
		resp, err := client.Post(
			ts.URL+"/api/bindings",
			"application/json",
			strings.NewReader(`{"gesture": "SWIPE_RIGHT", "plugin_name": "recorder", "action_name": "record", "params": {"key": "right"}}`),
		)
		if err != nil {
			t.Fatalf("create binding error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
		}
	})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/events/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial error = %v", err)
	}
	defer conn.Close()
	waitFor(t, "websocket client", func() bool { return hub.Clients() == 1 })

	t.Run("Swipe", func(t *testing.T) {
		for i := 0; i < 6; i++ {
			hand := detector.ThumbsUpLandmarks().MoveIndexTipTo(0.7-0.03*float64(i), 0.5)
			if _, err := application.Process([]detector.HandLandmarks{hand}, int64(i)*33); err != nil {
				t.Fatalf("Process() error = %v", err)
			}
		}
	})

	t.Run("PluginReceivedRequest", func(t *testing.T) {
		var data []byte
		waitFor(t, "plugin request", func() bool {
			data, _ = os.ReadFile(requestLog)
			return strings.HasSuffix(string(data), "\n")
		})

		var req struct {
			Action  string            `json:"action"`
			Gesture string            `json:"gesture"`
			Params  map[string]string `json:"params"`
			Event   struct {
				Kind      string `json:"kind"`
				Direction string `json:"direction"`
			} `json:"event"`
		}
		if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &req); err != nil {
			t.Fatalf("plugin request %q: %v", data, err)
		}
		if req.Action != "record" || req.Gesture != "SWIPE_RIGHT" || req.Params["key"] != "right" {
			t.Errorf("plugin request = %+v", req)
		}
		if req.Event.Kind != "swipe" || req.Event.Direction != "RIGHT" {
			t.Errorf("plugin event = %+v", req.Event)
		}
	})

	t.Run("EventLogged", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/events")
		if err != nil {
			t.Fatalf("list events error = %v", err)
		}
		defer resp.Body.Close()

		var list struct {
			Events []store.Event `json:"events"`
		}
		json.NewDecoder(resp.Body).Decode(&list)
		if len(list.Events) != 1 || list.Events[0].Name != "SWIPE_RIGHT" {
			t.Errorf("events = %+v", list.Events)
		}
		if len(list.Events) == 1 && list.Events[0].SessionID != application.SessionID() {
			t.Errorf("session = %q, want %q", list.Events[0].SessionID, application.SessionID())
		}
	})

	t.Run("WebSocketStreamedSwipe", func(t *testing.T) {
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				t.Fatalf("no swipe on the websocket: %v", err)
			}
			var msg server.EventMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatalf("bad message %s: %v", data, err)
			}
			if msg.Name == "SWIPE_RIGHT" {
				if msg.TimestampMs != 165 {
					t.Errorf("swipe timestamp = %d, want 165", msg.TimestampMs)
				}
				return
			}
		}
	})

	t.Run("DisableViaAPI", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/detection", strings.NewReader(`{"enabled": false}`))
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("PUT /api/detection error = %v", err)
		}
		resp.Body.Close()

		if application.IsEnabled() {
			t.Error("detection still enabled")
		}
		enabled, err := s.Settings().GetBool(store.SettingDetectionEnabled, true)
		if err != nil || enabled {
			t.Errorf("persisted detection = %t, %v", enabled, err)
		}
	})
}
