package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/aero/internal/gesture"
)

func TestExecutor_Execute(t *testing.T) {
	p := scriptPlugin(t, `#!/bin/sh
echo '{"success":true,"data":{"message":"hello world"}}'
`)

	resp, err := NewExecutor(5000).Execute(context.Background(), p, &Request{Action: "run", Gesture: "SWIPE_LEFT"})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if !resp.Success {
		t.Errorf("expected success=true, got false")
	}
	if resp.Error != "" {
		t.Errorf("expected empty error, got %q", resp.Error)
	}

	var data map[string]any
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}
	if data["message"] != "hello world" {
		t.Errorf("expected message 'hello world', got %v", data["message"])
	}
}

func TestExecutor_Execute_SendsRequestOnStdin(t *testing.T) {
	p := scriptPlugin(t, `#!/bin/sh
INPUT=$(cat)
echo "{\"success\":true,\"data\":{\"received\":$INPUT}}"
`)

	ev := gesture.Swipe(gesture.DirectionLeft)
	req := &Request{
		Action:  "run",
		Gesture: ev.Name(),
		Params:  json.RawMessage(`{"key":"left"}`),
		Event:   &ev,
	}

	resp, err := NewExecutor(5000).Execute(context.Background(), p, req)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	var data struct {
		Received struct {
			Action  string            `json:"action"`
			Gesture string            `json:"gesture"`
			Params  map[string]string `json:"params"`
			Event   gesture.Event     `json:"event"`
		} `json:"received"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}

	got := data.Received
	if got.Action != "run" || got.Gesture != "SWIPE_LEFT" {
		t.Errorf("received action=%q gesture=%q", got.Action, got.Gesture)
	}
	if got.Params["key"] != "left" {
		t.Errorf("received params = %v", got.Params)
	}
	if got.Event != ev {
		t.Errorf("received event = %+v, want %+v", got.Event, ev)
	}
}

func TestExecutor_Timeout(t *testing.T) {
	p := scriptPlugin(t, `#!/bin/sh
sleep 10
echo '{"success":true}'
`)

	start := time.Now()
	_, err := NewExecutor(100).Execute(context.Background(), p, &Request{Action: "run"})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Execute() error = %v, want ErrTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Execute() took %v, timeout not enforced", elapsed)
	}
}

func TestExecutor_CanceledContext(t *testing.T) {
	p := scriptPlugin(t, `#!/bin/sh
sleep 10
`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewExecutor(5000).Execute(ctx, p, &Request{Action: "run"}); err == nil {
		t.Fatal("Execute() with canceled context should fail")
	}
}

func TestExecutor_Execute_ErrorResponse(t *testing.T) {
	p := scriptPlugin(t, `#!/bin/sh
echo '{"success":false,"error":"something went wrong"}'
`)

	resp, err := NewExecutor(5000).Execute(context.Background(), p, &Request{Action: "run"})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if resp.Success {
		t.Errorf("expected success=false, got true")
	}
	if resp.Error != "something went wrong" {
		t.Errorf("expected error 'something went wrong', got %q", resp.Error)
	}
}

func TestExecutor_Execute_InvalidJSON(t *testing.T) {
	p := scriptPlugin(t, `#!/bin/sh
echo 'not valid json'
`)

	_, err := NewExecutor(5000).Execute(context.Background(), p, &Request{Action: "run"})
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
	if !strings.Contains(err.Error(), "parse plugin response") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExecutor_Execute_NonZeroExit(t *testing.T) {
	p := scriptPlugin(t, `#!/bin/sh
echo "Error: something failed" >&2
exit 1
`)

	_, err := NewExecutor(5000).Execute(context.Background(), p, &Request{Action: "run"})
	if err == nil {
		t.Fatal("expected error for non-zero exit, got nil")
	}
	if !strings.Contains(err.Error(), "something failed") {
		t.Errorf("expected stderr in error, got: %v", err)
	}
}
