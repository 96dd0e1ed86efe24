// Command system-control is an aero plugin for volume, brightness and media
// playback on macOS. Fixed actions run one control; step actions pick the
// control from the direction of the swipe or rotation that fired them.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

type request struct {
	Action  string          `json:"action"`
	Gesture string          `json:"gesture"`
	Params  json.RawMessage `json:"params"`
	Event   *event          `json:"event,omitempty"`
}

type event struct {
	Kind      string `json:"kind"`
	Direction string `json:"direction,omitempty"`
	Pose      string `json:"pose,omitempty"`
}

type response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func keyCode(code int) string {
	return fmt.Sprintf(`tell application "System Events" to key code %d`, code)
}

// controls are the AppleScript snippets behind each fixed action.
var controls = map[string]string{
	"volume-up":        `set volume output volume ((output volume of (get volume settings)) + 10)`,
	"volume-down":      `set volume output volume ((output volume of (get volume settings)) - 10)`,
	"volume-mute":      `set volume output muted (not (output muted of (get volume settings)))`,
	"brightness-up":    keyCode(144),
	"brightness-down":  keyCode(145),
	"media-play-pause": keyCode(100),
	"media-next":       keyCode(101),
	"media-prev":       keyCode(98),
}

// steps name the control a step action runs for CW or RIGHT (up) and for
// CCW or LEFT (down).
var steps = map[string]struct{ up, down string }{
	"volume-step":     {"volume-up", "volume-down"},
	"brightness-step": {"brightness-up", "brightness-down"},
	"media-step":      {"media-next", "media-prev"},
}

func main() {
	resp := handle(os.Stdin, runAppleScript)
	json.NewEncoder(os.Stdout).Encode(resp)
}

func handle(r io.Reader, run func(script string) error) response {
	var req request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return response{Error: fmt.Sprintf("failed to decode request: %v", err)}
	}

	control, err := resolve(req)
	if err != nil {
		return response{Error: err.Error()}
	}
	if err := run(controls[control]); err != nil {
		return response{Error: fmt.Sprintf("action %s failed: %v", req.Action, err)}
	}
	return response{Success: true}
}

// resolve returns the control a request runs.
func resolve(req request) (string, error) {
	if _, ok := controls[req.Action]; ok {
		return req.Action, nil
	}
	step, ok := steps[req.Action]
	if !ok {
		return "", fmt.Errorf("unknown action: %s", req.Action)
	}
	if req.Event == nil {
		return "", errors.New("action " + req.Action + " needs a swipe or rotate event")
	}
	switch req.Event.Direction {
	case "CW", "RIGHT":
		return step.up, nil
	case "CCW", "LEFT":
		return step.down, nil
	}
	return "", fmt.Errorf("action %s has no step for direction %q", req.Action, req.Event.Direction)
}

func runAppleScript(script string) error {
	output, err := exec.Command("osascript", "-e", script).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
