// Command keyboard is an aero plugin that turns gestures into key presses
// on macOS through System Events.
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
	Kind      string  `json:"kind"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Direction string  `json:"direction,omitempty"`
	Pose      string  `json:"pose,omitempty"`
}

type response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// keyParams are the params of keystroke and shortcut bindings.
type keyParams struct {
	Key       string   `json:"key"`
	Modifiers []string `json:"modifiers"`
}

var errNoKey = errors.New("key is required")

var modifiers = map[string]string{
	"command": "command down",
	"cmd":     "command down",
	"option":  "option down",
	"alt":     "option down",
	"control": "control down",
	"ctrl":    "control down",
	"shift":   "shift down",
}

// Key codes for arrows (swipes) and page up/down (rotations).
var directionKeyCodes = map[string]int{
	"LEFT":  123,
	"RIGHT": 124,
	"CW":    121,
	"CCW":   116,
}

// scriptBuilders turn a request into the AppleScript that performs it.
var scriptBuilders = map[string]func(request) (string, error){
	"keystroke": keystrokeScript,
	"shortcut":  keystrokeScript,
	"navigate":  navigateScript,
}

func main() {
	resp := handle(os.Stdin, runAppleScript)
	json.NewEncoder(os.Stdout).Encode(resp)
}

// handle decodes one request from r, builds its script and hands it to run.
func handle(r io.Reader, run func(script string) error) response {
	var req request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return failure(fmt.Errorf("failed to decode request: %w", err))
	}

	build, ok := scriptBuilders[req.Action]
	if !ok {
		return failure(fmt.Errorf("unknown action: %s", req.Action))
	}
	script, err := build(req)
	if err != nil {
		return failure(fmt.Errorf("action %s failed: %w", req.Action, err))
	}
	if err := run(script); err != nil {
		return failure(fmt.Errorf("action %s failed: %w", req.Action, err))
	}
	return response{Success: true}
}

func failure(err error) response {
	return response{Error: err.Error()}
}

func keystrokeScript(req request) (string, error) {
	var p keyParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		return "", fmt.Errorf("failed to parse params: %w", err)
	}
	if p.Key == "" {
		return "", errNoKey
	}
	return buildKeystrokeScript(p.Key, p.Modifiers), nil
}

// navigateScript presses the key for the triggering gesture's direction.
func navigateScript(req request) (string, error) {
	if req.Event == nil || req.Event.Direction == "" {
		return "", errors.New("navigate needs a swipe or rotate event")
	}
	code, ok := directionKeyCodes[req.Event.Direction]
	if !ok {
		return "", fmt.Errorf("no key for direction %s", req.Event.Direction)
	}
	return fmt.Sprintf(`tell application "System Events" to key code %d`, code), nil
}

func buildKeystrokeScript(key string, mods []string) string {
	script := fmt.Sprintf(`tell application "System Events" to keystroke %q`, key)

	var using []string
	for _, m := range mods {
		if v, ok := modifiers[strings.ToLower(m)]; ok {
			using = append(using, v)
		}
	}
	if len(using) == 0 {
		return script
	}
	return script + " using {" + strings.Join(using, ", ") + "}"
}

func runAppleScript(script string) error {
	output, err := exec.Command("osascript", "-e", script).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
