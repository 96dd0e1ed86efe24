package app

import (
	"context"
	"log"
	"time"

	"gocv.io/x/gocv"
)

// mode is the capture rate state.
type mode int

const (
	modeIdle mode = iota
	modeActive
)

// activityGate tracks the idle/active switch. Motion moves it to active at
// once; it returns to idle only after idleTimeout without motion.
type activityGate struct {
	mode        mode
	lastMotion  time.Time
	idleTimeout time.Duration
}

// observe feeds one motion result and reports whether the mode changed.
func (g *activityGate) observe(moved bool, now time.Time) bool {
	if moved {
		g.lastMotion = now
		if g.mode == modeIdle {
			g.mode = modeActive
			return true
		}
		return false
	}
	if g.mode == modeActive && now.Sub(g.lastMotion) > g.idleTimeout {
		g.mode = modeIdle
		return true
	}
	return false
}

func (g *activityGate) active() bool {
	return g.mode == modeActive
}

func interval(fps int) time.Duration {
	return time.Second / time.Duration(fps)
}

// runCapture reads frames at the idle or active rate, gates detection on
// motion and posts each detector result to the mailbox.
//
// Loop:
// 1. Skip the tick while detection is disabled
// 2. Read a frame and keep a JPEG of it for the preview stream
// 3. Motion switches to the active rate; 2s of stillness switches back and
// resets the engine
// 4. In active mode, detect hands and post the first hand's frame
func (a *App) runCapture(ctx context.Context) {
	gate := activityGate{idleTimeout: time.Duration(a.config.IdleTimeoutMs) * time.Millisecond}

	ticker := time.NewTicker(interval(a.config.IdleFPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if !a.IsEnabled() {
			if gate.active() {
				gate.mode = modeIdle
				a.camera.SetFPS(a.config.IdleFPS)
				ticker.Reset(interval(a.config.IdleFPS))
				a.motion.Reset()
			}
			continue
		}

		frame, err := a.camera.ReadFrame()
		if err != nil {
			log.Printf("Error reading frame: %v", err)
			continue
		}
		a.capturePreview(frame)

		moved, _ := a.motion.Detect(frame)
		if gate.observe(moved, time.Now()) {
			if gate.active() {
				a.camera.SetFPS(a.config.ActiveFPS)
				ticker.Reset(interval(a.config.ActiveFPS))
				log.Println("Switched to active mode")
			} else {
				a.camera.SetFPS(a.config.IdleFPS)
				ticker.Reset(interval(a.config.IdleFPS))
				a.ResetEngine()
				log.Println("Switched to idle mode")
			}
		}

		if !gate.active() {
			frame.Close()
			continue
		}

		hands, err := a.detector.Detect(frame)
		frame.Close()
		if err != nil {
			log.Printf("Error detecting hands: %v", err)
			continue
		}

		a.mailbox.Post(observe(hands, a.NowMs()))
	}
}

// runClassify takes observations off the mailbox and classifies them.
func (a *App) runClassify(ctx context.Context) {
	for {
		obs, err := a.mailbox.Take(ctx)
		if err != nil {
			return
		}
		if !a.IsEnabled() {
			continue
		}
		if _, err := a.classify(obs); err != nil {
			log.Printf("Error classifying frame: %v", err)
		}
	}
}

func (a *App) capturePreview(frame *gocv.Mat) {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return
	}
	defer buf.Close()

	jpeg := make([]byte, buf.Len())
	copy(jpeg, buf.GetBytes())
	a.setPreview(jpeg)
}
