package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/ayusman/aero/internal/gesture"
	"github.com/ayusman/aero/internal/plugin"
	"github.com/ayusman/aero/internal/store"
)

// actionQueueSize bounds the gestures waiting for a plugin to finish.
const actionQueueSize = 16

var (
	// ErrNoBinding is returned when no binding exists for a gesture.
	ErrNoBinding = errors.New("no binding for gesture")
	// ErrBindingDisabled is returned when the gesture's binding is switched off.
	ErrBindingDisabled = errors.New("binding is disabled")
)

// BindingLookup finds the binding for a gesture name. It returns nil and no
// error when the gesture is unbound.
type BindingLookup interface {
	GetByGesture(gesture string) (*store.Binding, error)
}

// PluginRunner runs one plugin request.
type PluginRunner interface {
	Execute(ctx context.Context, p *plugin.Plugin, req *plugin.Request) (*plugin.Response, error)
}

// ActionResult reports the outcome of one triggered binding.
type ActionResult struct {
	Gesture  string
	Plugin   string
	Action   string
	Response *plugin.Response
	Err      error
}

type actionJob struct {
	ev gesture.Event
}

// ActionRunner runs the plugin action bound to each discrete gesture. Plugins
// run one at a time on a worker goroutine so a slow plugin never stalls
// classification; gestures arriving while the queue is full are dropped.
type ActionRunner struct {
	bindings BindingLookup
	plugins  *plugin.Manager
	runner   PluginRunner

	queue    chan actionJob
	wg       sync.WaitGroup
	mu       sync.Mutex
	started  bool
	onResult func(ActionResult)
}

// NewActionRunner creates a runner. Call Start before events are handled.
func NewActionRunner(bindings BindingLookup, plugins *plugin.Manager, runner PluginRunner) *ActionRunner {
	return &ActionRunner{
		bindings: bindings,
		plugins:  plugins,
		runner:   runner,
	}
}

// OnResult sets a callback invoked on the worker after every attempted
// action, including failed ones.
func (r *ActionRunner) OnResult(fn func(ActionResult)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onResult = fn
}

// Start launches the worker with a fresh queue. It stops when ctx is done
// or Close is called, and may be started again after Close.
func (r *ActionRunner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	r.started = true
	queue := make(chan actionJob, actionQueueSize)
	r.queue = queue

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case job, ok := <-queue:
				if !ok {
					return
				}
				r.report(r.Run(ctx, job.ev))
			}
		}
	}()
}

// Close stops accepting gestures and waits for the worker to drain the queue.
func (r *ActionRunner) Close() {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return
	}
	r.started = false
	close(r.queue)
	r.mu.Unlock()

	r.wg.Wait()
}

// HandleEvent queues discrete gestures for execution.
func (r *ActionRunner) HandleEvent(ev gesture.Event, _ int64) {
	if !ev.Discrete() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started {
		return
	}

	select {
	case r.queue <- actionJob{ev: ev}:
	default:
		log.Printf("Action queue full, dropping %s", ev.Name())
	}
}

// Run executes the binding for ev synchronously.
func (r *ActionRunner) Run(ctx context.Context, ev gesture.Event) ActionResult {
	res := ActionResult{Gesture: ev.Name()}

	binding, err := r.bindings.GetByGesture(res.Gesture)
	if err != nil {
		res.Err = fmt.Errorf("failed to look up binding: %w", err)
		return res
	}
	if binding == nil {
		res.Err = ErrNoBinding
		return res
	}
	res.Plugin, res.Action = binding.PluginName, binding.ActionName
	if !binding.Enabled {
		res.Err = ErrBindingDisabled
		return res
	}

	p, err := r.plugins.Lookup(binding.PluginName, binding.ActionName)
	if err != nil {
		res.Err = err
		return res
	}

	req := &plugin.Request{
		Action:  binding.ActionName,
		Gesture: res.Gesture,
		Params:  binding.Params,
		Event:   &ev,
	}
	res.Response, res.Err = r.runner.Execute(ctx, p, req)
	if res.Err == nil && !res.Response.Success {
		res.Err = fmt.Errorf("plugin %s reported failure: %s", p.Manifest.Name, res.Response.Error)
	}
	return res
}

func (r *ActionRunner) report(res ActionResult) {
	switch {
	case errors.Is(res.Err, ErrNoBinding), errors.Is(res.Err, ErrBindingDisabled):
	case res.Err != nil:
		log.Printf("Action for %s failed: %v", res.Gesture, res.Err)
	default:
		log.Printf("Gesture %s triggered %s/%s", res.Gesture, res.Plugin, res.Action)
	}

	r.mu.Lock()
	fn := r.onResult
	r.mu.Unlock()
	if fn != nil {
		fn(res)
	}
}
