package upstream

import (
	"context"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
)

// probePaths are tried in order per candidate; the first HTTP 200 marks the
// instance alive regardless of payload shape.
var probePaths = []string{"/api/v1/version", "/api/v1/health", "/"}

// InstanceStatus is the per-candidate view exposed to the status endpoint.
type InstanceStatus struct {
	BaseAddress string     `json:"baseAddress"`
	Alive       bool       `json:"alive"`
	LastChecked *time.Time `json:"lastChecked,omitempty"`
}

// Prober periodically checks every registry candidate and republishes the
// alive-set. Probing is advisory: resolution requests never wait on it, they
// only read alive-set snapshots.
type Prober struct {
	registry *Registry
	alive    *AliveSet
	httpc    *http.Client
	interval time.Duration

	mu      sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	statusMu    sync.RWMutex
	lastChecked map[string]time.Time
}

// NewProber creates a prober over the given registry and alive-set.
func NewProber(registry *Registry, alive *AliveSet, probeTimeout, interval time.Duration) *Prober {
	if probeTimeout <= 0 {
		probeTimeout = 6 * time.Second
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Prober{
		registry:    registry,
		alive:       alive,
		httpc:       &http.Client{Timeout: probeTimeout},
		interval:    interval,
		lastChecked: make(map[string]time.Time),
	}
}

// Start begins the background probe loop. Starting twice is a no-op.
func (p *Prober) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return nil
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.running = true

	p.wg.Add(1)
	go p.loop()

	log.Printf("[prober] started: %d candidate(s), interval %s", p.registry.Len(), p.interval)
	return nil
}

// Stop cancels the loop and waits for the current cycle, bounded by ctx.
func (p *Prober) Stop(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return nil
	}

	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("[prober] stopped gracefully")
	case <-ctx.Done():
		log.Println("[prober] stopped (timeout)")
	}

	p.running = false
	return nil
}

func (p *Prober) loop() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// First cycle runs immediately so the alive-set is useful at startup.
	p.RunCycle(p.ctx)

	// Constant interval, no jitter or backoff: predictable staleness bounds
	// matter more than load shaping for a handful of candidates.
	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.RunCycle(p.ctx)
		}
	}
}

// RunCycle probes every registry candidate concurrently and replaces the
// alive-set with exactly the candidates that answered this cycle. Returns
// the alive addresses for callers that want the result synchronously.
func (p *Prober) RunCycle(ctx context.Context) []string {
	if ctx == nil {
		ctx = context.Background()
	}
	candidates := p.registry.List()
	results := make([]bool, len(candidates))

	var wg conc.WaitGroup
	for i, cand := range candidates {
		i, base := i, cand.BaseAddress
		wg.Go(func() {
			results[i] = p.probe(ctx, base)
		})
	}
	wg.Wait()

	now := time.Now().UTC()
	alive := make([]string, 0, len(candidates))
	for i, cand := range candidates {
		if results[i] {
			alive = append(alive, cand.BaseAddress)
		}
	}

	p.alive.Replace(alive)

	p.statusMu.Lock()
	for _, cand := range candidates {
		p.lastChecked[cand.BaseAddress] = now
	}
	p.statusMu.Unlock()

	log.Printf("[prober] cycle complete: %d/%d instance(s) alive", len(alive), len(candidates))
	return alive
}

// probe reports whether base answers 200 on any known lightweight path.
func (p *Prober) probe(ctx context.Context, base string) bool {
	for _, path := range probePaths {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, nil)
		if err != nil {
			continue
		}
		req.Header.Set("User-Agent", UserAgent)

		resp, err := p.httpc.Do(req)
		if err != nil {
			continue
		}
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			return true
		}
	}
	return false
}

// Status returns the registry in order with current liveness and the last
// probe completion time per candidate.
func (p *Prober) Status() []InstanceStatus {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()

	candidates := p.registry.List()
	out := make([]InstanceStatus, 0, len(candidates))
	for _, cand := range candidates {
		st := InstanceStatus{
			BaseAddress: cand.BaseAddress,
			Alive:       p.alive.Contains(cand.BaseAddress),
		}
		if t, ok := p.lastChecked[cand.BaseAddress]; ok {
			checked := t
			st.LastChecked = &checked
		}
		out = append(out, st)
	}
	return out
}
