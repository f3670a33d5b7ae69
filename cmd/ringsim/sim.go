// File: cmd/ringsim/sim.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Producer, consumer and metrics endpoint around one Blocks ring.

package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/control"
	"github.com/momentics/hioload-ring/internal/concurrency"
	"github.com/momentics/hioload-ring/pool"
	"github.com/momentics/hioload-ring/pool/backlog"
	"github.com/momentics/hioload-ring/ring"
)

// Every record starts with a little-endian sequence number.
const seqSize = 4

// auditEvery is the number of consumer ticks between snapshot audits.
const auditEvery = 64

// records lets the backlog feed a Blocks ring one record at a time.
type records struct{ *ring.Blocks }

var _ api.Ring[[]byte] = records{}

func (r records) Pop() ([]byte, bool) {
	rec := make([]byte, r.ElementSize())
	return rec, r.Blocks.Pop(rec) == 1
}

type simulator struct {
	logger   *slog.Logger
	name     string
	lockMode string
	region   *pool.Region
	buf      *ring.Blocks
	spill    *backlog.Spill[[]byte]
	registry *prometheus.Registry
	metrics  *control.MetricsRegistry
	probes   *control.DebugProbes

	producer control.ProducerConfig
	consumer control.ConsumerConfig
	// locked is false in LockNone mode, where PushBack and snapshots
	// would race the producer.
	locked bool

	// gateMu serialises config-driven gate changes with the consumer's
	// own gate handling.
	gateMu   sync.Mutex
	wantPush bool

	// producer goroutine only
	nextSeq uint32
	batch   []byte

	// consumer goroutine only
	expect  uint32
	scratch []byte
	peek    []byte

	produced  atomic.Uint64
	consumed  atomic.Uint64
	frames    atomic.Uint64
	short     atomic.Uint64
	partials  atomic.Uint64
	gaps      atomic.Uint64
	audits    atomic.Uint64
	auditHeld atomic.Int64
}

func newSimulator(cfg *control.Config, logger *slog.Logger) (*simulator, error) {
	bc := cfg.Buffer
	if bc.ElementSize < seqSize {
		return nil, fmt.Errorf("%w: element_size %d cannot carry a %d-byte sequence number",
			api.ErrInvalidArgument, bc.ElementSize, seqSize)
	}

	var regionOpts []pool.RegionOption
	if !bc.Mapped {
		regionOpts = append(regionOpts, pool.WithHeap())
	}
	if bc.Locked {
		regionOpts = append(regionOpts, pool.WithLocked())
	}
	region, err := pool.AllocateBlocks(bc.Capacity, bc.ElementSize, regionOpts...)
	if err != nil {
		return nil, fmt.Errorf("allocate %s storage: %w", bc.Name, err)
	}
	if bc.Locked && !region.Locked() {
		logger.Warn("storage is not pinned in RAM", "buffer", bc.Name)
	}

	// Gates follow the config file, so PushBack must not reopen them.
	opts := []ring.Option{ring.WithGatePreservingPushBack()}
	switch bc.Lock {
	case control.LockSpin:
		locks := concurrency.NewLockSet(1, nil)
		opts = append(opts, ring.WithHooks(locks.Acquire, locks.Release, 0))
	case control.LockMutex:
		opts = append(opts, ring.WithLocker(&sync.Mutex{}))
	}
	if bc.StrictPushBack {
		opts = append(opts, ring.WithStrictPushBack())
	}
	buf := ring.NewBlocks(region.Bytes(), bc.Capacity, bc.ElementSize, opts...)

	s := &simulator{
		logger:   logger.With("buffer", bc.Name),
		name:     bc.Name,
		lockMode: bc.Lock,
		region:   region,
		buf:      buf,
		spill:    backlog.New[[]byte](records{buf}, cfg.Producer.BacklogLimit),
		registry: prometheus.NewRegistry(),
		metrics:  control.NewMetricsRegistry(),
		probes:   control.NewDebugProbes(),
		producer: cfg.Producer,
		consumer: cfg.Consumer,
		locked:   bc.Lock != control.LockNone,
		batch:    make([]byte, cfg.Producer.Batch*bc.ElementSize),
		scratch:  make([]byte, cfg.Consumer.Frame*bc.ElementSize),
		peek:     make([]byte, bc.Capacity*bc.ElementSize),
	}
	s.applyGates(bc)

	s.registry.MustRegister(
		control.NewCollector(bc.Name, buf, buf.Stats()),
		collectors.NewGoCollector(),
	)
	s.probes.RegisterBuffer(bc.Name, buf)
	s.probes.RegisterProbe("sim", func() any { return s.counters() })
	control.RegisterPlatformProbes(s.probes)
	return s, nil
}

func (s *simulator) close() error {
	return s.region.Close()
}

func (s *simulator) applyGates(bc control.BufferConfig) {
	s.gateMu.Lock()
	defer s.gateMu.Unlock()
	s.wantPush = bc.PushEnabled
	if bc.PushEnabled {
		s.buf.EnablePush()
	} else {
		s.buf.DisablePush()
	}
	if bc.PopEnabled {
		s.buf.EnablePop()
	} else {
		s.buf.DisablePop()
	}
}

// reconfigure is the ConfigStore listener. Only the gates change at run
// time; the layout is fixed once storage is allocated.
func (s *simulator) reconfigure(cfg *control.Config) {
	s.applyGates(cfg.Buffer)
	s.logger.Info("configuration reloaded",
		"push_enabled", cfg.Buffer.PushEnabled,
		"pop_enabled", cfg.Buffer.PopEnabled,
	)
	bc := cfg.Buffer
	if bc.Name != s.name || bc.Capacity != s.buf.Cap() || bc.ElementSize != s.buf.ElementSize() || bc.Lock != s.lockMode {
		s.logger.Warn("buffer layout changes take effect after restart",
			"capacity", bc.Capacity,
			"element_size", bc.ElementSize,
			"lock", bc.Lock,
		)
	}
}

func (s *simulator) runProducer(ctx context.Context) error {
	if s.producer.CPU >= 0 {
		unpin, err := concurrency.PinCurrentThread(s.producer.CPU)
		if err != nil {
			s.logger.Warn("producer runs unpinned", "cpu", s.producer.CPU, "error", err)
		} else {
			defer unpin()
			s.logger.Debug("producer pinned", "cpu", s.producer.CPU)
		}
	}
	ticker := time.NewTicker(s.producer.Period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.produceOnce()
		}
	}
}

// produceOnce emits one batch. Earlier spilled records go first so the
// ring sees sequence numbers in order.
func (s *simulator) produceOnce() {
	size := s.buf.ElementSize()
	n := s.producer.Batch
	for i := 0; i < n; i++ {
		s.stamp(s.batch[i*size : (i+1)*size])
	}
	s.produced.Add(uint64(n))

	s.spill.Drain()
	if s.spill.Pending() == 0 && s.buf.PushStream(s.batch) {
		return
	}
	for i := 0; i < n; i++ {
		if !s.spill.Offer(bytes.Clone(s.batch[i*size : (i+1)*size])) {
			s.logger.Debug("record dropped", "pending", s.spill.Pending())
		}
	}
}

func (s *simulator) stamp(rec []byte) {
	binary.LittleEndian.PutUint32(rec, s.nextSeq)
	for i := seqSize; i < len(rec); i++ {
		rec[i] = byte(s.nextSeq)
	}
	s.nextSeq++
}

func (s *simulator) runConsumer(ctx context.Context) error {
	ticker := time.NewTicker(s.consumer.Period)
	defer ticker.Stop()
	for tick := 1; ; tick++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.consumeOnce()
			if s.locked && tick%auditEvery == 0 {
				s.audit()
			}
		}
	}
}

// consumeOnce takes whole frames while they are available. A partial
// frame is pushed back to wait for the rest of it.
func (s *simulator) consumeOnce() {
	for {
		n := s.buf.PopStream(s.scratch)
		if n == 0 {
			return
		}
		if n == s.consumer.Frame {
			s.check(s.scratch, n)
			s.frames.Add(1)
			continue
		}
		if s.locked && s.pushBack(n) {
			s.partials.Add(1)
			return
		}
		// The popped copy in scratch is still intact.
		s.check(s.scratch, n)
		s.short.Add(1)
		return
	}
}

func (s *simulator) pushBack(n int) bool {
	s.gateMu.Lock()
	defer s.gateMu.Unlock()
	return s.buf.PushBack(n)
}

func (s *simulator) check(data []byte, n int) {
	size := s.buf.ElementSize()
	for i := 0; i < n; i++ {
		seq := binary.LittleEndian.Uint32(data[i*size:])
		if seq != s.expect {
			s.gaps.Add(1)
			s.logger.Debug("sequence gap", "want", s.expect, "got", seq)
		}
		s.expect = seq + 1
	}
	s.consumed.Add(uint64(n))
}

// audit reads everything held and rolls the read back. The push gate
// stays closed meanwhile so the rollback cannot discard new records.
func (s *simulator) audit() {
	s.gateMu.Lock()
	defer s.gateMu.Unlock()

	s.buf.DisablePush()
	s.buf.SaveState()
	n := s.buf.PopStream(s.peek)
	s.buf.RestoreState()
	if s.wantPush {
		s.buf.EnablePush()
	}

	s.audits.Add(1)
	s.auditHeld.Store(int64(n))
	if n > 0 {
		s.logger.Debug("audit",
			"held", n,
			"first", binary.LittleEndian.Uint32(s.peek),
			"last", binary.LittleEndian.Uint32(s.peek[(n-1)*s.buf.ElementSize():]),
		)
	}
}

func (s *simulator) counters() map[string]uint64 {
	return map[string]uint64{
		"produced":     s.produced.Load(),
		"consumed":     s.consumed.Load(),
		"frames":       s.frames.Load(),
		"short_frames": s.short.Load(),
		"pushed_back":  s.partials.Load(),
		"gaps":         s.gaps.Load(),
		"audits":       s.audits.Load(),
	}
}

func (s *simulator) refreshMetrics() {
	s.metrics.PublishStats(s.name, s.buf.Stats())
	for k, v := range s.counters() {
		s.metrics.Set("sim."+k, v)
	}
	s.metrics.Set("sim.audit_held", s.auditHeld.Load())
}

func (s *simulator) serveMetrics(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/debug/state", func(w http.ResponseWriter, _ *http.Request) {
		s.refreshMetrics()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"probes":  s.probes.DumpState(),
			"metrics": s.metrics.GetSnapshot(),
		})
	})
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("metrics endpoint listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics shutdown: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics endpoint: %w", err)
	}
}

// report logs the totals. It runs after the producer and consumer exit.
func (s *simulator) report(elapsed time.Duration) {
	s.refreshMetrics()
	snap := s.buf.Stats().Snapshot()
	s.logger.Info("simulation finished",
		"elapsed", elapsed,
		"produced", s.produced.Load(),
		"consumed", s.consumed.Load(),
		"frames", s.frames.Load(),
		"pushed_back", snap.PushedBack,
		"rejected", snap.Rejected(),
		"high_water", snap.HighWater,
		"held", s.buf.Len(),
		"backlog", s.spill.Pending(),
		"dropped", s.spill.Dropped(),
		"gaps", s.gaps.Load(),
	)
	s.logger.Debug("final metrics", "metrics", s.metrics.GetSnapshot())
}
