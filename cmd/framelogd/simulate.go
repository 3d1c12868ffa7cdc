package main

import (
	"math/rand"
	"sync"
	"time"

	"framelog/internal/engine"
)

// simulator drives the engine with the same five producer shapes as a
// display driver runtime: a VSYNC interrupt handler, a command buffer
// processor, a VRAM manager, a GPU error handler, and a performance
// monitor. Each runs on its own goroutine until stop is called.
type simulator struct {
	eng     *engine.Engine
	running chan struct{}
	wg      sync.WaitGroup
}

func newSimulator(eng *engine.Engine) *simulator {
	return &simulator{eng: eng, running: make(chan struct{})}
}

func (s *simulator) start() {
	producers := []func(){
		s.vsyncHandler,
		s.commandBufferProcessor,
		s.memoryManager,
		s.errorHandler,
		s.performanceMonitor,
	}
	for _, p := range producers {
		s.wg.Add(1)
		go func(fn func()) {
			defer s.wg.Done()
			fn()
		}(p)
	}
}

func (s *simulator) stop() {
	close(s.running)
	s.wg.Wait()
}

func (s *simulator) stopped() bool {
	select {
	case <-s.running:
		return true
	default:
		return false
	}
}

func (s *simulator) vsyncHandler() {
	rng := rand.New(rand.NewSource(1))
	frame := 0
	for !s.stopped() {
		s.eng.Trace("VSYNC interrupt received")

		if frame%60 == 0 {
			s.eng.Infof("Frame %d completed", frame)
		}
		if frame%500 == 499 {
			s.eng.Warningf("Screen tearing detected at frame %d", frame)
		}

		frame++
		time.Sleep(time.Duration(14+rng.Intn(5)) * time.Millisecond)
	}
}

var gpuCommands = []string{
	"DRAW_INDEXED", "CLEAR", "PRESENT", "SET_VIEWPORT",
	"BIND_PIPELINE", "UPDATE_BUFFER", "COPY_TEXTURE",
}

func (s *simulator) commandBufferProcessor() {
	rng := rand.New(rand.NewSource(2))
	for !s.stopped() {
		numCommands := 1 + rng.Intn(10)
		for i := 0; i < numCommands; i++ {
			cmd := gpuCommands[i%len(gpuCommands)]
			size := 1024 + rng.Intn(65536-1024)
			s.eng.Debugf("Processing command: %s [size: %d bytes]", cmd, size)
			time.Sleep(time.Duration(size/100) * time.Microsecond)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func (s *simulator) memoryManager() {
	rng := rand.New(rand.NewSource(3))
	const maxMemory = 2 * 1024 * 1024 * 1024 // 2GB VRAM simulation
	var totalAllocated uint64

	for !s.stopped() {
		allocSize := uint64(1024 + rng.Intn(1024*1024-1024))

		if totalAllocated+allocSize < maxMemory {
			totalAllocated += allocSize
			s.eng.Tracef("Allocated %d bytes of VRAM [Total: %d]", allocSize, totalAllocated)
		} else {
			s.eng.Warning("VRAM allocation failed - insufficient memory")
			totalAllocated = totalAllocated * 7 / 10 // free 30%
			s.eng.Info("Performed VRAM garbage collection, freed memory")
		}

		pressure := float64(totalAllocated) / float64(maxMemory)
		switch {
		case pressure > 0.9:
			s.eng.Criticalf("Critical VRAM pressure: %d%% utilized", int(pressure*100))
		case pressure > 0.75:
			s.eng.Warningf("High VRAM usage: %d%% utilized", int(pressure*100))
		}

		time.Sleep(50 * time.Millisecond)
	}
}

var gpuErrors = []string{
	"GPU timeout detected",
	"Invalid command buffer",
	"Shader compilation failed",
	"Surface lost",
	"Device removed",
	"TDR (Timeout Detection and Recovery) triggered",
}

func (s *simulator) errorHandler() {
	rng := rand.New(rand.NewSource(4))
	for !s.stopped() {
		chance := rng.Intn(1000)
		switch {
		case chance < 5: // 0.5% chance of critical error
			s.eng.Critical(gpuErrors[len(gpuErrors)-1])
			s.eng.Error("Initiating GPU reset sequence")
			time.Sleep(100 * time.Millisecond)
			s.eng.Info("GPU reset completed successfully")
		case chance < 20: // 1.5% chance of regular error
			s.eng.Error(gpuErrors[chance%5])
		case chance < 100: // 8% chance of warning
			s.eng.Warning("GPU temperature threshold approaching")
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func (s *simulator) performanceMonitor() {
	rng := rand.New(rand.NewSource(5))
	for !s.stopped() {
		fps := 55 + rng.Intn(11)
		gpuUtil := 40 + rng.Intn(61)
		vramUtil := 40 + rng.Intn(61)

		s.eng.Infof("Performance: FPS=%d, GPU=%d%%, VRAM=%d%%", fps, gpuUtil, vramUtil)

		if fps < 60 {
			s.eng.Warningf("Frame rate below target: %d FPS", fps)
		}
		if gpuUtil > 95 {
			s.eng.Warningf("GPU bottleneck detected: %d%% utilization", gpuUtil)
		}

		time.Sleep(1 * time.Second)
	}
}
