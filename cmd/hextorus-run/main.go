// Command hextorus-run is the thin reference runner: it assembles a
// Scheduler, System and Torus of configurable size, pumps the clock for a
// fixed number of cycles, and writes the counters-over-time and
// post-run packet trace spec.md section 6 describes. It carries none of
// the scientific parametrization logic of a real experiment driver —
// picking packet_prob sweeps, drop-area grids and the like is left to
// whatever external script invokes this binary.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/hextorus/netclock"
	"github.com/sarchlab/hextorus/report"
	"github.com/sarchlab/hextorus/scheduler"
	"github.com/sarchlab/hextorus/torus"
)

func main() {
	width := flag.Int("width", 1, "torus tile width, in boards")
	height := flag.Int("height", 1, "torus tile height, in boards")
	cycles := flag.Uint64("cycles", 1000, "number of scheduler cycles to run")
	timePhasePeriod := flag.Int64("time-phase-period", 1000, "cycles per system time-phase advance")
	packetProb := flag.Float64("packet-prob", 0.01, "per-cycle probability a generator injects a packet")
	waitBeforeEmergency := flag.Int("wait-before-emergency", 2, "router dwell cycles before emergency re-routing")
	waitBeforeDrop := flag.Int("wait-before-drop", 8, "router dwell cycles before a packet is dropped")
	injectionBufferLength := flag.Int("injection-buffer-length", 4, "capacity of each chip's injection buffer link (exit link is always unbounded)")
	countersPath := flag.String("counters-out", "", "file to write the counters-over-time trace to (default: stdout)")
	packetsPath := flag.String("packets-out", "", "file to write the post-run packet trace to (if set)")
	flag.Parse()

	sched := scheduler.New()
	system := netclock.NewSystem(sched, *timePhasePeriod)

	tr := torus.NewBuilder().
		WithScheduler(sched).
		WithSystem(system).
		WithPacketProb(*packetProb).
		WithWaitBeforeEmergency(*waitBeforeEmergency).
		WithWaitBeforeDrop(*waitBeforeDrop).
		WithInjectionBufferLength(*injectionBufferLength).
		Build(*width, *height)

	countersOut := os.Stdout
	if *countersPath != "" {
		f, err := os.Create(*countersPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "hextorus-run:", err)
			os.Exit(1)
		}
		countersOut = f
		atexit.Register(func() { f.Close() })
	}

	rec := report.NewRecorder(system, tr, countersOut)

	system.Start()
	tr.Start()
	for c := uint64(1); c <= *cycles; c++ {
		sched.RunUntil(c)
		rec.ClockChanged(c)
	}

	if *packetsPath != "" {
		f, err := os.Create(*packetsPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "hextorus-run:", err)
			atexit.Exit(1)
		}
		defer f.Close()
		report.NewRecorder(system, tr, f).WritePacketTrace()
	}

	atexit.Exit(0)
}
