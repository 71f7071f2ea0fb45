// Package report is the thin, external-facing collaborator spec section 6
// describes: it walks the global packet registry and a component's
// counter map and renders them as whitespace-separated trace lines. It
// never reaches into scheduler, link or router internals — only the
// counter-map and packet-metadata contract every core component already
// exposes.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/sarchlab/hextorus/netclock"
)

// Hook receives the scheduler's per-task clock stream: it runs after
// every task the scheduler executes, whether or not the clock value
// changed since the previous task.
type Hook func(clock uint64)

// ClockChangedHook receives the per-scheduled-cycle clock-changed signal:
// it runs only when the clock advances to a new value, once per cycle
// rather than once per task.
type ClockChangedHook func(clock uint64)

// CounterSource is anything exposing the string-keyed counter map every
// core component (generator, router, chip, board, torus) already
// implements.
type CounterSource interface {
	Counters() map[string]int
}

// Recorder renders a CounterSource's counters, one line per clock change,
// and the System's packet registry as a post-run trace. Column order is
// the counter map's keys sorted alphabetically, fixed the first time
// Recorder observes the counter map so every line shares one header.
type Recorder struct {
	system   *netclock.System
	source   CounterSource
	out      io.Writer
	columns  []string
	seeded   bool
	last     uint64
	haveLast bool
}

// NewRecorder creates a Recorder writing to out.
func NewRecorder(system *netclock.System, source CounterSource, out io.Writer) *Recorder {
	if system == nil || source == nil || out == nil {
		panic("report: recorder requires a system, a counter source and a writer")
	}
	return &Recorder{system: system, source: source, out: out}
}

// Hook adapts the Recorder to the per-task Hook signature, emitting a
// counters line only the first time each distinct clock value is seen —
// collapsing the per-task stream down to the clock-changed signal.
func (r *Recorder) Hook(clock uint64) {
	if r.haveLast && clock == r.last {
		return
	}
	r.haveLast = true
	r.last = clock
	r.ClockChanged(clock)
}

// ClockChanged writes one counters line for the given clock value,
// writing the '#'-prefixed header first if this is the first line.
func (r *Recorder) ClockChanged(clock uint64) {
	counters := r.source.Counters()
	if !r.seeded {
		r.columns = make([]string, 0, len(counters))
		for k := range counters {
			r.columns = append(r.columns, k)
		}
		sort.Strings(r.columns)
		r.seeded = true
		fmt.Fprint(r.out, "# clock")
		for _, c := range r.columns {
			fmt.Fprintf(r.out, " %s", c)
		}
		fmt.Fprintln(r.out)
	}

	fmt.Fprintf(r.out, "%d", clock)
	for _, c := range r.columns {
		fmt.Fprintf(r.out, " %d", counters[c])
	}
	fmt.Fprintln(r.out)
}

// WritePacketTrace renders the System's full packet registry as a
// whitespace-separated table, one row per packet ever created.
func (r *Recorder) WritePacketTrace() {
	fmt.Fprintln(r.out, "# handle id source_x source_y dest_x dest_y send_time received receive_time dropped drop_time drop_x drop_y distance emergency_hops")
	for _, p := range r.system.Packets() {
		fmt.Fprintf(r.out, "%d %s %d %d %d %d %d %t %d %t %d %d %d %d %d\n",
			p.Handle, p.ID,
			p.Source.X, p.Source.Y,
			p.Destination.X, p.Destination.Y,
			p.SendTime,
			p.Received, p.ReceiveTime,
			p.Dropped, p.DropTime, p.DropLocation.X, p.DropLocation.Y,
			p.Distance, len(p.EmergencyTrace))
	}
}
