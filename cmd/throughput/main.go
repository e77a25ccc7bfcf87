package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/delaneyj/pulseparty/pulse"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

var repeats = flag.Int("repeats", 3, "runs per scenario, best duration wins")

func main() {
	flag.Parse()

	log.Print("Starting pulseparty throughput run, please wait...")
	defer log.Print("Finished pulseparty throughput run")

	scenarios := []throughputScenario{
		{
			name:          "fan out",
			width:         100,
			iterations:    100_000,
			expectedCount: 10_000_000,
			build:         buildFanOut,
		},
		{
			name:          "deep chain",
			depth:         500,
			iterations:    50_000,
			expectedCount: 50_000,
			build:         buildDeepChain,
		},
		{
			name:          "buffered",
			width:         8,
			iterations:    100_000,
			expectedCount: 12_500,
			build:         buildBuffered,
		},
		{
			name:          "dropped head",
			depth:         1_000,
			iterations:    100_000,
			expectedCount: 99_000,
			build:         buildDrop,
		},
		{
			name:          "zip lockstep",
			iterations:    100_000,
			expectedCount: 100_000,
			build:         buildZip,
		},
		{
			name:          "merge round robin",
			width:         10,
			iterations:    500_000,
			expectedCount: 500_000,
			build:         buildMerge,
		},
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"scenario", "pulses", "delivered", "expected", "ok",
		"time", "pulses/ms", "checksum",
	})

	for _, sc := range scenarios {
		log.Printf("Running '%s' scenario", sc.name)

		best := runResult{duration: time.Hour}
		for i := 0; i < *repeats; i++ {
			log.Printf("Running '%s' scenario, run %d/%d", sc.name, i+1, *repeats)
			res := runScenario(sc)
			if res.duration < best.duration {
				best = res
			}
		}

		rate := float64(best.delivered) / (float64(best.duration) / float64(time.Millisecond))
		table.Append([]string{
			sc.name,
			humanize.Comma(sc.iterations),
			humanize.Comma(best.delivered),
			humanize.Comma(sc.expectedCount),
			fmt.Sprint(best.delivered == sc.expectedCount),
			fmt.Sprint(best.duration),
			humanize.Comma(int64(rate)),
			fmt.Sprintf("%016x", best.checksum),
		})
	}
	table.Render()
}

type throughputScenario struct {
	name          string // friendly name for the scenario, should be unique
	width         int    // fan-out width, buffer size or source count
	depth         int    // chain depth or drop count
	iterations    int64  // pulses pushed through the pipeline
	expectedCount int64  // receiver invocations expected, for verification
	build         func(sc throughputScenario, onDeliver func(uint64)) func(i int64)
}

type runResult struct {
	delivered int64
	checksum  uint64
	duration  time.Duration
}

// runScenario builds the pipeline fresh, drives it for the configured
// iteration count and folds every delivered payload into an xxhash digest.
func runScenario(sc throughputScenario) runResult {
	digest := xxhash.New()
	var delivered int64
	var scratch [8]byte

	drive := sc.build(sc, func(v uint64) {
		delivered++
		binary.LittleEndian.PutUint64(scratch[:], v)
		digest.Write(scratch[:])
	})

	start := time.Now()
	for i := int64(0); i < sc.iterations; i++ {
		drive(i)
	}
	return runResult{
		delivered: delivered,
		checksum:  digest.Sum64(),
		duration:  time.Since(start),
	}
}

func buildFanOut(sc throughputScenario, onDeliver func(uint64)) func(int64) {
	e := pulse.NewEmitter[uint64]()
	for i := 0; i < sc.width; i++ {
		e.Stream().Receive(onDeliver)
	}
	return func(i int64) {
		e.Emit(uint64(i))
	}
}

func buildDeepChain(sc throughputScenario, onDeliver func(uint64)) func(int64) {
	e := pulse.NewEmitter[uint64]()
	last := e.Stream()
	for i := 0; i < sc.depth; i++ {
		last = pulse.Map(last, func(v uint64) uint64 { return v + 1 })
	}
	last.Receive(onDeliver)
	return func(i int64) {
		e.Emit(uint64(i))
	}
}

func buildBuffered(sc throughputScenario, onDeliver func(uint64)) func(int64) {
	e := pulse.NewEmitter[uint64]()
	pulse.Buffer(e.Stream(), sc.width).Receive(func(buf []uint64) {
		onDeliver(buf[len(buf)-1])
	})
	return func(i int64) {
		e.Emit(uint64(i))
	}
}

func buildDrop(sc throughputScenario, onDeliver func(uint64)) func(int64) {
	e := pulse.NewEmitter[uint64]()
	pulse.Drop(e.Stream(), sc.depth).Receive(onDeliver)
	return func(i int64) {
		e.Emit(uint64(i))
	}
}

func buildZip(sc throughputScenario, onDeliver func(uint64)) func(int64) {
	a := pulse.NewEmitter[uint64]()
	b := pulse.NewEmitter[uint64]()
	pulse.Zip(a.Stream(), b.Stream()).Receive(func(p pulse.Pair[uint64, uint64]) {
		onDeliver(p.First ^ p.Second)
	})
	return func(i int64) {
		a.Emit(uint64(i))
		b.Emit(uint64(i) << 1)
	}
}

func buildMerge(sc throughputScenario, onDeliver func(uint64)) func(int64) {
	emitters := make([]*pulse.Emitter[uint64], sc.width)
	streams := make([]pulse.Stream[uint64], sc.width)
	for i := range emitters {
		emitters[i] = pulse.NewEmitter[uint64]()
		streams[i] = emitters[i].Stream()
	}
	pulse.MergeAll(streams...).Receive(onDeliver)
	return func(i int64) {
		emitters[i%int64(sc.width)].Emit(uint64(i))
	}
}
