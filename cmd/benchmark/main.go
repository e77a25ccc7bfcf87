package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/delaneyj/pulseparty/pulse"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

const (
	itersKey   = "iters"
	profileKey = "profile"
)

var (
	ww = []int{1, 10, 100, 1_000}
	hh = []int{1, 10, 100, 1_000}
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Measure pulse dispatch latency across fan-out and chain depth",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  itersKey,
				Usage: "Emissions measured per configuration",
				Value: 100,
			},
			&cli.BoolFlag{
				Name:  profileKey,
				Usage: "Write a CPU profile to default.pgo",
				Value: true,
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	iters := int(cmd.Int(itersKey))

	if cmd.Bool(profileKey) {
		f, err := os.Create("default.pgo")
		if err != nil {
			return err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	log.Printf("warming up")
	benchmarkFanOut(iters, false)

	benchmarkFanOut(iters, true)
	benchmarkChain(iters, true)
	benchmarkReduceChain(iters, true)
	return nil
}

func addOne(v int) int {
	return v + 1
}

// w receivers on a single emitter, each behind a chain of h map phases.
func benchmarkFanOut(iters int, shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle("Fan-Out Dispatch")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			e := pulse.NewEmitter[int]()
			sink := 0
			for i := 0; i < w; i++ {
				last := e.Stream()
				for j := 0; j < h; j++ {
					last = pulse.Map(last, addOne)
				}
				last.Receive(func(v int) {
					sink += v
				})
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				e.Emit(i)
				tach.AddTime(time.Since(start))
			}

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("dispatch: %d * %d", w, h),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
				},
			})
		}
	}

	if shouldRender {
		tbl.Render()
	}
}

// one receiver at the bottom of h stacked filter+map phases.
func benchmarkChain(iters int, shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle("Phase Chain Depth")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, h := range hh {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})

		e := pulse.NewEmitter[int]()
		last := e.Stream()
		for j := 0; j < h; j++ {
			last = pulse.Map(last.Filter(func(v int) bool { return v >= 0 }), addOne)
		}
		sink := 0
		last.Receive(func(v int) {
			sink += v
		})

		for i := 0; i < iters; i++ {
			start := time.Now()
			e.Emit(i)
			tach.AddTime(time.Since(start))
		}

		calc := tach.Calc()
		tbl.AppendRows([]table.Row{
			{
				fmt.Sprintf("chain: depth %d", h),
				calc.Time.Avg,
				calc.Time.Min,
				calc.Time.P75,
				calc.Time.P99,
				calc.Time.Max,
			},
		})
	}

	if shouldRender {
		tbl.Render()
	}
}

// w receivers sharing one reduce accumulator through an effect source.
func benchmarkReduceChain(iters int, shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle("Shared Reduce Fan-Out")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, w := range ww {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})

		e := pulse.NewEmitter[int]()
		summed := pulse.Reduce(e.Stream(), 0, func(acc, v int) int { return acc + v })
		sink := 0
		for i := 0; i < w; i++ {
			summed.Receive(func(v int) {
				sink += v
			})
		}

		for i := 0; i < iters; i++ {
			start := time.Now()
			e.Emit(i)
			tach.AddTime(time.Since(start))
		}

		calc := tach.Calc()
		tbl.AppendRows([]table.Row{
			{
				fmt.Sprintf("reduce: %d receivers", w),
				calc.Time.Avg,
				calc.Time.Min,
				calc.Time.P75,
				calc.Time.P99,
				calc.Time.Max,
			},
		})
	}

	if shouldRender {
		tbl.Render()
	}
}
