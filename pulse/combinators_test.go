package pulse_test

import (
	"strconv"
	"testing"

	"github.com/delaneyj/pulseparty/pulse"
	"github.com/stretchr/testify/assert"
)

// should transform each pulse through the map function
func TestMap(t *testing.T) {
	e := pulse.NewEmitter[int]()
	var seen []string
	pulse.Map(e.Stream(), strconv.Itoa).Receive(func(s string) {
		seen = append(seen, s)
	})

	e.Emit(1)
	e.Emit(2)

	assert.Equal(t, []string{"1", "2"}, seen)
}

// should forward only pulses matching the predicate
func TestFilter(t *testing.T) {
	e := pulse.NewEmitter[int]()
	var seen []int
	e.Stream().Filter(func(v int) bool { return v%2 == 0 }).Receive(func(v int) {
		seen = append(seen, v)
	})

	for i := 1; i <= 6; i++ {
		e.Emit(i)
	}

	assert.Equal(t, []int{2, 4, 6}, seen)
}

// should merge both sources in push order with no origin metadata
func TestMergeTransparency(t *testing.T) {
	x := pulse.NewEmitter[string]()
	y := pulse.NewEmitter[string]()
	var seen []string
	r := x.Stream().Merge(y.Stream()).Receive(func(v string) {
		seen = append(seen, v)
	})

	x.Emit("a")
	y.Emit("b")

	assert.Equal(t, []string{"a", "b"}, seen)

	r.Cancel()
	x.Emit("c")
	y.Emit("d")
	assert.Equal(t, []string{"a", "b"}, seen)
	assert.Equal(t, 0, x.Registry().Count())
	assert.Equal(t, 0, y.Registry().Count())
}

// should fold any number of streams pairwise
func TestMergeAll(t *testing.T) {
	a := pulse.NewEmitter[int]()
	b := pulse.NewEmitter[int]()
	c := pulse.NewEmitter[int]()
	var seen []int
	pulse.MergeAll(a.Stream(), b.Stream(), c.Stream()).Receive(func(v int) {
		seen = append(seen, v)
	})

	a.Emit(1)
	b.Emit(2)
	c.Emit(3)

	assert.Equal(t, []int{1, 2, 3}, seen)
}

// should emit immediately from either side without waiting for the other
func TestEither(t *testing.T) {
	a := pulse.NewEmitter[int]()
	b := pulse.NewEmitter[string]()
	var seen []pulse.Pair[pulse.Maybe[int], pulse.Maybe[string]]
	pulse.Either(a.Stream(), b.Stream()).Receive(func(p pulse.Pair[pulse.Maybe[int], pulse.Maybe[string]]) {
		seen = append(seen, p)
	})

	a.Emit(1)
	b.Emit("x")

	assert.Len(t, seen, 2)
	assert.Equal(t, pulse.PairOf(pulse.Some(1), pulse.None[string]()), seen[0])
	assert.Equal(t, pulse.PairOf(pulse.None[int](), pulse.Some("x")), seen[1])
}

// should tag the producing side in the union
func TestOneOf(t *testing.T) {
	a := pulse.NewEmitter[int]()
	b := pulse.NewEmitter[string]()
	var seen []pulse.Union[int, string]
	pulse.OneOf(a.Stream(), b.Stream()).Receive(func(u pulse.Union[int, string]) {
		seen = append(seen, u)
	})

	b.Emit("y")
	a.Emit(2)

	assert.Len(t, seen, 2)
	assert.Equal(t, pulse.SideRight, seen[0].Side)
	assert.Equal(t, "y", seen[0].Right)
	assert.Equal(t, pulse.SideLeft, seen[1].Side)
	assert.Equal(t, 2, seen[1].Left)
}

// should pair the oldest pending element from each side
func TestZipPairing(t *testing.T) {
	a := pulse.NewEmitter[int]()
	b := pulse.NewEmitter[int]()
	var seen []pulse.Pair[int, int]
	pulse.Zip(a.Stream(), b.Stream()).Receive(func(p pulse.Pair[int, int]) {
		seen = append(seen, p)
	})

	a.Emit(1)
	a.Emit(2)
	b.Emit(10)
	assert.Equal(t, []pulse.Pair[int, int]{pulse.PairOf(1, 10)}, seen)

	b.Emit(20)
	assert.Equal(t, []pulse.Pair[int, int]{pulse.PairOf(1, 10), pulse.PairOf(2, 20)}, seen)
}

// should trim the oldest buffered elements beyond the configured capacity
func TestZipCapacityTrim(t *testing.T) {
	a := pulse.NewEmitter[int]()
	b := pulse.NewEmitter[string]()
	var seen []pulse.Pair[int, string]
	pulse.Zip(a.Stream(), b.Stream(), pulse.ZipCapacity(1)).Receive(func(p pulse.Pair[int, string]) {
		seen = append(seen, p)
	})

	a.Emit(1)
	a.Emit(2)
	a.Emit(3)
	b.Emit("x")

	assert.Equal(t, []pulse.Pair[int, string]{pulse.PairOf(3, "x")}, seen)
}

// should give each subscription its own zip buffers
func TestZipBuffersPerSubscription(t *testing.T) {
	a := pulse.NewEmitter[int]()
	b := pulse.NewEmitter[int]()
	zipped := pulse.Zip(a.Stream(), b.Stream())

	var first []pulse.Pair[int, int]
	zipped.Receive(func(p pulse.Pair[int, int]) { first = append(first, p) })

	a.Emit(1)

	var second []pulse.Pair[int, int]
	zipped.Receive(func(p pulse.Pair[int, int]) { second = append(second, p) })

	b.Emit(10)

	assert.Equal(t, []pulse.Pair[int, int]{pulse.PairOf(1, 10)}, first)
	assert.Empty(t, second)
}

// should stay silent until both sides have emitted, then pair latest values
func TestCombinePriming(t *testing.T) {
	a := pulse.NewEmitter[int]()
	b := pulse.NewEmitter[int]()
	var seen []pulse.Pair[int, int]
	pulse.Combine(a.Stream(), b.Stream()).Receive(func(p pulse.Pair[int, int]) {
		seen = append(seen, p)
	})

	a.Emit(1)
	assert.Empty(t, seen)

	b.Emit(5)
	assert.Equal(t, []pulse.Pair[int, int]{pulse.PairOf(1, 5)}, seen)

	a.Emit(2)
	assert.Equal(t, []pulse.Pair[int, int]{pulse.PairOf(1, 5), pulse.PairOf(2, 5)}, seen)
}

// should pair every pulse with the source of its originating channel
func TestConcatIdentifiesOrigin(t *testing.T) {
	a := pulse.NewEmitter[int]()
	b := pulse.NewEmitter[int]()
	var seen []pulse.Sourced[string, int]
	r := pulse.Concat(
		pulse.NewChannel("left", a.Stream()),
		pulse.NewChannel("right", b.Stream()),
	).Receive(func(s pulse.Sourced[string, int]) {
		seen = append(seen, s)
	})

	a.Emit(1)
	b.Emit(2)

	assert.Equal(t, []pulse.Sourced[string, int]{
		{Source: "left", Pulse: 1},
		{Source: "right", Pulse: 2},
	}, seen)

	r.Cancel()
	a.Emit(3)
	assert.Len(t, seen, 2)
}

// should merge inner streams as the outer stream delivers them
func TestFlatten(t *testing.T) {
	outer := pulse.NewEmitter[pulse.Stream[int]]()
	inner1 := pulse.NewEmitter[int]()
	inner2 := pulse.NewEmitter[int]()

	var seen []int
	r := pulse.Flatten(outer.Stream()).Receive(func(v int) {
		seen = append(seen, v)
	})

	outer.Emit(inner1.Stream())
	inner1.Emit(1)
	outer.Emit(inner2.Stream())
	inner2.Emit(2)
	inner1.Emit(3)

	assert.Equal(t, []int{1, 2, 3}, seen)

	r.Cancel()
	inner1.Emit(4)
	inner2.Emit(5)
	assert.Equal(t, []int{1, 2, 3}, seen)
	assert.Equal(t, 0, inner1.Registry().Count())
	assert.Equal(t, 0, inner2.Registry().Count())
}

// should flatten the streams produced by the map function
func TestFlatMap(t *testing.T) {
	trigger := pulse.NewEmitter[int]()
	digits := pulse.NewEmitter[int]()

	var seen []int
	pulse.FlatMap(trigger.Stream(), func(base int) pulse.Stream[int] {
		return pulse.Map(digits.Stream(), func(d int) int { return base + d })
	}).Receive(func(v int) {
		seen = append(seen, v)
	})

	trigger.Emit(10)
	digits.Emit(1)
	trigger.Emit(20)
	digits.Emit(2)

	assert.Equal(t, []int{11, 12, 22}, seen)
}
