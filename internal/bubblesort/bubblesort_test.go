package bubblesort

import (
	"context"
	"encoding/json"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type fakeClock struct {
	times []time.Time
}

func (c *fakeClock) Now() time.Time {
	t := c.times[0]
	if len(c.times) > 1 {
		c.times = c.times[1:]
	}
	return t
}

func sortTrace(input []int) Result {
	return NewSorter().Sort(context.Background(), input)
}

func passCount(steps []Step) int {
	count := 0
	for i, s := range steps {
		if i > 0 && len(s.Comparing) == 0 && s.Description != "Sorting complete!" {
			count++
		}
	}
	return count
}

func TestSort_ExampleTrace(t *testing.T) {
	t.Parallel()

	res := sortTrace([]int{5, 3, 8, 1})

	want := []Step{
		{Array: []int{5, 3, 8, 1}, Comparing: []int{}, Sorted: []int{}, Description: "Starting Bubble Sort. Array size: 4"},
		{Array: []int{5, 3, 8, 1}, Comparing: []int{0, 1}, Sorted: []int{}, Description: "Comparing 5 and 3"},
		{Array: []int{3, 5, 8, 1}, Comparing: []int{0, 1}, Swapping: true, Sorted: []int{}, Description: "Swapping 5 and 3"},
		{Array: []int{3, 5, 8, 1}, Comparing: []int{1, 2}, Sorted: []int{}, Description: "Comparing 5 and 8"},
		{Array: []int{3, 5, 8, 1}, Comparing: []int{2, 3}, Sorted: []int{}, Description: "Comparing 8 and 1"},
		{Array: []int{3, 5, 1, 8}, Comparing: []int{2, 3}, Swapping: true, Sorted: []int{}, Description: "Swapping 8 and 1"},
		{Array: []int{3, 5, 1, 8}, Comparing: []int{}, Sorted: []int{3}, Description: "Pass 1 complete. Element 8 is sorted."},
		{Array: []int{3, 5, 1, 8}, Comparing: []int{0, 1}, Sorted: []int{3}, Description: "Comparing 3 and 5"},
		{Array: []int{3, 5, 1, 8}, Comparing: []int{1, 2}, Sorted: []int{3}, Description: "Comparing 5 and 1"},
		{Array: []int{3, 1, 5, 8}, Comparing: []int{1, 2}, Swapping: true, Sorted: []int{3}, Description: "Swapping 5 and 1"},
		{Array: []int{3, 1, 5, 8}, Comparing: []int{}, Sorted: []int{3, 2}, Description: "Pass 2 complete. Element 5 is sorted."},
		{Array: []int{3, 1, 5, 8}, Comparing: []int{0, 1}, Sorted: []int{3, 2}, Description: "Comparing 3 and 1"},
		{Array: []int{1, 3, 5, 8}, Comparing: []int{0, 1}, Swapping: true, Sorted: []int{3, 2}, Description: "Swapping 3 and 1"},
		{Array: []int{1, 3, 5, 8}, Comparing: []int{}, Sorted: []int{3, 2, 1}, Description: "Pass 3 complete. Element 3 is sorted."},
		{Array: []int{1, 3, 5, 8}, Comparing: []int{}, Sorted: []int{3, 2, 1, 0}, Description: "Sorting complete!"},
	}
	if diff := cmp.Diff(want, res.Steps); diff != "" {
		t.Fatalf("trace mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, Algorithm, res.Algorithm)
}

func TestSort_AlreadySortedExitsAfterOnePass(t *testing.T) {
	t.Parallel()

	res := sortTrace([]int{1, 2, 3, 4})

	for _, s := range res.Steps {
		require.False(t, s.Swapping, "sorted input must not swap")
	}
	require.Equal(t, 1, passCount(res.Steps))
	// initial + 3 comparisons + pass + final
	require.Len(t, res.Steps, 6)
	require.Equal(t, []int{3, 0, 1, 2}, res.Final().Sorted)
}

func TestSort_EarlyExitAfterLaterPass(t *testing.T) {
	t.Parallel()

	res := sortTrace([]int{2, 1, 3, 4, 5})

	require.Equal(t, 2, passCount(res.Steps))
	require.Equal(t, []int{1, 2, 3, 4, 5}, res.Final().Array)
	require.ElementsMatch(t, []int{0, 1, 2, 3, 4}, res.Final().Sorted)
}

func TestSort_EmptyAndSingle(t *testing.T) {
	t.Parallel()

	empty := sortTrace(nil)
	require.Len(t, empty.Steps, 2)
	require.Equal(t, "Starting Bubble Sort. Array size: 0", empty.Steps[0].Description)
	require.Equal(t, "Sorting complete!", empty.Final().Description)
	require.NotNil(t, empty.Final().Array)
	require.Empty(t, empty.Final().Sorted)

	raw, err := json.Marshal(empty)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"array":[]`)
	require.NotContains(t, string(raw), "null")

	single := sortTrace([]int{42})
	require.Len(t, single.Steps, 2)
	require.Empty(t, single.Steps[0].Sorted)
	require.Equal(t, []int{0}, single.Final().Sorted)
	require.Equal(t, []int{42}, single.Final().Array)
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	input := []int{9, -4, 0, 7}
	sortTrace(input)
	require.Equal(t, []int{9, -4, 0, 7}, input)
}

func TestSort_SnapshotsAreIndependent(t *testing.T) {
	t.Parallel()

	res := sortTrace([]int{3, 2, 1})
	res.Steps[0].Array[0] = 100
	require.Equal(t, 3, res.Steps[1].Array[0])
	require.Equal(t, []int{1, 2, 3}, res.Final().Array)
}

func TestSort_Duplicates(t *testing.T) {
	t.Parallel()

	res := sortTrace([]int{2, 2, 1, 2})
	require.Equal(t, []int{1, 2, 2, 2}, res.Final().Array)
	for _, s := range res.Steps {
		if s.Swapping {
			require.NotEqual(t, s.Array[s.Comparing[0]], s.Array[s.Comparing[1]], "equal values never swap")
		}
	}
}

func TestSort_ElapsedTimeFromClock(t *testing.T) {
	t.Parallel()

	start := time.Unix(0, 0)
	clock := &fakeClock{times: []time.Time{start, start.Add(12 * time.Millisecond)}}
	res := NewSorter(WithClock(clock)).Sort(context.Background(), []int{2, 1})
	require.Equal(t, int64(12), res.TimeTakenMs)
}

func TestSort_RecordsSpan(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	res := NewSorter(WithTracer(tp.Tracer("test"))).Sort(context.Background(), []int{2, 1})

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "bubblesort.Sort", spans[0].Name())
	require.Contains(t, spans[0].Attributes(), attribute.Int("bubblesort.size", 2))
	require.Contains(t, spans[0].Attributes(), attribute.Int("bubblesort.steps", len(res.Steps)))
}

func checkInvariants(t *testing.T, input []int, res Result) {
	t.Helper()

	prevSorted := 0
	for i, s := range res.Steps {
		if len(s.Array) != len(input) {
			t.Fatalf("step %d: snapshot length %d, want %d", i, len(s.Array), len(input))
		}
		if len(s.Sorted) < prevSorted {
			t.Fatalf("step %d: sorted set shrank from %d to %d", i, prevSorted, len(s.Sorted))
		}
		prevSorted = len(s.Sorted)
		if n := len(s.Comparing); n != 0 && n != 2 {
			t.Fatalf("step %d: comparing has %d indices", i, n)
		}
	}

	final := res.Final()
	want := slices.Clone(input)
	slices.Sort(want)
	if !slices.Equal(want, final.Array) && len(input) > 0 {
		t.Fatalf("final array %v is not the sorted permutation %v", final.Array, want)
	}
	idx := slices.Clone(final.Sorted)
	slices.Sort(idx)
	for i, v := range idx {
		if v != i {
			t.Fatalf("final sorted set %v does not cover every index exactly once", final.Sorted)
		}
	}
	if len(idx) != len(input) {
		t.Fatalf("final sorted set has %d entries, want %d", len(idx), len(input))
	}
}

func TestSort_Invariants(t *testing.T) {
	t.Parallel()

	inputs := [][]int{
		{},
		{1},
		{2, 1},
		{1, 2},
		{5, 4, 3, 2, 1},
		{0, -1, 1, -2, 2},
		{7, 7, 7},
		{10, 1, 9, 2, 8, 3, 7, 4, 6, 5},
	}
	for _, in := range inputs {
		checkInvariants(t, in, sortTrace(in))
	}
}

func FuzzSort(f *testing.F) {
	f.Add([]byte{5, 3, 8, 1})
	f.Add([]byte{})
	f.Add([]byte{1, 2, 3})
	f.Fuzz(func(t *testing.T, raw []byte) {
		if len(raw) > 64 {
			raw = raw[:64]
		}
		input := make([]int, len(raw))
		for i, b := range raw {
			input[i] = int(int8(b))
		}
		checkInvariants(t, input, sortTrace(input))
	})
}
