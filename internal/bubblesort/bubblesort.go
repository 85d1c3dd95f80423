// Package bubblesort sorts integer slices with an early-exit bubble sort and
// records a snapshot after every comparison, swap, and completed pass.
package bubblesort

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/JakeFAU/algoviz/internal/clock/system"
)

// Algorithm is the name reported in every Result.
const Algorithm = "Bubble Sort"

const tracerName = "github.com/JakeFAU/algoviz/internal/bubblesort"

// Step is a snapshot of the working array. Every slice is owned by the step.
type Step struct {
	Array       []int  `json:"array"`
	Comparing   []int  `json:"comparing"`
	Swapping    bool   `json:"swapping"`
	Sorted      []int  `json:"sorted"`
	Description string `json:"description"`
}

// Result is the full trace of one sort.
type Result struct {
	Steps       []Step `json:"steps"`
	TimeTakenMs int64  `json:"timeTakenMs"`
	Algorithm   string `json:"algorithm"`
}

// Final returns the last step of the trace.
func (r Result) Final() Step {
	if len(r.Steps) == 0 {
		return Step{}
	}
	return r.Steps[len(r.Steps)-1]
}

// Clock abstracts time for elapsed-time reporting.
type Clock interface {
	Now() time.Time
}

// Sorter runs traced bubble sorts. It is safe for concurrent use.
type Sorter struct {
	clock  Clock
	tracer trace.Tracer
	logger *zap.Logger
}

// Option customizes a Sorter.
type Option func(*Sorter)

// WithClock overrides the time source.
func WithClock(c Clock) Option {
	return func(s *Sorter) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithTracer sets the tracer used for the bubblesort.Sort span.
func WithTracer(t trace.Tracer) Option {
	return func(s *Sorter) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithLogger attaches a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(s *Sorter) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSorter builds a Sorter with the system clock, the global tracer provider,
// and a no-op logger unless overridden.
func NewSorter(opts ...Option) *Sorter {
	s := &Sorter{
		clock:  system.New(),
		tracer: otel.Tracer(tracerName),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sort orders a copy of input ascending and returns the trace. The input is
// left untouched.
func (s *Sorter) Sort(ctx context.Context, input []int) Result {
	_, span := s.tracer.Start(ctx, "bubblesort.Sort",
		trace.WithAttributes(attribute.Int("bubblesort.size", len(input))))
	defer span.End()

	start := s.clock.Now()
	steps := bubbleSort(input)
	res := Result{
		Steps:       steps,
		TimeTakenMs: s.clock.Now().Sub(start).Milliseconds(),
		Algorithm:   Algorithm,
	}

	span.SetAttributes(attribute.Int("bubblesort.steps", len(steps)))
	s.logger.Debug("bubble sort traced",
		zap.Int("size", len(input)),
		zap.Int("steps", len(steps)),
	)
	return res
}

type recorder struct {
	arr     []int
	sorted  []int
	settled []bool
	steps   []Step
}

func (r *recorder) record(comparing []int, swapping bool, desc string) {
	r.steps = append(r.steps, Step{
		Array:       clone(r.arr),
		Comparing:   comparing,
		Swapping:    swapping,
		Sorted:      clone(r.sorted),
		Description: desc,
	})
}

func (r *recorder) settle(idx int) {
	if r.settled[idx] {
		return
	}
	r.settled[idx] = true
	r.sorted = append(r.sorted, idx)
}

func bubbleSort(input []int) []Step {
	n := len(input)
	r := &recorder{
		arr:     clone(input),
		sorted:  make([]int, 0, n),
		settled: make([]bool, n),
	}
	arr := r.arr

	r.record([]int{}, false, fmt.Sprintf("Starting Bubble Sort. Array size: %d", n))

	for i := 0; i < n-1; i++ {
		swapped := false
		for j := 0; j < n-i-1; j++ {
			r.record([]int{j, j + 1}, false, fmt.Sprintf("Comparing %d and %d", arr[j], arr[j+1]))
			if arr[j] > arr[j+1] {
				arr[j], arr[j+1] = arr[j+1], arr[j]
				swapped = true
				r.record([]int{j, j + 1}, true, fmt.Sprintf("Swapping %d and %d", arr[j+1], arr[j]))
			}
		}

		last := n - 1 - i
		r.settle(last)
		r.record([]int{}, false, fmt.Sprintf("Pass %d complete. Element %d is sorted.", i+1, arr[last]))

		if !swapped {
			for k := 0; k < last; k++ {
				r.settle(k)
			}
			break
		}
	}

	for k := 0; k < n; k++ {
		r.settle(k)
	}

	r.record([]int{}, false, "Sorting complete!")
	return r.steps
}

// clone copies src into a non-nil slice so empty snapshots encode as [].
func clone(src []int) []int {
	dst := make([]int, len(src))
	copy(dst, src)
	return dst
}
