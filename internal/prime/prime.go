// Package prime decides primality by trial division and records every test it
// performs so a client can replay the reasoning one step at a time.
package prime

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/JakeFAU/algoviz/internal/clock/system"
)

// MaxTraceSteps caps how many entries a trace may hold before trial division
// stops and a truncation step is appended.
const MaxTraceSteps = 100

const (
	statusTruncated = "Steps limited for visualization"
	tracerName      = "github.com/JakeFAU/algoviz/internal/prime"
)

// Step is one entry in the reasoning trace.
type Step struct {
	Divisor    int64  `json:"divisor"`
	Expression string `json:"expression"`
	Result     string `json:"result"`
	IsMatch    bool   `json:"isMatch"`
	Status     string `json:"status"`
}

// Result is the verdict for a single number together with its trace.
type Result struct {
	Number      int64  `json:"number"`
	IsPrime     bool   `json:"isPrime"`
	Steps       []Step `json:"steps"`
	TimeTakenMs int64  `json:"timeTakenMs"`
	Message     string `json:"message"`
}

// Truncated reports whether trial division stopped at the step cap.
func (r Result) Truncated() bool {
	for _, s := range r.Steps {
		if s.Status == statusTruncated {
			return true
		}
	}
	return false
}

// Clock abstracts time for elapsed-time reporting.
type Clock interface {
	Now() time.Time
}

// Checker runs traced primality checks. It is safe for concurrent use.
type Checker struct {
	clock  Clock
	tracer trace.Tracer
	logger *zap.Logger
}

// Option customizes a Checker.
type Option func(*Checker)

// WithClock overrides the time source.
func WithClock(c Clock) Option {
	return func(ch *Checker) {
		if c != nil {
			ch.clock = c
		}
	}
}

// WithTracer sets the tracer used for the prime.Check span.
func WithTracer(t trace.Tracer) Option {
	return func(ch *Checker) {
		if t != nil {
			ch.tracer = t
		}
	}
}

// WithLogger attaches a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(ch *Checker) {
		if l != nil {
			ch.logger = l
		}
	}
}

// NewChecker builds a Checker. Without options it uses the system clock, the
// global tracer provider, and a no-op logger.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		clock:  system.New(),
		tracer: otel.Tracer(tracerName),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check classifies n and returns the full trace. Every int64 is a valid input.
func (c *Checker) Check(ctx context.Context, n int64) Result {
	_, span := c.tracer.Start(ctx, "prime.Check",
		trace.WithAttributes(attribute.Int64("prime.number", n)))
	defer span.End()

	start := c.clock.Now()
	isPrime, steps := trialDivision(n)
	res := Result{
		Number:      n,
		IsPrime:     isPrime,
		Steps:       steps,
		TimeTakenMs: c.clock.Now().Sub(start).Milliseconds(),
		Message:     message(n, isPrime),
	}

	span.SetAttributes(
		attribute.Bool("prime.is_prime", isPrime),
		attribute.Int("prime.steps", len(steps)),
		attribute.Bool("prime.truncated", res.Truncated()),
	)
	c.logger.Debug("primality checked",
		zap.Int64("number", n),
		zap.Bool("is_prime", isPrime),
		zap.Int("steps", len(steps)),
	)
	return res
}

func trialDivision(n int64) (bool, []Step) {
	num := strconv.FormatInt(n, 10)
	switch {
	case n < 2:
		return false, []Step{{
			Expression: "n < 2",
			Result:     num,
			Status:     "Not Prime (Less than 2)",
		}}
	case n == 2:
		return true, []Step{{
			Divisor:    2,
			Expression: "n == 2",
			Result:     "true",
			IsMatch:    true,
			Status:     "Prime (Even Prime)",
		}}
	case n%2 == 0:
		return false, []Step{{
			Divisor:    2,
			Expression: num + " % 2 == 0",
			Result:     "0",
			IsMatch:    true,
			Status:     "Found Divisor (Even)",
		}}
	}

	limit := isqrt(n)
	steps := []Step{
		{
			Expression: "Start: Check if " + num + " is prime",
			Result:     fmt.Sprintf("√%d ≈ %d", n, limit),
			Status:     "Algorithm: Test divisors from 2 to √" + num,
		},
		{
			Divisor:    2,
			Expression: num + " % 2",
			Result:     strconv.FormatInt(n%2, 10),
			Status:     "Not divisible by 2 (Odd number)",
		},
	}

	isPrime := true
	for i := int64(3); i <= limit; i += 2 {
		rem := n % i
		if rem == 0 {
			steps = append(steps, Step{
				Divisor:    i,
				Expression: fmt.Sprintf("%d %% %d", n, i),
				Result:     "0",
				IsMatch:    true,
				Status:     "Found Divisor - Not Prime!",
			})
			isPrime = false
			break
		}
		steps = append(steps, Step{
			Divisor:    i,
			Expression: fmt.Sprintf("%d %% %d", n, i),
			Result:     strconv.FormatInt(rem, 10),
			Status:     "Not divisible by " + strconv.FormatInt(i, 10),
		})

		// The cap ends the loop itself, so the verdict below may rest on
		// partial testing.
		if len(steps) > MaxTraceSteps {
			steps = append(steps, Step{
				Divisor:    i,
				Expression: "...",
				Result:     "...",
				Status:     statusTruncated,
			})
			break
		}
	}

	if isPrime {
		steps = append(steps, Step{
			Expression: "Checked all divisors up to √" + num,
			Result:     "No divisors found",
			Status:     "Conclusion: " + num + " is PRIME",
		})
	}
	return isPrime, steps
}

// isqrt returns floor(sqrt(n)) for n >= 0 without float rounding errors.
func isqrt(n int64) int64 {
	r := int64(math.Sqrt(float64(n)))
	for r > 0 && r > n/r {
		r--
	}
	for r+1 <= n/(r+1) {
		r++
	}
	return r
}

func message(n int64, isPrime bool) string {
	if isPrime {
		return fmt.Sprintf("%d is a prime number.", n)
	}
	return fmt.Sprintf("%d is not a prime number.", n)
}
