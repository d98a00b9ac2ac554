package jobpool

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScopeCompletion is invariant 2: immediately after a Scope call
// returns, every job submitted via that scope has run to completion.
func TestScopeCompletion(t *testing.T) {
	pool := WithDefaultConfig()
	defer pool.Close()

	var mu sync.Mutex
	total := 0

	Scope(pool, func(s *Scope) any {
		for i := 0; i < 200; i++ {
			s.Execute(func() {
				time.Sleep(time.Millisecond)
				mu.Lock()
				total++
				mu.Unlock()
			})
		}
		return nil
	})

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 200, total)
}

// TestNestedScopeOrdering is invariant 5: work submitted to an inner scope
// completes before the inner Scope/Subscope call returns, independent of
// outer scope state.
func TestNestedScopeOrdering(t *testing.T) {
	pool := WithDefaultConfig()
	defer pool.Close()

	var mu sync.Mutex
	innerDone := false
	var observedAtOuterReturn bool

	Scope(pool, func(outer *Scope) any {
		Subscope(outer, func(inner *Scope) any {
			inner.Execute(func() {
				time.Sleep(10 * time.Millisecond)
				mu.Lock()
				innerDone = true
				mu.Unlock()
			})
			return nil
		})

		mu.Lock()
		observedAtOuterReturn = innerDone
		mu.Unlock()
		return nil
	})

	assert.True(t, observedAtOuterReturn, "inner subscope job must finish before Subscope returns")
}

// TestScopeArithmetic mirrors original_source/examples/scopes.rs and
// spec.md scenario S3: two subscopes, each running two jobs that mutate a
// shared accumulator, produce a deterministic final value because each
// subscope fully drains before the outer scope moves on.
func TestScopeArithmetic(t *testing.T) {
	pool, err := New(ConfigBuilder().MaxJobs(16).Build())
	require.NoError(t, err)
	defer pool.Close()

	nums := make([]int, 1000)
	for i := range nums {
		nums[i] = i
	}

	var mu sync.Mutex
	n := 0

	Scope(pool, func(outer *Scope) any {
		Subscope(outer, func(sc *Scope) any {
			sc.Execute(func() {
				sum := 0
				for _, v := range nums {
					sum += v
				}
				mu.Lock()
				n += sum
				mu.Unlock()
			})
			sc.Execute(func() {
				sum := 0
				for _, v := range nums {
					if v%2 == 0 {
						sum += v
					}
				}
				mu.Lock()
				n += sum
				mu.Unlock()
			})
			return nil
		})

		Subscope(outer, func(sc *Scope) any {
			sc.Execute(func() {
				max := nums[len(nums)-1]
				mu.Lock()
				n *= max
				mu.Unlock()
			})
			sc.Execute(func() {
				mid := nums[len(nums)/2]
				mu.Lock()
				n *= mid
				mu.Unlock()
			})
			return nil
		})
		return nil
	})

	expected := 0
	sum := 0
	for _, v := range nums {
		sum += v
	}
	expected += sum
	evenSum := 0
	for _, v := range nums {
		if v%2 == 0 {
			evenSum += v
		}
	}
	expected += evenSum
	expected *= nums[len(nums)-1]
	expected *= nums[len(nums)/2]

	assert.Equal(t, expected, n)
	assert.Equal(t, 374125500000, expected)
}

// TestScopeCanBorrowStackState exercises the design note in §9: a job
// submitted through a scope may close over a stack variable of the calling
// frame, because the scope blocks on return until the job has finished.
func TestScopeCanBorrowStackState(t *testing.T) {
	pool := WithDefaultConfig()
	defer pool.Close()

	message := "hello from the stack"
	var observed string

	Scope(pool, func(s *Scope) any {
		s.Execute(func() {
			observed = message
		})
		return nil
	})

	assert.Equal(t, message, observed)
}
