package parallel

import (
	"errors"
	"runtime"
	"sync/atomic"
	"testing"
)

func TestNewPoolWorkers(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{4, 4},
		{0, runtime.GOMAXPROCS(0)},
		{-3, runtime.GOMAXPROCS(0)},
	}
	for _, tt := range tests {
		p := NewPool(tt.in)
		if got := p.Workers(); got != tt.want {
			t.Errorf("NewPool(%d).Workers() = %d, want %d", tt.in, got, tt.want)
		}
		p.Close()
	}
}

func TestDoRunsEveryJob(t *testing.T) {
	p := NewPool(4)
	defer p.Close()

	const n = 200
	var count atomic.Int64
	seen := make([]bool, n)
	err := p.Do(n, func(i int) error {
		count.Add(1)
		seen[i] = true
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if count.Load() != n {
		t.Errorf("ran %d jobs, want %d", count.Load(), n)
	}
	for i, ok := range seen {
		if !ok {
			t.Fatalf("job %d did not run", i)
		}
	}
}

func TestDoJoinsErrors(t *testing.T) {
	p := NewPool(2)
	defer p.Close()

	errOdd := errors.New("odd")
	err := p.Do(5, func(i int) error {
		if i%2 == 1 {
			return errOdd
		}
		return nil
	})
	if !errors.Is(err, errOdd) {
		t.Errorf("Do() error = %v, want %v", err, errOdd)
	}
	if p.Do(0, nil) != nil {
		t.Error("Do(0) returned an error")
	}
}

func TestDoAfterClose(t *testing.T) {
	p := NewPool(2)
	p.Close()
	p.Close()

	var count int
	if err := p.Do(3, func(int) error { count++; return nil }); err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("ran %d jobs after Close, want 3", count)
	}
}
