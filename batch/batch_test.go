package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestFromSlice_Collect(t *testing.T) {
	got, err := Collect(context.Background(), FromSlice([]string{"a.star", "b.star"}))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(got, ",") != "a.star,b.star" {
		t.Errorf("got %v", got)
	}
}

func TestCollect_Empty(t *testing.T) {
	got, err := Collect(context.Background(), FromSlice([]int{}))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}

func TestMap_Filter(t *testing.T) {
	s := FromSlice([]string{"a.star", "README.md", "b.star"})
	stars := Filter(s, func(name string) bool { return strings.HasSuffix(name, ".star") })
	upper := Map(stars, func(_ context.Context, name string) (string, error) {
		return strings.ToUpper(name), nil
	})
	got, err := Collect(context.Background(), upper)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(got, ",") != "A.STAR,B.STAR" {
		t.Errorf("got %v", got)
	}
}

func TestMap_ErrorStops(t *testing.T) {
	s := Map(FromSlice([]int{1, 2, 3}), func(_ context.Context, n int) (int, error) {
		if n == 2 {
			return 0, errors.New("bad value")
		}
		return n, nil
	})
	got, err := Collect(context.Background(), s)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("expected [1] before error, got %v", got)
	}
}

func TestTap(t *testing.T) {
	var seen []int
	s := Tap(FromSlice([]int{1, 2}), func(_ context.Context, n int) error {
		seen = append(seen, n)
		return nil
	})
	got, err := Collect(context.Background(), s)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || len(seen) != 2 {
		t.Errorf("got %v, seen %v", got, seen)
	}
}

func TestParallel_PreservesOrder(t *testing.T) {
	items := make([]int, 20)
	for i := range items {
		items[i] = i
	}
	var running, peak atomic.Int32
	s := Parallel(FromSlice(items), 4, func(_ context.Context, n int) (string, error) {
		cur := running.Add(1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		// later items finish first
		time.Sleep(time.Duration(20-n) * time.Millisecond / 4)
		running.Add(-1)
		return fmt.Sprintf("f%d", n), nil
	})
	got, err := Collect(context.Background(), s)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(items) {
		t.Fatalf("expected %d results, got %d", len(items), len(got))
	}
	for i, v := range got {
		if v != fmt.Sprintf("f%d", i) {
			t.Fatalf("result %d out of order: %v", i, got)
		}
	}
	if peak.Load() > 4 {
		t.Errorf("expected at most 4 concurrent workers, saw %d", peak.Load())
	}
}

func TestParallel_ErrorInPosition(t *testing.T) {
	s := Parallel(FromSlice([]int{1, 2, 3, 4}), 2, func(_ context.Context, n int) (int, error) {
		if n == 3 {
			return 0, errors.New("boom")
		}
		return n * 10, nil
	})
	got, err := Collect(context.Background(), s)
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(got) != 2 || got[0] != 10 || got[1] != 20 {
		t.Errorf("expected [10 20] before error, got %v", got)
	}
}

func TestParallel_ZeroWorkers(t *testing.T) {
	s := Parallel(FromSlice([]int{1, 2}), 0, func(_ context.Context, n int) (int, error) {
		return n + 1, nil
	})
	got, err := Collect(context.Background(), s)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("got %v", got)
	}
}

func TestParallel_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := Parallel(FromSlice([]int{1, 2, 3}), 2, func(ctx context.Context, n int) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := Collect(ctx, s)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestDrain_SinkError(t *testing.T) {
	sinkErr := errors.New("write failed")
	err := Drain(FromSlice([]int{1, 2}), func(_ context.Context, _ int) error {
		return sinkErr
	}).Run(context.Background())
	if !errors.Is(err, sinkErr) {
		t.Errorf("expected sink error, got %v", err)
	}
}
