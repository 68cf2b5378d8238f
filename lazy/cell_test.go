package lazy

import (
	"errors"
	"testing"
)

func TestCellRecomputesOnceBetweenInvalidations(t *testing.T) {
	calls := 0
	c := NewCell(func() (int, error) {
		calls++
		return 42, nil
	})
	for i := 0; i < 5; i++ {
		v, err := c.Get()
		if err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
		if v != 42 {
			t.Fatalf("get %d: got %d", i, v)
		}
	}
	if calls != 1 {
		t.Fatalf("recompute ran %d times, want 1", calls)
	}
}

func TestCellInvalidateForcesRecompute(t *testing.T) {
	calls := 0
	c := NewCell(func() (int, error) {
		calls++
		return calls, nil
	})
	if v, _ := c.Get(); v != 1 {
		t.Fatalf("first get: %d", v)
	}
	c.Invalidate()
	if c.Valid() {
		t.Fatalf("expected invalid after Invalidate")
	}
	if v, _ := c.Get(); v != 2 {
		t.Fatalf("get after invalidate: %d", v)
	}
	// invalidating twice is still one recompute on the next read
	c.Invalidate()
	c.Invalidate()
	if v, _ := c.Get(); v != 3 {
		t.Fatalf("get after double invalidate: %d", v)
	}
	if calls != 3 {
		t.Fatalf("recompute ran %d times, want 3", calls)
	}
}

func TestCellBooleanSequence(t *testing.T) {
	seq := []bool{false, true, true}
	calls := 0
	c := NewCell(func() (bool, error) {
		v := seq[calls]
		calls++
		return v, nil
	})
	if v, _ := c.Get(); v {
		t.Fatalf("first get should be false")
	}
	c.Invalidate()
	if v, _ := c.Get(); !v {
		t.Fatalf("get after invalidate should be true")
	}
	if v, _ := c.Get(); !v {
		t.Fatalf("cached get should be true")
	}
	if calls != 2 {
		t.Fatalf("recompute ran %d times, want 2", calls)
	}
}

func TestCellErrorLeavesInvalid(t *testing.T) {
	boom := errors.New("boom")
	fail := true
	calls := 0
	c := NewCell(func() (string, error) {
		calls++
		if fail {
			return "", boom
		}
		return "ok", nil
	})
	if _, err := c.Get(); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if c.Valid() {
		t.Fatalf("cell must stay invalid after a failed recompute")
	}
	fail = false
	v, err := c.Get()
	if err != nil || v != "ok" {
		t.Fatalf("retry: %q %v", v, err)
	}
	if calls != 2 {
		t.Fatalf("recompute ran %d times, want 2", calls)
	}
}

func TestKeyedCellSetParamAlwaysInvalidates(t *testing.T) {
	calls := 0
	c := NewKeyedCell("a", func(p string) (string, error) {
		calls++
		return "v:" + p, nil
	})
	if v, _ := c.Get(); v != "v:a" {
		t.Fatalf("got %q", v)
	}
	// same parameter value still invalidates
	c.SetParam("a")
	if c.Valid() {
		t.Fatalf("SetParam must invalidate even for an equal parameter")
	}
	if v, _ := c.Get(); v != "v:a" {
		t.Fatalf("got %q", v)
	}
	c.SetParam("b")
	if v, _ := c.Get(); v != "v:b" {
		t.Fatalf("got %q", v)
	}
	if calls != 3 {
		t.Fatalf("recompute ran %d times, want 3", calls)
	}
}

func TestKeyedCellInvalidateKeepsParam(t *testing.T) {
	calls := 0
	c := NewKeyedCell(7, func(p int) (int, error) {
		calls++
		return p * 10, nil
	})
	if v, _ := c.Get(); v != 70 {
		t.Fatalf("got %d", v)
	}
	c.Invalidate()
	if got := c.Param(); got != 7 {
		t.Fatalf("param changed to %d", got)
	}
	if v, _ := c.Get(); v != 70 {
		t.Fatalf("got %d", v)
	}
	if calls != 2 {
		t.Fatalf("recompute ran %d times, want 2", calls)
	}
}

func TestKeyedCellErrorLeavesInvalid(t *testing.T) {
	boom := errors.New("boom")
	c := NewKeyedCell(1, func(p int) (int, error) {
		return 0, boom
	})
	if _, err := c.Get(); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if c.Valid() {
		t.Fatalf("cell must stay invalid after a failed recompute")
	}
}
