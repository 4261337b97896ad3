package force

import (
	"math"
	"testing"
)

func TestFirstMoveOnlyPlacesPointer(t *testing.T) {
	var p Pointer
	p.Enter(0)
	p.Move(40, 50, 10)
	if p.Trail.Len() != 0 {
		t.Fatalf("first move should not leave a trail, got %d samples", p.Trail.Len())
	}
	x, y, ok := p.Live()
	if !ok || x != 40 || y != 50 {
		t.Fatalf("live pointer = (%v, %v, %v)", x, y, ok)
	}
}

func TestMoveInterpolatesTrail(t *testing.T) {
	var p Pointer
	p.Move(0, 0, 0)
	p.Move(30, 40, 16)

	s := p.Trail.Samples()
	if len(s) != 5 {
		t.Fatalf("expected 5 samples for a 50px move, got %d", len(s))
	}
	for i, smp := range s {
		wantX, wantY := 6*float64(i), 8*float64(i)
		if math.Abs(smp.X-wantX) > 1e-9 || math.Abs(smp.Y-wantY) > 1e-9 {
			t.Fatalf("sample %d at (%v, %v), want (%v, %v)", i, smp.X, smp.Y, wantX, wantY)
		}
		if smp.Strength != 1 || smp.T != 16 {
			t.Fatalf("sample %d: strength %v time %v", i, smp.Strength, smp.T)
		}
	}
}

func TestSlowMoveHasPartialStrength(t *testing.T) {
	var p Pointer
	p.Move(10, 10, 0)
	p.Move(13, 14, 5)
	s := p.Trail.Samples()
	if len(s) != 1 {
		t.Fatalf("expected a single sample, got %d", len(s))
	}
	if math.Abs(s[0].Strength-0.5) > 1e-12 {
		t.Fatalf("strength %v, want 0.5", s[0].Strength)
	}
	if s[0].X != 10 || s[0].Y != 10 {
		t.Fatalf("sample should start at the previous position, got (%v, %v)", s[0].X, s[0].Y)
	}
}

func TestTrailEvictsOldSamples(t *testing.T) {
	var tr Trail
	tr.Push(Sample{T: 0})
	tr.Push(Sample{T: 50})
	tr.Push(Sample{T: 100})
	tr.Evict(150)
	if tr.Len() != 2 {
		t.Fatalf("expected 2 samples younger than 150ms, got %d", tr.Len())
	}
	if tr.Samples()[0].T != 50 {
		t.Fatalf("eviction must keep chronological order")
	}
	tr.Evict(1000)
	if tr.Len() != 0 {
		t.Fatalf("expected trail to empty, got %d", tr.Len())
	}
}

func TestMoveEvictsStaleSamples(t *testing.T) {
	var p Pointer
	p.Move(0, 0, 0)
	p.Move(5, 0, 10)
	p.Move(10, 0, 200)
	for _, s := range p.Trail.Samples() {
		if s.T != 200 {
			t.Fatalf("sample from %vms survived a move at 200ms", s.T)
		}
	}
}

func TestAgeClearsIdleTrail(t *testing.T) {
	var p Pointer
	p.Move(0, 0, 0)
	p.Move(20, 0, 10)
	p.Age(60)
	if p.Trail.Len() == 0 {
		t.Fatalf("trail should survive while the pointer is moving")
	}
	if p.Idle(109) {
		t.Fatalf("99ms is not idle yet")
	}
	p.Age(110)
	if p.Trail.Len() != 0 {
		t.Fatalf("idle pointer should drop its trail, got %d samples", p.Trail.Len())
	}
}

// A pointer that left must stop highlighting dots at its last position, and
// every re-entry places the pointer again. Keeping a stale highlight after
// leave, or placing only on the very first hover, are both bugs.
func TestLeaveHidesLivePointer(t *testing.T) {
	var p Pointer
	p.Move(5, 5, 0)
	p.Leave()
	if _, _, ok := p.Live(); ok {
		t.Fatalf("pointer should not be live after leaving")
	}
	p.Enter(20)
	p.Move(300, 300, 25)
	if p.Trail.Len() != 0 {
		t.Fatalf("re-entering must not draw a trail across the surface")
	}
	if x, y, ok := p.Live(); !ok || x != 300 || y != 300 {
		t.Fatalf("expected live pointer at (300,300), got (%v,%v,%v)", x, y, ok)
	}
}

func TestEveryReentryPlacesAgain(t *testing.T) {
	var p Pointer
	for i, at := range []float64{0, 1000, 2000} {
		p.Age(at)
		p.Enter(at)
		p.Move(float64(i*200), 0, at+1)
		if p.Trail.Len() != 0 {
			t.Fatalf("entry %d: placement move should leave no trail, got %d samples", i, p.Trail.Len())
		}
		p.Move(float64(i*200)+20, 0, at+2)
		if p.Trail.Len() != 2 {
			t.Fatalf("entry %d: expected 2 trail samples after placement, got %d", i, p.Trail.Len())
		}
		p.Leave()
	}
}
