package lightbox

import (
	"sync"
	"testing"
)

func TestValueLoadStore(t *testing.T) {
	var v Value
	if v.Load() != 0 {
		t.Errorf("zero Value = %v, want 0", v.Load())
	}
	v.Store(-12.5)
	if v.Load() != -12.5 {
		t.Errorf("Load = %v, want -12.5", v.Load())
	}
}

func TestQuadRoundTrip(t *testing.T) {
	var q Quad
	r := Rect{1.5, 2.5, 300, 400}
	q.Store(r)
	if got := q.Load(); got != r {
		t.Errorf("Load = %v, want %v", got, r)
	}
}

func TestFlag(t *testing.T) {
	var f Flag
	if f.On() || f.Value() != 0 {
		t.Error("zero Flag should be off")
	}
	f.Set(true)
	if !f.On() || f.Value() != 1 {
		t.Error("Set(true) should turn the flag on")
	}
	f.Set(false)
	if f.On() {
		t.Error("Set(false) should turn the flag off")
	}
}

// Readers on other goroutines must only ever see stored values.
func TestValueConcurrentReaders(t *testing.T) {
	var v Value
	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				if x := v.Load(); x != 0 && x != 1 && x != 2 {
					t.Errorf("torn read %v", x)
					return
				}
			}
		}()
	}
	for i := 0; i < 1000; i++ {
		v.Store(float64(i%2 + 1))
	}
	close(stop)
	wg.Wait()
}
