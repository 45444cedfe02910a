package lightbox

import "testing"

func TestInterpolate(t *testing.T) {
	in3 := []float64{100, 200, 300}
	out3 := []float64{1, 0.8, 0.6}
	curveIn := []float64{0, 0.2, 0.4, 0.6, 0.8, 1}
	curveOut := []float64{0, 0.1, 0.2, 0.4, 0.7, 1}

	tests := []struct {
		name    string
		x       float64
		in, out []float64
		ex      Extrapolation
		want    float64
	}{
		{"at first point", 100, in3, out3, ExtrapolateClamp, 1},
		{"midpoint of first segment", 150, in3, out3, ExtrapolateClamp, 0.9},
		{"interior breakpoint", 200, in3, out3, ExtrapolateClamp, 0.8},
		{"second segment", 250, in3, out3, ExtrapolateClamp, 0.7},
		{"clamp below", 0, in3, out3, ExtrapolateClamp, 1},
		{"clamp above", 1000, in3, out3, ExtrapolateClamp, 0.6},
		{"extend below", 0, in3, out3, ExtrapolateExtend, 1.2},
		{"extend above", 400, in3, out3, ExtrapolateExtend, 0.4},
		{"curve interior", 0.5, curveIn, curveOut, ExtrapolateExtend, 0.3},
		{"curve extend above", 1.2, curveIn, curveOut, ExtrapolateExtend, 1.3},
		{"curve extend below", -0.2, curveIn, curveOut, ExtrapolateExtend, -0.1},
		{"descending clamp high", 2, []float64{1, 0}, []float64{0, 1}, ExtrapolateClamp, 0},
		{"descending clamp low", -1, []float64{1, 0}, []float64{0, 1}, ExtrapolateClamp, 1},
		{"descending interior", 0.25, []float64{1, 0}, []float64{0, 1}, ExtrapolateClamp, 0.75},
		{"descending extend", -1, []float64{1, 0}, []float64{0, 1}, ExtrapolateExtend, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertNear(t, "Interpolate", Interpolate(tt.x, tt.in, tt.out, tt.ex), tt.want)
		})
	}
}

func TestInterpolateBadRangesPanic(t *testing.T) {
	tests := []struct {
		name    string
		in, out []float64
	}{
		{"single point", []float64{1}, []float64{1}},
		{"length mismatch", []float64{0, 1}, []float64{0, 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			Interpolate(0, tt.in, tt.out, ExtrapolateClamp)
		})
	}
}

func TestInterpolateZeroAlloc(t *testing.T) {
	in := [5]float64{60, 70, 80, 90, 100}
	out := [5]float64{0, 0.5, 0.7, 0.9, 1}
	x := 75.0
	allocs := testing.AllocsPerRun(100, func() {
		_ = Interpolate(x, in[:], out[:], ExtrapolateClamp)
	})
	if allocs != 0 {
		t.Errorf("Interpolate allocated %.0f times per run, want 0", allocs)
	}
}
