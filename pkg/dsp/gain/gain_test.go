package gain

import (
	"math"
	"testing"
)

func TestLinearDbConversion(t *testing.T) {
	if got := LinearToDb(1.0); got != 0 {
		t.Errorf("LinearToDb(1) = %f, want 0", got)
	}
	if got := LinearToDb(0); got != MinDB {
		t.Errorf("LinearToDb(0) = %f, want MinDB", got)
	}
	if got := LinearToDb(-0.5); got != MinDB {
		t.Errorf("LinearToDb(-0.5) = %f, want MinDB", got)
	}
	if got := DbToLinear(MinDB); got != 0 {
		t.Errorf("DbToLinear(MinDB) = %f, want 0", got)
	}

	for _, v := range []float64{0.001, 0.5, 1.0, 2.0} {
		back := DbToLinear(LinearToDb(v))
		if math.Abs(back-v) > 1e-12 {
			t.Errorf("round trip %f = %f", v, back)
		}
	}
}

func TestApplyBuffer(t *testing.T) {
	buf := []float32{1, -1, 0.5, 0}
	ApplyBuffer(buf, 0.5)
	want := []float32{0.5, -0.5, 0.25, 0}
	for i := range want {
		if buf[i] != want[i] {
			t.Errorf("buf[%d] = %f, want %f", i, buf[i], want[i])
		}
	}
}

func TestApplyBufferTo(t *testing.T) {
	src := []float32{1, 2, 3, 4}
	dst := make([]float32, 3)
	ApplyBufferTo(src, 2, dst)
	want := []float32{2, 4, 6}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %f, want %f", i, dst[i], want[i])
		}
	}
}
