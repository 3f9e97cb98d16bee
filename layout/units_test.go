package layout

import (
	"math"
	"testing"
)

func TestUnitRoundTrip(t *testing.T) {
	for _, pt := range []float64{0, 1, 72, 595.28} {
		if got := MMToPt(PtToMM(pt)); math.Abs(got-pt) > 1e-9 {
			t.Errorf("pt→mm→pt(%g) = %g", pt, got)
		}
	}
	if got := InchToPt(1); got != 72 {
		t.Errorf("InchToPt(1) = %g，期望 72", got)
	}
	if got := PtToMM(72); math.Abs(got-25.4) > 1e-9 {
		t.Errorf("PtToMM(72) = %g，期望 25.4", got)
	}
}
