package layout

// This file defines unit conversion helpers. The core works in
// PostScript points (1/72 inch) throughout; millimeters appear only at
// the rendering-surface boundary.

// Conversion constants between pt, mm and inches.
const (
	PtPerInch = 72.0
	MmPerInch = 25.4
	PtToMm    = MmPerInch / PtPerInch
	MmToPt    = PtPerInch / MmPerInch
)

// PtToMM converts points to millimeters.
func PtToMM(pt float64) float64 { return pt * PtToMm }

// MMToPt converts millimeters to points.
func MMToPt(mm float64) float64 { return mm * MmToPt }

// InchToPt converts inches to points.
func InchToPt(in float64) float64 { return in * PtPerInch }
