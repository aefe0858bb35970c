package pipeline

// LineBuffer holds the scratch slices one worker needs to resize lines of a
// single axis plan. It is owned by one goroutine at a time.
type LineBuffer struct {
	// Line holds the mean-free input line and its coefficients.
	Line []float64

	// Ext holds the boundary-extended coefficients.
	Ext []float64

	// Zoom holds the zoom convolution output, one value per output sample.
	Zoom []float64

	// Padded holds the mirror-padded correction coefficients fed to the
	// synthesis FIR.
	Padded []float64
}

// NewLineBuffer allocates the scratch for plan.
func NewLineBuffer(plan *AxisPlan) *LineBuffer {
	half := len(plan.Taps) / 2
	return &LineBuffer{
		Line:   make([]float64, plan.Spec.InputLen),
		Ext:    make([]float64, plan.ExtLen),
		Zoom:   make([]float64, plan.OutputLen),
		Padded: make([]float64, plan.OutputLen+2*half),
	}
}

func (p *AxisPlan) lineBufferLen() int {
	half := len(p.Taps) / 2
	return p.Spec.InputLen + p.ExtLen + 2*p.OutputLen + 2*half
}
