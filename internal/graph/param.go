package graph

// Method names one audio-parameter automation call. The names mirror the
// wire encoding exactly.
type Method string

const (
	MethodSetValue        Method = "setValueAtTime"
	MethodLinearRamp      Method = "linearRampToValueAtTime"
	MethodExponentialRamp Method = "exponentialRampToValueAtTime"
	MethodSetTarget       Method = "setTargetAtTime"
	MethodSetValueCurve   Method = "setValueCurveAtTime"
)

// KnownMethod reports whether m is a recognized automation method.
func KnownMethod(m Method) bool {
	switch m {
	case MethodSetValue, MethodLinearRamp, MethodExponentialRamp,
		MethodSetTarget, MethodSetValueCurve:
		return true
	}
	return false
}

// Automation is one timed automation call against a parameter. Value and
// Time are meaningful for every method; TimeConstant only for setTargetAtTime,
// Curve and Duration only for setValueCurveAtTime (whose Value is unused).
type Automation struct {
	Method       Method
	Value        float64
	Time         float64
	TimeConstant float64
	Duration     float64
	Curve        []float64
}

// Param is a node parameter: either a plain constant, or an ordered
// sequence of automation calls replayed against the live parameter each
// time the node is created or updated. Events empty means constant.
type Param struct {
	Value  float64
	Events []Automation
}

// Constant builds a constant-valued Param.
func Constant(v float64) Param {
	return Param{Value: v}
}

// Automated builds a Param from an automation sequence.
func Automated(events ...Automation) Param {
	return Param{Events: events}
}

// IsConstant reports whether the param carries no automation.
func (p Param) IsConstant() bool {
	return len(p.Events) == 0
}
