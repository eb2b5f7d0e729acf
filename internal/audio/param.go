package audio

// ParamEvent is one scheduled automation call recorded against a Param.
type ParamEvent struct {
	Method       string
	Value        float64
	Time         float64
	TimeConstant float64
	Duration     float64
	Curve        []float64
}

// Automation method names as recorded in ParamEvent.Method.
const (
	EventSetValue        = "setValueAtTime"
	EventLinearRamp      = "linearRampToValueAtTime"
	EventExponentialRamp = "exponentialRampToValueAtTime"
	EventSetTarget       = "setTargetAtTime"
	EventSetValueCurve   = "setValueCurveAtTime"
)

// Param is a live automatable parameter. It records its base value and the
// ordered automation timeline scheduled against it; rendering backends
// interpret the timeline, the reconciler only writes it.
type Param struct {
	ctx    *Context
	name   string
	value  float64
	events []ParamEvent
}

func newParam(ctx *Context, name string, value float64) *Param {
	return &Param{ctx: ctx, name: name, value: value}
}

// Name returns the parameter's connectable name.
func (p *Param) Name() string { return p.name }

// Value returns the parameter's base (unautomated) value.
func (p *Param) Value() float64 { return p.value }

// Events returns the scheduled automation timeline in schedule order.
func (p *Param) Events() []ParamEvent { return p.events }

// SetValue assigns the base value directly, outside the timeline.
func (p *Param) SetValue(v float64) {
	p.value = v
}

// SetValueAtTime schedules an instantaneous value change.
func (p *Param) SetValueAtTime(v, t float64) {
	p.schedule(ParamEvent{Method: EventSetValue, Value: v, Time: t})
}

// LinearRampToValueAtTime schedules a linear ramp ending at time t.
func (p *Param) LinearRampToValueAtTime(v, t float64) {
	p.schedule(ParamEvent{Method: EventLinearRamp, Value: v, Time: t})
}

// ExponentialRampToValueAtTime schedules an exponential ramp ending at t.
func (p *Param) ExponentialRampToValueAtTime(v, t float64) {
	p.schedule(ParamEvent{Method: EventExponentialRamp, Value: v, Time: t})
}

// SetTargetAtTime schedules an exponential approach toward v starting at t.
func (p *Param) SetTargetAtTime(v, t, timeConstant float64) {
	p.schedule(ParamEvent{Method: EventSetTarget, Value: v, Time: t, TimeConstant: timeConstant})
}

// SetValueCurveAtTime schedules a value curve starting at t over duration.
func (p *Param) SetValueCurveAtTime(curve []float64, t, duration float64) {
	p.schedule(ParamEvent{Method: EventSetValueCurve, Curve: curve, Time: t, Duration: duration})
}

// CancelScheduledValues drops every event scheduled at or after time t.
func (p *Param) CancelScheduledValues(t float64) {
	kept := p.events[:0]
	for _, ev := range p.events {
		if ev.Time < t {
			kept = append(kept, ev)
		}
	}
	p.events = kept
}

func (p *Param) schedule(ev ParamEvent) {
	p.events = append(p.events, ev)
	p.ctx.count(func(s *Stats) { s.ParamEvents++ })
}
