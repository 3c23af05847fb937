// Package easing provides normalized easing curves.
//
// A curve maps normalized elapsed time t to normalized progress p. Curves are
// pure: the same t always yields the same p. Inputs outside [0,1] are allowed
// and never panic, although callers are expected to clamp. Every curve returns
// exactly 0 at t=0 and exactly 1 at t=1.
package easing

import "math"

// Func is a normalized easing curve.
type Func func(t float64) float64

const (
	elasticPeriod      = 0.3
	elasticInOutPeriod = 0.3 * 1.5
)

// Ease evaluates the curve in its unnormalized form, where t runs from 0 to
// duration and the result runs from start to start+change. It is equivalent
// to start + change*id.Func()(t/duration). A non-positive duration yields the
// end value. Unknown ids yield NaN; check ID.Valid or use Parse first.
func Ease(id ID, t, start, change, duration float64) float64 {
	f := id.Func()
	if f == nil {
		return math.NaN()
	}
	if duration <= 0 {
		return start + change
	}
	return start + change*f(t/duration)
}

// exact pins the boundaries of f so accumulated floating point error in the
// formula never leaks into t=0 or t=1.
func exact(f Func) Func {
	return func(t float64) float64 {
		switch t {
		case 0:
			return 0
		case 1:
			return 1
		}
		return f(t)
	}
}

func linear(t float64) float64 { return t }

func inQuad(t float64) float64 { return t * t }

func outQuad(t float64) float64 { return -t * (t - 2) }

func inOutQuad(t float64) float64 {
	t *= 2
	if t < 1 {
		return 0.5 * t * t
	}
	t--
	return -0.5 * (t*(t-2) - 1)
}

func inCubic(t float64) float64 { return t * t * t }

func outCubic(t float64) float64 {
	t--
	return t*t*t + 1
}

func inOutCubic(t float64) float64 {
	t *= 2
	if t < 1 {
		return 0.5 * t * t * t
	}
	t -= 2
	return 0.5 * (t*t*t + 2)
}

func inQuart(t float64) float64 { return t * t * t * t }

func outQuart(t float64) float64 {
	t--
	return -(t*t*t*t - 1)
}

func inOutQuart(t float64) float64 {
	t *= 2
	if t < 1 {
		return 0.5 * t * t * t * t
	}
	t -= 2
	return -0.5 * (t*t*t*t - 2)
}

func inQuint(t float64) float64 { return t * t * t * t * t }

func outQuint(t float64) float64 {
	t--
	return t*t*t*t*t + 1
}

func inOutQuint(t float64) float64 {
	t *= 2
	if t < 1 {
		return 0.5 * t * t * t * t * t
	}
	t -= 2
	return 0.5 * (t*t*t*t*t + 2)
}

func inSine(t float64) float64 { return 1 - math.Cos(t*math.Pi/2) }

func outSine(t float64) float64 { return math.Sin(t * math.Pi / 2) }

func inOutSine(t float64) float64 { return -0.5 * (math.Cos(math.Pi*t) - 1) }

func inExpo(t float64) float64 { return math.Pow(2, 10*(t-1)) }

func outExpo(t float64) float64 { return 1 - math.Pow(2, -10*t) }

func inOutExpo(t float64) float64 {
	t *= 2
	if t < 1 {
		return 0.5 * math.Pow(2, 10*(t-1))
	}
	return 0.5 * (2 - math.Pow(2, -10*(t-1)))
}

// circular curves are only real-valued on [0,1]; the radicand is clamped so
// out of range inputs degrade instead of producing NaN.
func root(x float64) float64 { return math.Sqrt(math.Max(0, x)) }

func inCirc(t float64) float64 { return 1 - root(1-t*t) }

func outCirc(t float64) float64 {
	t--
	return root(1 - t*t)
}

func inOutCirc(t float64) float64 {
	t *= 2
	if t < 1 {
		return -0.5 * (root(1-t*t) - 1)
	}
	t -= 2
	return 0.5 * (root(1-t*t) + 1)
}

func inElastic(t float64) float64 {
	s := elasticPeriod / 4
	t--
	return -(math.Pow(2, 10*t) * math.Sin((t-s)*2*math.Pi/elasticPeriod))
}

func outElastic(t float64) float64 {
	s := elasticPeriod / 4
	return math.Pow(2, -10*t)*math.Sin((t-s)*2*math.Pi/elasticPeriod) + 1
}

func inOutElastic(t float64) float64 {
	s := elasticInOutPeriod / 4
	t = t*2 - 1
	if t < 0 {
		return -0.5 * (math.Pow(2, 10*t) * math.Sin((t-s)*2*math.Pi/elasticInOutPeriod))
	}
	return math.Pow(2, -10*t)*math.Sin((t-s)*2*math.Pi/elasticInOutPeriod)*0.5 + 1
}
