package curve

import "math"

// Cubic bezier segments can be evaluated with three interchangeable
// strategies. All three reduce the four control points with De Casteljau's
// algorithm once the curve parameter t is known; they differ in how t is
// derived from the query time:
//
//   - BezierEvaluate: t is the linear time fraction between the two end
//     control points. Not time-accurate for skewed control points; used for
//     assets authored with restricted beziers, where the approximation is
//     exact by construction.
//   - BezierEvaluateBinarySearch: bisects the x(t) projection until it
//     matches the query time. Bounded iteration; kept as a reference and
//     debug path.
//   - BezierEvaluateCardano: solves the cubic x(t) = time analytically for
//     the real root in [0,1]. Time-accurate default.

const (
	// bezierBinarySearchMaxIterations bounds the bisection refinement.
	bezierBinarySearchMaxIterations = 20

	// bezierBinarySearchError is the accepted time-domain tolerance of the
	// bisection result.
	bezierBinarySearchError = 0.01
)

// cardanoEpsilon guards divisions by leading coefficients that collapse the
// cubic into a lower-degree equation.
const cardanoEpsilon = 1e-9

// deCasteljau reduces four control points to the curve point at parameter t
// via three rounds of linear interpolation, and returns its value.
func deCasteljau(points []Point, t float64) float64 {
	p01 := LerpPoints(points[0], points[1], t)
	p12 := LerpPoints(points[1], points[2], t)
	p23 := LerpPoints(points[2], points[3], t)

	p012 := LerpPoints(p01, p12, t)
	p123 := LerpPoints(p12, p23, t)

	return LerpPoints(p012, p123, t).Value
}

// bezierTime evaluates the time (x) projection of the bezier at parameter t.
func bezierTime(points []Point, t float64) float64 {
	inv := 1 - t
	return inv*inv*inv*points[0].Time +
		3*inv*inv*t*points[1].Time +
		3*inv*t*t*points[2].Time +
		t*t*t*points[3].Time
}

// BezierEvaluate evaluates a cubic bezier segment with t taken as the linear
// time fraction between the end control points. points must hold the four
// control points of the segment.
func BezierEvaluate(points []Point, time float64) float64 {
	t := (time - points[0].Time) / (points[3].Time - points[0].Time)
	if t < 0 {
		t = 0
	}
	return deCasteljau(points, t)
}

// BezierEvaluateBinarySearch evaluates a cubic bezier segment by bisecting
// the time domain until the bezier's x projection matches the query time
// within bezierBinarySearchError, then evaluating the value at the found
// parameter. Iteration is capped at bezierBinarySearchMaxIterations.
func BezierEvaluateBinarySearch(points []Point, time float64) float64 {
	lo, hi := 0.0, 1.0
	t := 0.5
	for i := 0; i < bezierBinarySearchMaxIterations; i++ {
		x := bezierTime(points, t)
		if math.Abs(x-time) < bezierBinarySearchError {
			break
		}
		if x < time {
			lo = t
		} else {
			hi = t
		}
		t = (lo + hi) * 0.5
	}
	return deCasteljau(points, clampUnit(t))
}

// BezierEvaluateCardano evaluates a cubic bezier segment by solving the
// cubic x(t) = time in closed form for the real root in [0,1], then
// evaluating the value at that parameter. This is the time-accurate
// production path.
func BezierEvaluateCardano(points []Point, time float64) float64 {
	x := time
	x1 := points[0].Time
	x2 := points[3].Time
	cx1 := points[1].Time
	cx2 := points[2].Time

	a := x2 - 3*cx2 + 3*cx1 - x1
	b := 3*cx2 - 6*cx1 + 3*x1
	c := 3*cx1 - 3*x1
	d := x1 - x

	t := cardanoAlgorithmForBezier(a, b, c, d)
	return deCasteljau(points, t)
}

// quadraticEquation returns a real root of a*x^2 + b*x + c = 0, degrading
// to the linear and constant cases when leading coefficients vanish.
func quadraticEquation(a, b, c float64) float64 {
	if math.Abs(a) < cardanoEpsilon {
		if math.Abs(b) < cardanoEpsilon {
			return -c
		}
		return -c / b
	}
	return -(b + math.Sqrt(b*b-4*a*c)) / (2 * a)
}

// cardanoAlgorithmForBezier returns the real root in [0,1] of the cubic
// a*t^3 + b*t^2 + c*t + d = 0 using Cardano's formula. For bezier time
// projections exactly one root lies in [0,1]; when the discriminant yields
// several real candidates the one nearest the segment interior is selected.
func cardanoAlgorithmForBezier(a, b, c, d float64) float64 {
	if math.Abs(a) < cardanoEpsilon {
		return clampUnit(quadraticEquation(b, c, d))
	}

	ba := b / a
	ca := c / a
	da := d / a

	p := (3*ca - ba*ba) / 3
	p3 := p / 3
	q := (2*ba*ba*ba - 9*ba*ca + 27*da) / 27
	q2 := q / 2
	discriminant := q2*q2 + p3*p3*p3

	const center = 0.5
	const threshold = center + 0.01

	if discriminant < 0 {
		mp3 := -p / 3
		mp33 := mp3 * mp3 * mp3
		r := math.Sqrt(mp33)
		t := -q / (2 * r)
		cosphi := t
		if cosphi < -1 {
			cosphi = -1
		} else if cosphi > 1 {
			cosphi = 1
		}
		phi := math.Acos(cosphi)
		crtr := math.Cbrt(r)
		t1 := 2 * crtr

		root1 := t1*math.Cos(phi/3) - ba/3
		if math.Abs(root1-center) < threshold {
			return clampUnit(root1)
		}

		root2 := t1*math.Cos((phi+2*math.Pi)/3) - ba/3
		if math.Abs(root2-center) < threshold {
			return clampUnit(root2)
		}

		root3 := t1*math.Cos((phi+4*math.Pi)/3) - ba/3
		return clampUnit(root3)
	}

	if discriminant == 0 {
		var u1 float64
		if q2 < 0 {
			u1 = math.Cbrt(-q2)
		} else {
			u1 = -math.Cbrt(q2)
		}

		root1 := 2*u1 - ba/3
		if math.Abs(root1-center) < threshold {
			return clampUnit(root1)
		}

		root2 := -u1 - ba/3
		return clampUnit(root2)
	}

	sd := math.Sqrt(discriminant)
	u1 := math.Cbrt(sd - q2)
	v1 := math.Cbrt(sd + q2)
	return clampUnit(u1 - v1 - ba/3)
}

func clampUnit(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
