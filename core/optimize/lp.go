// Package optimize implements the optimization operation model: the
// heat-pump electricity of the reference solution is re-dispatched within
// each day to the cheapest hours, solved as a linear program.
package optimize

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// solveDay minimises sum(price[i]*x[i]) subject to sum(x) = target and
// 0 <= x[i] <= cap[i] using the simplex algorithm.
func solveDay(prices, caps []float64, target float64) ([]float64, error) {
	n := len(prices)
	c := make([]float64, n)
	copy(c, prices)

	g := mat.NewDense(n, n, nil)
	h := make([]float64, n)
	for i, cap := range caps {
		g.Set(i, i, 1)
		h[i] = cap
	}

	a := mat.NewDense(1, n, nil)
	for i := 0; i < n; i++ {
		a.Set(0, i, 1)
	}
	b := []float64{target}

	cStd, aStd, bStd := lp.Convert(c, g, h, a, b)
	_, sol, err := lp.Simplex(cStd, aStd, bStd, 1e-7, nil)
	if err != nil {
		return nil, err
	}
	return sol[:n], nil
}

// lpSolve points to the function used to solve the daily LP. It can be
// overridden in tests to simulate solver failures.
var lpSolve = solveDay
