// Package weight calibrates survey design weights against known population
// distributions: direct post-stratification on one categorical variable and
// iterative proportional fitting (raking) across several marginal targets.
package weight

import (
	"fmt"
	"math"

	"github.com/CrossTally/crosstally-cli/internal/dataset"
)

// Target is a desired marginal distribution for one categorical variable.
// Dist values may be population counts or shares; a distribution summing to
// (approximately) 1 is treated as shares and scaled to the base weight total.
type Target struct {
	Var  string
	Dist map[string]float64
}

// Options controls calibration.
type Options struct {
	// Weight overrides the dataset's designated base weight column.
	Weight string
	// Tolerance is the largest acceptable relative margin error at
	// convergence. Defaults to 1e-6.
	Tolerance float64
	// MaxIter caps raking iterations. Defaults to 50.
	MaxIter int
}

// Result carries the calibrated weights and convergence diagnostics.
type Result struct {
	Weights    []float64
	Iterations int
	Converged  bool
	// MaxError is the final largest relative margin error across targets.
	MaxError float64
}

// Diagnostics summarizes a weight vector for reporting.
type Diagnostics struct {
	DesignEffect float64 // 1 + CV² of the weights
	EffectiveN   float64 // n / DesignEffect
	MinWeight    float64
	MaxWeight    float64
	MeanWeight   float64
}

// PostStratify computes weights so the weighted distribution of one
// categorical variable matches the target exactly: each row's base weight is
// scaled by targetMass(category) / currentMass(category).
func PostStratify(ds *dataset.Dataset, target Target, opt Options) (*Result, error) {
	factors, base, err := prepare(ds, []Target{target}, opt)
	if err != nil {
		return nil, err
	}
	w := append([]float64(nil), base...)
	if err := adjust(factors[0], w); err != nil {
		return nil, err
	}
	return &Result{Weights: w, Iterations: 1, Converged: true}, nil
}

// Rake iteratively adjusts weights until every marginal target is met within
// tolerance, or the iteration cap is reached. Non-convergence is an error
// naming the worst-fitting margin.
func Rake(ds *dataset.Dataset, targets []Target, opt Options) (*Result, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("rake: no targets given")
	}
	factors, base, err := prepare(ds, targets, opt)
	if err != nil {
		return nil, err
	}
	tol := opt.Tolerance
	if tol <= 0 {
		tol = 1e-6
	}
	maxIter := opt.MaxIter
	if maxIter <= 0 {
		maxIter = 50
	}

	w := append([]float64(nil), base...)
	res := &Result{}
	worstVar := ""
	for iter := 1; iter <= maxIter; iter++ {
		for _, f := range factors {
			if err := adjust(f, w); err != nil {
				return nil, err
			}
		}
		res.Iterations = iter
		res.MaxError, worstVar = maxRelError(factors, w)
		if res.MaxError < tol {
			res.Converged = true
			res.Weights = w
			return res, nil
		}
	}
	return nil, fmt.Errorf("rake: no convergence after %d iterations (margin %q off by %.3g)",
		maxIter, worstVar, res.MaxError)
}

// Diagnose computes summary diagnostics for a weight vector.
func Diagnose(weights []float64) Diagnostics {
	n := float64(len(weights))
	if n == 0 {
		return Diagnostics{}
	}
	var sum, sumSq float64
	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range weights {
		sum += v
		sumSq += v * v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	mean := sum / n
	d := Diagnostics{MinWeight: min, MaxWeight: max, MeanWeight: mean}
	if mean > 0 {
		variance := sumSq/n - mean*mean
		if variance < 0 {
			variance = 0
		}
		cv2 := variance / (mean * mean)
		d.DesignEffect = 1 + cv2
		d.EffectiveN = n / d.DesignEffect
	}
	return d
}

// calTarget is a validated target bound to its factor column: desired mass
// per level code.
type calTarget struct {
	name    string
	codes   []int // per-row level code
	desired []float64
}

// prepare validates targets against the dataset, materializes base weights,
// and converts share-style distributions to mass on the base weight scale.
func prepare(ds *dataset.Dataset, targets []Target, opt Options) ([]calTarget, []float64, error) {
	base, err := ds.Weights(opt.Weight)
	if err != nil {
		return nil, nil, err
	}
	var baseTotal float64
	for _, v := range base {
		baseTotal += v
	}
	if baseTotal <= 0 {
		return nil, nil, fmt.Errorf("calibration: base weight total is zero")
	}

	out := make([]calTarget, 0, len(targets))
	for _, t := range targets {
		c, err := ds.Factor(t.Var)
		if err != nil {
			return nil, nil, err
		}
		levels := c.Levels()
		byLabel := make(map[string]int, len(levels))
		for i, l := range levels {
			byLabel[l] = i
		}
		for cat := range t.Dist {
			if _, ok := byLabel[cat]; !ok {
				return nil, nil, fmt.Errorf("target for %q: category %q not present in data", t.Var, cat)
			}
		}
		var distSum float64
		for _, v := range t.Dist {
			if v < 0 {
				return nil, nil, fmt.Errorf("target for %q: negative mass", t.Var)
			}
			distSum += v
		}
		if distSum <= 0 {
			return nil, nil, fmt.Errorf("target for %q: empty distribution", t.Var)
		}
		scale := 1.0
		if math.Abs(distSum-1) < 1e-9 {
			scale = baseTotal // shares -> mass on the base weight scale
		}

		ct := calTarget{name: t.Var, desired: make([]float64, len(levels))}
		ct.codes = make([]int, ds.Len())
		for i := 0; i < ds.Len(); i++ {
			code := c.Code(i)
			if code < 0 {
				return nil, nil, fmt.Errorf("calibration variable %q has a missing value at row %d", t.Var, i+1)
			}
			ct.codes[i] = code
		}
		for code, label := range levels {
			mass, ok := t.Dist[label]
			if !ok {
				return nil, nil, fmt.Errorf("target for %q: category %q has no target mass", t.Var, label)
			}
			ct.desired[code] = mass * scale
		}
		out = append(out, ct)
	}
	return out, base, nil
}

// adjust scales w in place so the weighted margin of one target matches its
// desired distribution.
func adjust(t calTarget, w []float64) error {
	current := make([]float64, len(t.desired))
	for i, code := range t.codes {
		current[code] += w[i]
	}
	ratio := make([]float64, len(t.desired))
	for code, want := range t.desired {
		if current[code] <= 0 {
			if want > 0 {
				return fmt.Errorf("margin %q: category with target mass %.3g has zero sample weight", t.name, want)
			}
			ratio[code] = 0
			continue
		}
		ratio[code] = want / current[code]
	}
	for i, code := range t.codes {
		w[i] *= ratio[code]
	}
	return nil
}

// maxRelError returns the largest relative margin error across all targets
// and the variable it belongs to.
func maxRelError(targets []calTarget, w []float64) (float64, string) {
	worst, worstVar := 0.0, ""
	for _, t := range targets {
		current := make([]float64, len(t.desired))
		for i, code := range t.codes {
			current[code] += w[i]
		}
		for code, want := range t.desired {
			if want <= 0 {
				continue
			}
			e := math.Abs(current[code]-want) / want
			if e > worst {
				worst = e
				worstVar = t.name
			}
		}
	}
	return worst, worstVar
}
