package catalog

import (
	"fmt"
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Curve is a compiled power expression over two variables: base (signed MW
// at 100% clock) and clock (fraction, 1.0 = 100%). Catalogs ship curves as
// strings, e.g. "base * pow(clock, 1.6)" for a standard consumer or
// "base * clock" for a linear generator; "base" alone models a fixed draw
// that ignores the clock.
type Curve struct {
	src     string
	program *vm.Program
}

func curveEnv(base, clock float64) map[string]any {
	return map[string]any{
		"base":  base,
		"clock": clock,
		"pow":   math.Pow,
	}
}

// CompileCurve compiles a curve expression. The result must be numeric;
// compilation failures surface here so aggregation never sees a bad curve.
func CompileCurve(src string) (*Curve, error) {
	program, err := expr.Compile(src, expr.Env(curveEnv(0, 0)), expr.AsFloat64())
	if err != nil {
		return nil, fmt.Errorf("compiling power curve %q: %w", src, err)
	}
	return &Curve{src: src, program: program}, nil
}

// MustCurve is CompileCurve for statically known expressions.
func MustCurve(src string) *Curve {
	c, err := CompileCurve(src)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Curve) Eval(base, clock float64) (float64, error) {
	out, err := expr.Run(c.program, curveEnv(base, clock))
	if err != nil {
		return 0, fmt.Errorf("evaluating power curve %q: %w", c.src, err)
	}
	mw, ok := out.(float64)
	if !ok {
		return 0, fmt.Errorf("power curve %q: result is %T, want float64", c.src, out)
	}
	return mw, nil
}

func (c *Curve) String() string { return c.src }
