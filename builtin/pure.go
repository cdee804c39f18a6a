package builtin

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// EvalPure evaluates a KindPure builtin given its already-evaluated
// arguments. The compiler guarantees arity via CheckArity before this is
// ever called from the VM.
func EvalPure(name string, args []float64) (float64, error) {
	switch name {
	case "abs":
		return math.Abs(args[0]), nil
	case "min":
		return math.Min(args[0], args[1]), nil
	case "max":
		return math.Max(args[0], args[1]), nil
	case "exp":
		return math.Exp(args[0]), nil
	case "ln":
		return math.Log(args[0]), nil
	case "log10":
		return math.Log10(args[0]), nil
	case "sqrt":
		return math.Sqrt(args[0]), nil
	case "sin":
		return math.Sin(args[0]), nil
	case "cos":
		return math.Cos(args[0]), nil
	case "tan":
		return math.Tan(args[0]), nil
	case "arctan":
		return math.Atan(args[0]), nil
	case "modulo":
		return math.Mod(args[0], args[1]), nil
	case "int":
		return math.Trunc(args[0]), nil
	case "zidz":
		// ZIDZ(num, denom): 0 when denom == 0, else num/denom. Common
		// system-dynamics guard against division-by-zero producing NaN.
		if args[1] == 0 {
			return 0, nil
		}
		return args[0] / args[1], nil
	case "xidz":
		// XIDZ(num, denom, x): x when denom == 0, else num/denom.
		if args[1] == 0 {
			return args[2], nil
		}
		return args[0] / args[1], nil
	case "nonnegative":
		return math.Max(args[0], 0), nil
	}
	return 0, chk.Err("builtin: %q is not a pure function", name)
}
