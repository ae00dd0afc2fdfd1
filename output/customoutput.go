/*
Copyright © 2013 the cemhyd authors.
This file is part of cemhyd.

cemhyd is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

cemhyd is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with cemhyd.  If not, see <http://www.gnu.org/licenses/>.
*/

package output

import (
	"fmt"
	"math"

	"github.com/Knetic/govaluate"
	"github.com/spatialmodel/cemhyd"
)

// CustomColumn is one user-defined output column read from
// customoutput.dat (spec.md section 6.5): a name and an arbitrary
// expression over the row's named variables.
type CustomColumn struct {
	Name       string
	Expression string
}

// CustomEvaluator compiles a set of CustomColumns once and evaluates them
// against each DataRow, mirroring io.go's Outputter/govaluate pattern:
// user expressions reference row fields by name and may call a small set
// of built-in functions (exp, log, log10).
type CustomEvaluator struct {
	compiled []compiledColumn
}

type compiledColumn struct {
	name string
	expr *govaluate.EvaluableExpression
}

var customFunctions = map[string]govaluate.ExpressionFunction{
	"exp": func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("cemhyd: exp takes 1 argument, got %d", len(args))
		}
		return math.Exp(args[0].(float64)), nil
	},
	"log": func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("cemhyd: log takes 1 argument, got %d", len(args))
		}
		return math.Log(args[0].(float64)), nil
	},
	"log10": func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("cemhyd: log10 takes 1 argument, got %d", len(args))
		}
		return math.Log10(args[0].(float64)), nil
	},
}

// NewCustomEvaluator compiles every column's expression up front, so a
// syntax error in customoutput.dat is reported before the run starts
// rather than on the first row.
func NewCustomEvaluator(columns []CustomColumn) (*CustomEvaluator, error) {
	ce := &CustomEvaluator{}
	for _, c := range columns {
		expr, err := govaluate.NewEvaluableExpressionWithFunctions(c.Expression, customFunctions)
		if err != nil {
			return nil, fmt.Errorf("cemhyd: customoutput.dat column %q: %w", c.Name, err)
		}
		ce.compiled = append(ce.compiled, compiledColumn{name: c.Name, expr: expr})
	}
	return ce, nil
}

// Evaluate returns the value of every compiled column for row, keyed by
// column name.
func (ce *CustomEvaluator) Evaluate(row cemhyd.DataRow) (map[string]float64, error) {
	params := rowParameters(row)
	out := make(map[string]float64, len(ce.compiled))
	for _, c := range ce.compiled {
		v, err := c.expr.Evaluate(params)
		if err != nil {
			return nil, fmt.Errorf("cemhyd: evaluating %q: %w", c.name, err)
		}
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("cemhyd: column %q did not evaluate to a number", c.name)
		}
		out[c.name] = f
	}
	return out, nil
}

func rowParameters(row cemhyd.DataRow) map[string]interface{} {
	params := map[string]interface{}{
		"cycle":       float64(row.Cycle),
		"time_h":      row.TimeHours,
		"alpha_mass":  row.AlphaMass,
		"heat":        row.HeatKJPerKg,
		"temp_c":      row.TempC,
		"chem_shrink": row.ChemShrinkage,
		"ph":          row.PH,
		"pore_frac":   row.PoreFraction,
	}
	for phase, frac := range row.PhaseVolumeFractions {
		params[phase.String()] = frac
	}
	return params
}
