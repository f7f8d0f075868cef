// Package boundary implements graph-boundary inference: deciding which
// variables are inputs and outputs of the overall computation before
// rewriting, scheduling and type inference run.
package boundary

import "github.com/gomlx/flowc/flow"

// Infer sets Variable.In and Variable.Out for every variable in f.
//
// A variable whose producer carries an "input" or "output" attribute takes
// that attribute's boolean value explicitly. Otherwise it defaults to an
// input when it has no producer or its producer itself takes no inputs
// (i.e. it is a source), and to an output when it has no consumers.
func Infer(f *flow.Flow) {
	for _, v := range f.Vars {
		if v.Producer != nil {
			if val, ok := v.Producer.Attrs.Get("input"); ok {
				v.In = isTrue(val)
			} else {
				v.In = len(v.Producer.Inputs) == 0
			}
			if val, ok := v.Producer.Attrs.Get("output"); ok {
				v.Out = isTrue(val)
			} else {
				v.Out = len(v.Consumers) == 0
			}
		} else {
			v.In = true
			v.Out = len(v.Consumers) == 0
		}
	}
}

func isTrue(v string) bool {
	return v == "1" || v == "true"
}
