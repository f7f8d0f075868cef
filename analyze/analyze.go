// Package analyze sequences the full analysis pipeline over a Flow:
// boundary inference, rewriting to a fixed point, scheduling, and type
// inference. It lives above the flow, rewrite, boundary, schedule and
// typeinfer packages specifically to avoid an import cycle: those packages
// each operate on *flow.Flow and cannot be imported back by flow itself.
package analyze

import (
	"github.com/gomlx/flowc/boundary"
	"github.com/gomlx/flowc/flow"
	"github.com/gomlx/flowc/rewrite"
	"github.com/gomlx/flowc/schedule"
	"github.com/gomlx/flowc/typeinfer"
)

// Run infers boundary variables, rewrites the graph to a fixed point,
// schedules it, and then runs type inference over the scheduled operations,
// in that order.
//
// It returns an error only if scheduling fails (a cycle in the graph); type
// inference failures are not fatal — Run returns true as its second result
// iff every operation's types and shapes were fully resolved.
func Run(f *flow.Flow, t *rewrite.Transformations) (resolved bool, err error) {
	boundary.Infer(f)
	rewrite.Run(f, t)
	if err := schedule.Run(f); err != nil {
		return false, err
	}
	resolved = typeinfer.Run(f, t.Typers)
	return resolved, nil
}
