// Package schedule implements priority-aware topological scheduling: it
// assigns each operation a priority in {1,2,3,4} reflecting its relation to
// parallel tasks, then runs Kahn's algorithm over a priority max-heap to
// produce a deterministic execution order.
package schedule

import (
	"container/heap"
	"sort"

	"github.com/pkg/errors"

	"github.com/gomlx/flowc/flow"
)

// Run computes priorities and a total order for every operation and
// variable in f, and reorders f.Ops, f.Vars and every function's op list to
// match. It returns an error if the graph contains a cycle, since Kahn's
// algorithm cannot then visit every operation.
func Run(f *flow.Flow) error {
	assignPriorities(f)

	orderedOps, orderedVars, err := kahn(f)
	if err != nil {
		return err
	}

	orderedVars = prependSourceless(f, orderedVars)
	if len(orderedVars) != len(f.Vars) {
		return errors.Errorf("schedule: ordered %d variables but flow has %d; the graph is inconsistent", len(orderedVars), len(f.Vars))
	}

	f.Ops = orderedOps
	f.Vars = orderedVars
	for i, op := range f.Ops {
		op.Order = int32(i)
	}

	for _, fn := range f.Funcs {
		stableSortOpsByOrder(fn.Ops)
	}
	return nil
}

// assignPriorities implements spec step 4.4.1-4.4.3: every op starts at
// priority 3; ops assigned to a non-zero task become priority 2, and the
// ops immediately feeding into or draining from them join a pre set
// (priority 4) or post set (priority 1). Both sets then grow to a fixed
// point: the pre set backwards to the task-0 producers of its members'
// inputs, the post set forwards to the task-0 consumers of its members'
// outputs.
func assignPriorities(f *flow.Flow) {
	for _, op := range f.Ops {
		op.Priority = 3
	}

	pre := make(map[*flow.Operation]bool)
	post := make(map[*flow.Operation]bool)

	for _, op := range f.Ops {
		if op.Task == 0 {
			continue
		}
		op.Priority = 2
		for _, in := range op.Inputs {
			if in.Producer != nil && in.Producer.Task == 0 {
				pre[in.Producer] = true
				in.Producer.Priority = 4
			}
		}
		for _, out := range op.Outputs {
			for _, consumer := range out.Consumers {
				if consumer.Task == 0 {
					post[consumer] = true
					consumer.Priority = 1
				}
			}
		}
	}

	again := true
	for again {
		again = false
		for _, op := range f.Ops {
			if op.Task != 0 {
				continue
			}
			if !pre[op] {
			findPre:
				for _, out := range op.Outputs {
					for _, consumer := range out.Consumers {
						if pre[consumer] {
							pre[op] = true
							op.Priority = 4
							again = true
							break findPre
						}
					}
				}
			}
			if !post[op] {
				for _, in := range op.Inputs {
					if in.Producer != nil && post[in.Producer] {
						post[op] = true
						op.Priority = 1
						again = true
						break
					}
				}
			}
		}
	}
}

// readyItem is one entry of the scheduling heap.
type readyItem struct {
	op    *flow.Operation
	order int32
}

// readyHeap is a max-heap ordered by (priority desc, order asc): the
// highest-priority, earliest-ready operation sorts first.
type readyHeap []readyItem

func (h readyHeap) Len() int { return len(h) }
func (h readyHeap) Less(i, j int) bool {
	if h[i].op.Priority != h[j].op.Priority {
		return h[i].op.Priority > h[j].op.Priority
	}
	return h[i].order < h[j].order
}
func (h readyHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *readyHeap) Push(x any)        { *h = append(*h, x.(readyItem)) }
func (h *readyHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// kahn runs the priority-aware topological sort and returns operations and
// variables in the order they became ready, plus an error if any operation
// never reaches missing = 0 (a cycle).
func kahn(f *flow.Flow) ([]*flow.Operation, []*flow.Variable, error) {
	missing := make(map[*flow.Operation]int32, len(f.Ops))
	for _, op := range f.Ops {
		var m int32
		for _, in := range op.Inputs {
			if in.Producer != nil {
				m++
			}
		}
		missing[op] = m
	}

	var nextOrder int32
	h := &readyHeap{}
	for _, op := range f.Ops {
		if missing[op] == 0 {
			heap.Push(h, readyItem{op: op, order: nextOrder})
			op.Order = nextOrder
			nextOrder++
		}
	}

	orderedOps := make([]*flow.Operation, 0, len(f.Ops))
	orderedVars := make([]*flow.Variable, 0, len(f.Vars))
	for h.Len() > 0 {
		item := heap.Pop(h).(readyItem)
		op := item.op
		orderedOps = append(orderedOps, op)
		orderedVars = append(orderedVars, op.Outputs...)
		for _, out := range op.Outputs {
			for _, consumer := range out.Consumers {
				missing[consumer]--
				if missing[consumer] == 0 {
					heap.Push(h, readyItem{op: consumer, order: nextOrder})
					consumer.Order = nextOrder
					nextOrder++
				}
			}
		}
	}

	if len(orderedOps) != len(f.Ops) {
		return nil, nil, errors.Errorf("schedule: only scheduled %d of %d operations; the flow contains a cycle", len(orderedOps), len(f.Ops))
	}
	return orderedOps, orderedVars, nil
}

// prependSourceless prepends every variable without a producer, in its
// original flow order, to the already-scheduled variable sequence.
func prependSourceless(f *flow.Flow, scheduled []*flow.Variable) []*flow.Variable {
	result := make([]*flow.Variable, 0, len(f.Vars))
	for _, v := range f.Vars {
		if v.Producer == nil {
			result = append(result, v)
		}
	}
	return append(result, scheduled...)
}

// stableSortOpsByOrder sorts ops in place by Order ascending.
func stableSortOpsByOrder(ops []*flow.Operation) {
	sort.SliceStable(ops, func(i, j int) bool { return ops[i].Order < ops[j].Order })
}
