package flow

import (
	"slices"

	"k8s.io/klog/v2"
)

// IsConsistent checks the cross-entity back-pointer invariants of the flow:
// operation/variable producer-consumer edges, and function membership. It logs the first
// offender found via klog and returns false; returns true if none is found.
func (f *Flow) IsConsistent() bool {
	for _, op := range f.Ops {
		for _, in := range op.Inputs {
			if !slices.Contains(f.Vars, in) {
				klog.Warningf("flow: input %q to %q is not in flow", in.Name, op.Name)
				return false
			}
			if !slices.Contains(in.Consumers, op) {
				klog.Warningf("flow: operation %q is not a consumer of %q", op.Name, in.Name)
				return false
			}
		}
		for _, out := range op.Outputs {
			if !slices.Contains(f.Vars, out) {
				klog.Warningf("flow: output %q from %q is not in flow", out.Name, op.Name)
				return false
			}
			if out.Producer != op {
				klog.Warningf("flow: operation %q is not the producer of %q", op.Name, out.Name)
				return false
			}
		}
	}

	for _, v := range f.Vars {
		if v.Producer != nil {
			if !slices.Contains(f.Ops, v.Producer) {
				klog.Warningf("flow: producer for %q is not in flow", v.Name)
				return false
			}
			if !slices.Contains(v.Producer.Outputs, v) {
				klog.Warningf("flow: %q is not an output of its producer %q", v.Name, v.Producer.Name)
				return false
			}
		}
		for _, consumer := range v.Consumers {
			if !slices.Contains(f.Ops, consumer) {
				klog.Warningf("flow: consumer of %q is not in flow", v.Name)
				return false
			}
			if !slices.Contains(consumer.Inputs, v) {
				klog.Warningf("flow: %q is not an input of its consumer %q", v.Name, consumer.Name)
				return false
			}
		}
	}

	for _, fn := range f.Funcs {
		for _, op := range fn.Ops {
			if !slices.Contains(f.Ops, op) {
				klog.Warningf("flow: operation %q of function %q is not in flow", op.Name, fn.Name)
				return false
			}
			if op.Func != fn {
				klog.Warningf("flow: operation %q does not belong to function %q", op.Name, fn.Name)
				return false
			}
		}
	}

	return true
}
