package flow

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/flowc/types/dtypes"
)

// maxAttrBytes is the cutoff above which Dump elides an attribute value,
// printing its byte count instead.
const maxAttrBytes = 128

// String renders the flow as the same text report Dump produces, so a *Flow
// satisfies fmt.Stringer.
func (f *Flow) String() string {
	var b strings.Builder
	f.Dump(&b)
	return b.String()
}

// Dump writes a stable, human-readable text report of the flow to b: a "var"
// block per variable, an "op" block per operation, a "func" block per
// function and a "connector" block per connector.
func (f *Flow) Dump(b *strings.Builder) {
	for _, v := range f.Vars {
		fmt.Fprintf(b, "var %s : %s", v.Name, v.TypeString())
		if v.In {
			b.WriteString(" in")
		}
		if v.Out {
			b.WriteString(" out")
		}
		if v.IsConstant() {
			fmt.Fprintf(b, ", %s", humanize.Bytes(v.Size))
		}
		b.WriteString(" {\n")
		if v.Producer != nil {
			fmt.Fprintf(b, "  from %s\n", v.Producer.Name)
		}
		for _, c := range v.Consumers {
			fmt.Fprintf(b, "  to %s\n", c.Name)
		}
		for _, alias := range v.Aliases {
			if alias != v.Name {
				fmt.Fprintf(b, "  aka %s\n", alias)
			}
		}
		if v.IsConstant() {
			fmt.Fprintf(b, "  = %s\n", v.DataString())
		}
		b.WriteString("}\n\n")
	}

	for _, op := range f.Ops {
		fmt.Fprintf(b, "op %s : %s {\n", op.Name, op.Type)
		if op.Task != 0 {
			fmt.Fprintf(b, "  task %d\n", op.Task)
		}
		for _, in := range op.Inputs {
			fmt.Fprintf(b, "  input %s : %s\n", in.Name, in.TypeString())
		}
		for _, out := range op.Outputs {
			fmt.Fprintf(b, "  output %s : %s\n", out.Name, out.TypeString())
		}
		for _, attr := range op.Attrs {
			if len(attr.Value) > maxAttrBytes {
				fmt.Fprintf(b, "  %s = <<%d bytes>>\n", attr.Name, len(attr.Value))
			} else {
				fmt.Fprintf(b, "  %s = %s\n", attr.Name, attr.Value)
			}
		}
		b.WriteString("}\n\n")
	}

	for _, fn := range f.Funcs {
		fmt.Fprintf(b, "func %s {\n", fn.Name)
		for _, op := range fn.Ops {
			fmt.Fprintf(b, "  %s : %s\n", op.Name, op.Type)
		}
		b.WriteString("}\n\n")
	}

	for _, c := range f.Connectors {
		fmt.Fprintf(b, "connector %s {\n", c.Name)
		for _, v := range c.Links {
			fmt.Fprintf(b, "  %s : %s\n", v.Name, v.TypeString())
		}
		b.WriteString("}\n\n")
	}
}

// DataString renders a constant variable's payload as a scalar, vector or
// matrix literal for ranks 0-2, falling back to "<<rank N tensor>>" for
// higher ranks, or "*" if the shape is partial (unknown element count).
func (v *Variable) DataString() string {
	if v.Data == nil {
		return "null"
	}
	data := v.Data
	if v.Ref {
		return "*"
	}
	if v.Shape.IsPartial() {
		return "*"
	}
	switch v.Shape.Rank() {
	case 0:
		return scalarString(v.Type, data)
	case 1:
		n := v.Shape.Dim(0)
		return "[" + joinScalars(v.Type, data, n) + "]"
	case 2:
		rows := v.Shape.Dim(0)
		cols := v.Shape.Dim(1)
		size := v.Type.Size()
		parts := make([]string, rows)
		for r := 0; r < rows; r++ {
			parts[r] = "[" + joinScalars(v.Type, data[r*cols*size:], cols) + "]"
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		return fmt.Sprintf("<<rank %d tensor>>", v.Shape.Rank())
	}
}

func joinScalars(t dtypes.Type, data []byte, n int) string {
	size := t.Size()
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		off := i * size
		if off+size > len(data) {
			parts[i] = "?"
			continue
		}
		parts[i] = scalarString(t, data[off:off+size])
	}
	return strings.Join(parts, ",")
}

func scalarString(t dtypes.Type, data []byte) string {
	switch t {
	case dtypes.Int8:
		return fmt.Sprintf("%d", int8(data[0]))
	case dtypes.Int16:
		return fmt.Sprintf("%d", int16(binary.LittleEndian.Uint16(data)))
	case dtypes.Int32:
		return fmt.Sprintf("%d", int32(binary.LittleEndian.Uint32(data)))
	case dtypes.Int64:
		return fmt.Sprintf("%d", int64(binary.LittleEndian.Uint64(data)))
	case dtypes.Uint8:
		return fmt.Sprintf("%d", data[0])
	case dtypes.Uint16:
		return fmt.Sprintf("%d", binary.LittleEndian.Uint16(data))
	case dtypes.Float32:
		return fmt.Sprintf("%v", math.Float32frombits(binary.LittleEndian.Uint32(data)))
	case dtypes.Float64:
		return fmt.Sprintf("%v", math.Float64frombits(binary.LittleEndian.Uint64(data)))
	case dtypes.Bool:
		if data[0] != 0 {
			return "true"
		}
		return "false"
	default:
		return "???"
	}
}
