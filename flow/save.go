package flow

import (
	"encoding/binary"
	"io"

	"github.com/gomlx/flowc/types/dtypes"
	"github.com/pkg/errors"
)

// writer wraps an io.Writer with the little-endian, length-prefixed
// primitives the binary IR format is built from.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) write(b []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(b)
}

func (w *writer) int32(v int32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(v))
	w.write(buf[:])
}

func (w *writer) uint64(v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	w.write(buf[:])
}

func (w *writer) string(s string) {
	w.int32(int32(len(s)))
	w.write([]byte(s))
}

// Save serializes the flow to w in the binary IR format documented by the
// module (magic "flow", version 3). LoadReader reads the result back with the
// same variables, types, shapes, constants, operations, attributes, functions
// and connectors. The format does not carry the In/Out boundary flags or the
// scheduling fields, an undefined shape is written as rank 0 and reloads as a
// scalar, and LoadReader adds each operation's name as an alias of its
// outputs.
func (f *Flow) Save(w io.Writer) error {
	out := &writer{w: w}

	out.int32(int32(magicNumber))
	out.int32(supportedVersion)

	out.int32(int32(len(f.Vars)))
	for _, v := range f.Vars {
		out.string(v.Name)
		out.int32(int32(len(v.Aliases)))
		for _, alias := range v.Aliases {
			out.string(alias)
		}
		typeStr := v.Type.String()
		if v.Type == dtypes.Invalid {
			typeStr = ""
		}
		if v.Ref {
			typeStr = "&" + typeStr
		}
		out.string(typeStr)
		dims := v.Shape.Dims()
		out.int32(int32(len(dims)))
		for _, d := range dims {
			out.int32(int32(d))
		}
		out.uint64(v.Size)
		if v.Size != 0 {
			out.write(v.Data)
		}
	}

	out.int32(int32(len(f.Ops)))
	for _, op := range f.Ops {
		out.string(op.Name)
		out.string(op.Type)
		out.int32(int32(len(op.Inputs)))
		for _, in := range op.Inputs {
			out.string(in.Name)
		}
		out.int32(int32(len(op.Outputs)))
		for _, o := range op.Outputs {
			out.string(o.Name)
		}
		attrs := op.Attrs
		if op.Task != 0 && op.Attrs.GetInt("task", 0) != int(op.Task) {
			// op.Task may have been set directly (e.g. by a rewrite or by
			// extract.Subgraph) without going through the "task" attribute
			// that Load derives it from; keep them in sync on the wire.
			attrs = attrs.Clone()
			attrs.SetInt("task", int(op.Task))
		}
		out.int32(int32(len(attrs)))
		for _, attr := range attrs {
			out.string(attr.Name)
			out.string(attr.Value)
		}
	}

	out.int32(int32(len(f.Funcs)))
	for _, fn := range f.Funcs {
		out.string(fn.Name)
		out.int32(int32(len(fn.Ops)))
		for _, op := range fn.Ops {
			out.string(op.Name)
		}
	}

	out.int32(int32(len(f.Connectors)))
	for _, c := range f.Connectors {
		out.string(c.Name)
		out.int32(int32(len(c.Links)))
		for _, v := range c.Links {
			out.string(v.Name)
		}
	}

	if out.err != nil {
		return errors.Wrap(out.err, "failed to write flow file")
	}
	return nil
}
