package flow

import (
	"encoding/binary"
	"io"
	"os"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/flowc/types/dtypes"
	"github.com/gomlx/flowc/types/shapes"
	"github.com/pkg/errors"
)

const (
	magicNumber    = 0x776f6c66 // "flow", little-endian.
	supportedVersion = 3
)

// Load reads a binary IR file (see the module's binary format documentation)
// from path into a freshly created Flow with the given default batch size.
func Load(path string, batchSize int) (*Flow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open flow file %q", path)
	}
	defer func() { _ = file.Close() }()
	return LoadReader(file, batchSize)
}

// LoadReader reads a binary IR file from r into a freshly created Flow.
//
// Format errors (bad magic, unsupported version, dangling name references,
// truncated input) are returned as an error. Invariant-violation panics
// raised while wiring up the loaded graph (e.g. a duplicate output) are
// recovered and also returned as an error, rather than propagating as a
// panic out of Load.
func LoadReader(r io.Reader, batchSize int) (f *Flow, err error) {
	err = exceptions.TryCatch[error](func() {
		f = loadReader(r, batchSize)
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// reader wraps an io.Reader with the little-endian, length-prefixed
// primitives the binary IR format is built from. Read failures panic with a
// wrapped error, which LoadReader recovers into a returned error.
type reader struct {
	r io.Reader
}

func (p *reader) bytes(n int) []byte {
	buf := make([]byte, n)
	if _, err := io.ReadFull(p.r, buf); err != nil {
		panic(errors.Wrapf(err, "unexpected end of flow file (wanted %d bytes)", n))
	}
	return buf
}

func (p *reader) int32() int32 {
	return int32(binary.LittleEndian.Uint32(p.bytes(4)))
}

func (p *reader) uint64() uint64 {
	return binary.LittleEndian.Uint64(p.bytes(8))
}

func (p *reader) string() string {
	n := p.int32()
	if n == 0 {
		return ""
	}
	return string(p.bytes(int(n)))
}

func loadReader(r io.Reader, batchSize int) *Flow {
	p := &reader{r: r}

	magic := p.int32()
	if uint32(magic) != magicNumber {
		panic(errors.Errorf("not a flow file: bad magic number %#x", uint32(magic)))
	}
	version := p.int32()
	if version != supportedVersion {
		panic(errors.Errorf("unsupported flow file version %d", version))
	}

	f := New(batchSize)

	numVars := p.int32()
	for i := int32(0); i < numVars; i++ {
		v := &Variable{Name: p.string()}
		f.Vars = append(f.Vars, v)

		numAliases := p.int32()
		for j := int32(0); j < numAliases; j++ {
			v.Aliases = append(v.Aliases, p.string())
		}

		typeStr := p.string()
		if strings.HasPrefix(typeStr, "&") {
			v.Ref = true
			typeStr = typeStr[1:]
		}
		if typeStr == "" {
			v.Type = dtypes.Invalid
		} else {
			t := dtypes.TypeByName(typeStr)
			if !t.Valid() {
				panic(errors.Errorf("unknown type %q for variable %q", typeStr, v.Name))
			}
			v.Type = t
		}

		rank := p.int32()
		dims := make([]int, rank)
		for d := int32(0); d < rank; d++ {
			size := int(p.int32())
			if size == -1 {
				size = f.BatchSize
			}
			dims[d] = size
		}
		v.Shape = shapes.Make(dims...)

		v.Size = p.uint64()
		if v.Size != 0 {
			v.Data = f.allocate(int(v.Size))
			copy(v.Data, p.bytes(int(v.Size)))
		}
	}

	numOps := p.int32()
	for i := int32(0); i < numOps; i++ {
		op := &Operation{Name: p.string(), Type: p.string()}
		f.Ops = append(f.Ops, op)

		numInputs := p.int32()
		for j := int32(0); j < numInputs; j++ {
			name := p.string()
			v := f.Var(name)
			if v == nil {
				panic(errors.Errorf("unknown input %q for operation %q", name, op.Name))
			}
			op.AddInput(v)
		}

		numOutputs := p.int32()
		for j := int32(0); j < numOutputs; j++ {
			name := p.string()
			v := f.Var(name)
			if v == nil {
				panic(errors.Errorf("unknown output %q for operation %q", name, op.Name))
			}
			op.AddOutput(v)
			v.AddAlias(op.Name)
		}

		numAttrs := p.int32()
		for j := int32(0); j < numAttrs; j++ {
			name := p.string()
			value := p.string()
			op.Attrs.Set(name, value)
			if name == "task" {
				op.Task = int32(op.Attrs.GetInt("task", 0))
			}
		}
	}

	numFuncs := p.int32()
	for i := int32(0); i < numFuncs; i++ {
		fn := &Function{Name: p.string()}
		f.Funcs = append(f.Funcs, fn)

		numFuncOps := p.int32()
		for j := int32(0); j < numFuncOps; j++ {
			name := p.string()
			op := f.Op(name)
			if op == nil {
				panic(errors.Errorf("unknown operation %q for function %q", name, fn.Name))
			}
			fn.AddOperation(op)
		}
	}

	numConnectors := p.int32()
	for i := int32(0); i < numConnectors; i++ {
		c := &Connector{Name: p.string()}
		f.Connectors = append(f.Connectors, c)

		numLinks := p.int32()
		for j := int32(0); j < numLinks; j++ {
			name := p.string()
			v := f.Var(name)
			if v == nil {
				panic(errors.Errorf("unknown variable %q for connector %q", name, c.Name))
			}
			c.AddLink(v)
		}
	}

	return f
}
