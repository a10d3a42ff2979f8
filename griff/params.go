package griff

import (
	"fmt"
	"io"

	"github.com/arloliu/griff/encoding"
	"github.com/arloliu/griff/errs"
	"github.com/arloliu/griff/internal/pool"
)

// ParamType is the value type of a named parameter.
type ParamType uint8

const (
	ParamDouble ParamType = 0
	ParamInt    ParamType = 1
	ParamBool   ParamType = 2
	ParamString ParamType = 3
)

func (t ParamType) String() string {
	switch t {
	case ParamDouble:
		return "dbl"
	case ParamInt:
		return "int"
	case ParamBool:
		return "flg"
	case ParamString:
		return "str"
	default:
		return fmt.Sprintf("ParamType(%d)", uint8(t))
	}
}

// Param is one named parameter value. Only the field matching Type is used.
type Param struct {
	Name   string
	Type   ParamType
	Double float64
	Int    int32
	Bool   bool
	String string
}

// DoubleParam returns a floating point parameter.
func DoubleParam(name string, v float64) Param { return Param{Name: name, Type: ParamDouble, Double: v} }

// IntParam returns an integer parameter.
func IntParam(name string, v int32) Param { return Param{Name: name, Type: ParamInt, Int: v} }

// BoolParam returns a flag parameter.
func BoolParam(name string, v bool) Param { return Param{Name: name, Type: ParamBool, Bool: v} }

// StringParam returns a string parameter.
func StringParam(name, v string) Param { return Param{Name: name, Type: ParamString, String: v} }

// Params is an ordered list of parameters, as serialised by the simulation
// job for its geometry, generator and filters.
type Params []Param

// Get returns the parameter called name.
func (p Params) Get(name string) (Param, bool) {
	for _, par := range p {
		if par.Name == name {
			return par, true
		}
	}

	return Param{}, false
}

// Encode returns the binary form: u32 count, then per parameter its name,
// a u8 type and the value.
func (p Params) Encode() []byte {
	buf := pool.GetScratchBuffer()
	defer pool.PutScratchBuffer(buf)
	w := encoding.NewWriter(buf)
	w.WriteUint32(uint32(len(p))) //nolint:gosec
	for _, par := range p {
		w.WriteString(par.Name)
		w.WriteUint8(uint8(par.Type))
		switch par.Type {
		case ParamDouble:
			w.WriteFloat64(par.Double)
		case ParamInt:
			w.WriteInt32(par.Int)
		case ParamBool:
			w.WriteBool(par.Bool)
		case ParamString:
			w.WriteString(par.String)
		}
	}

	return append([]byte(nil), buf.Bytes()...)
}

// DecodeParams parses the binary form written by Params.Encode.
func DecodeParams(data []byte) (Params, error) {
	r := encoding.NewReader(data)
	n := r.ReadUint32()
	var out Params
	for i := uint32(0); i < n && r.Err() == nil; i++ {
		par := Param{Name: r.ReadString(), Type: ParamType(r.ReadUint8())}
		switch par.Type {
		case ParamDouble:
			par.Double = r.ReadFloat64()
		case ParamInt:
			par.Int = r.ReadInt32()
		case ParamBool:
			par.Bool = r.ReadBool()
		case ParamString:
			par.String = r.ReadString()
		default:
			if r.Err() == nil {
				return nil, fmt.Errorf("%w: parameter %q has type %d", errs.ErrInvalidRecord, par.Name, par.Type)
			}
		}
		out = append(out, par)
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("decode parameters: %w", err)
	}

	return out, nil
}

// Dump prints one line per parameter in stored order.
func (p Params) Dump(w io.Writer, prefix string) {
	for _, par := range p {
		switch par.Type {
		case ParamDouble:
			fmt.Fprintf(w, "%s[dbl] %s = %.14g\n", prefix, par.Name, par.Double)
		case ParamInt:
			fmt.Fprintf(w, "%s[int] %s = %d\n", prefix, par.Name, par.Int)
		case ParamBool:
			v := "no"
			if par.Bool {
				v = "yes"
			}
			fmt.Fprintf(w, "%s[flg] %s = %s\n", prefix, par.Name, v)
		case ParamString:
			fmt.Fprintf(w, "%s[str] %s = \"%s\"\n", prefix, par.Name, par.String)
		}
	}
}

// ParamKind selects one of the parameter sets recorded in the setup.
type ParamKind int

const (
	ParamsGeo ParamKind = iota
	ParamsGen
	ParamsFilter
	ParamsKillFilter
)

// keyPrefix is the stem of the metadata keys "<stem>Name" and the binary
// entry "<stem>Serialised".
func (k ParamKind) keyPrefix() string {
	switch k {
	case ParamsGeo:
		return "geo"
	case ParamsGen:
		return "gen"
	case ParamsFilter:
		return "filter"
	case ParamsKillFilter:
		return "killFilter"
	default:
		panic(fmt.Sprintf("griff: unknown parameter kind %d", int(k)))
	}
}

func (k ParamKind) title() string {
	switch k {
	case ParamsGeo:
		return "GeoConstructor"
	case ParamsGen:
		return "ParticleGenerator"
	default:
		return "StepFilter"
	}
}

// NamedParams is a parameter set together with the name of its owner.
type NamedParams struct {
	Kind   ParamKind
	Name   string
	Params Params
}

// Dump prints a "Kind[name]:" header followed by the indented parameters.
func (np *NamedParams) Dump(w io.Writer, prefix string) {
	fmt.Fprintf(w, "%s%s[%s]:\n", prefix, np.Kind.title(), np.Name)
	np.Params.Dump(w, prefix+"  ")
}
