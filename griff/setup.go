package griff

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/arloliu/griff/encoding"
)

// Metadata key prefixes. Keys without a prefix hold standard metadata.
const (
	binaryKeyPrefix = "`"
	userKeyPrefix   = "^"
	cmdsKey         = "g4Cmds"
	modeKey         = "GriffMode"
)

// Setup is the simulation setup recorded with a group of events: standard
// metadata, user data, binary blobs, Geant4 commands and the parameters of
// the geometry, generator and filters. A Setup is immutable and safe to keep
// across events.
type Setup struct {
	all map[string]string

	metaData, userData, binaryData map[string]string
	cmds                           []string
	cmdsLoaded                     bool
	params                         [4]*NamedParams
	paramsLoaded                   [4]bool
	paramsErr                      [4]error
}

func newSetup(all map[string]string) *Setup {
	s := &Setup{all: all}
	s.metaData = make(map[string]string)
	s.userData = make(map[string]string)
	s.binaryData = make(map[string]string)
	for k, v := range all {
		switch {
		case strings.HasPrefix(k, binaryKeyPrefix):
			s.binaryData[k[len(binaryKeyPrefix):]] = v
		case strings.HasPrefix(k, userKeyPrefix):
			s.userData[k[len(userKeyPrefix):]] = v
		default:
			s.metaData[k] = v
		}
	}

	return s
}

// MetaData returns the standard metadata. The map must not be modified.
func (s *Setup) MetaData() map[string]string { return s.metaData }

// UserData returns the custom metadata. The map must not be modified.
func (s *Setup) UserData() map[string]string { return s.userData }

// BinaryData returns the binary blobs keyed by name. The map must not be
// modified.
func (s *Setup) BinaryData() map[string]string { return s.binaryData }

// Get returns the standard metadata value of key.
func (s *Setup) Get(key string) (string, bool) {
	v, ok := s.metaData[key]
	return v, ok
}

// Mode returns the storage mode recorded by the writer, if any.
func (s *Setup) Mode() (Mode, bool) {
	v, ok := s.metaData[modeKey]
	if !ok {
		return 0, false
	}
	m, err := ParseMode(v)

	return m, err == nil
}

// Cmds returns the Geant4 commands issued by the job.
func (s *Setup) Cmds() []string {
	if !s.cmdsLoaded {
		s.cmdsLoaded = true
		if data, ok := s.binaryData[cmdsKey]; ok {
			s.cmds = encoding.NewReader([]byte(data)).ReadStrings()
		}
	}

	return s.cmds
}

// Params returns the parameter set of kind, or nil when the setup does not
// record one.
func (s *Setup) Params(kind ParamKind) (*NamedParams, error) {
	if !s.paramsLoaded[kind] {
		s.paramsLoaded[kind] = true
		s.params[kind], s.paramsErr[kind] = s.loadParams(kind)
	}

	return s.params[kind], s.paramsErr[kind]
}

func (s *Setup) loadParams(kind ParamKind) (*NamedParams, error) {
	stem := kind.keyPrefix()
	data, ok := s.binaryData[stem+"Serialised"]
	if !ok {
		return nil, nil
	}
	name, ok := s.metaData[stem+"Name"]
	if !ok {
		return nil, nil
	}
	params, err := DecodeParams([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("%s parameters: %w", stem, err)
	}

	return &NamedParams{Kind: kind, Name: name, Params: params}, nil
}

func (s *Setup) paramsOrNil(kind ParamKind) *NamedParams {
	np, err := s.Params(kind)
	if err != nil {
		return nil
	}

	return np
}

// Geo returns the geometry parameters or nil.
func (s *Setup) Geo() *NamedParams { return s.paramsOrNil(ParamsGeo) }

// Gen returns the generator parameters or nil.
func (s *Setup) Gen() *NamedParams { return s.paramsOrNil(ParamsGen) }

// Filter returns the step filter parameters or nil.
func (s *Setup) Filter() *NamedParams { return s.paramsOrNil(ParamsFilter) }

// KillFilter returns the kill filter parameters or nil.
func (s *Setup) KillFilter() *NamedParams { return s.paramsOrNil(ParamsKillFilter) }

func (s *Setup) HasFilter() bool { return s.Filter() != nil }

func (s *Setup) HasKillFilter() bool { return s.KillFilter() != nil }

// Equal reports whether both setups hold the same data.
func (s *Setup) Equal(o *Setup) bool {
	if s == nil || o == nil {
		return s == o
	}

	return maps.Equal(s.all, o.all)
}

// Dump prints the setup with keys sorted.
func (s *Setup) Dump(w io.Writer, prefix string) {
	fmt.Fprintf(w, "%s===========================  GRIFF SETUP  ===========================\n", prefix)
	dumpStringMap(w, prefix, "UserData", s.userData)
	dumpStringMap(w, prefix, "MetaData", s.metaData)
	fmt.Fprintf(w, "%s  Geant4 Commands:\n", prefix)
	if cmds := s.Cmds(); len(cmds) == 0 {
		fmt.Fprintf(w, "%s    <none>\n", prefix)
	} else {
		for _, c := range cmds {
			fmt.Fprintf(w, "%s    \"%s\"\n", prefix, c)
		}
	}
	inner := prefix + "  "
	for _, np := range []*NamedParams{s.Geo(), s.Gen(), s.Filter()} {
		if np != nil {
			np.Dump(w, inner)
		}
	}
	if kf := s.KillFilter(); kf != nil {
		fmt.Fprintf(w, "%sKillFilter:\n", inner)
		kf.Dump(w, inner+"  ")
	}
	fmt.Fprintf(w, "%s=====================================================================\n", prefix)
}

func dumpStringMap(w io.Writer, prefix, title string, m map[string]string) {
	fmt.Fprintf(w, "%s  %s:\n", prefix, title)
	if len(m) == 0 {
		fmt.Fprintf(w, "%s    <none>\n", prefix)
		return
	}
	for _, k := range slices.Sorted(maps.Keys(m)) {
		fmt.Fprintf(w, "%s    \"%s\" : \"%s\"\n", prefix, k, m[k])
	}
}
