package vasp

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Vasprun holds the parts of a vasprun.xml file the aggregator needs:
// atom and k-point counts, the INCAR and expanded parameter tags, the
// final free energy, and the eigenvalue spectrum of the last ionic step.
type Vasprun struct {
	NSites      int
	KpointCount int
	FinalEnergy float64

	incar  map[string]string
	params map[string]string
	eigs   []EigenPair
}

// EigenPair is one eigenvalue with its occupation.
type EigenPair struct {
	Energy     float64
	Occupation float64
}

// occuTol separates occupied from unoccupied states.
const occuTol = 1e-8

// ReadVasprun parses path or path+".gz".
func ReadVasprun(path string) (*Vasprun, error) {
	r, err := openAuto(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	v, err := ParseVasprun(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// ParseVasprun decodes one vasprun.xml document. VASP declares
// ISO-8859-1 in the XML header, which encoding/xml refuses unless a
// CharsetReader handles it.
func ParseVasprun(r io.Reader) (*Vasprun, error) {
	var doc xmlModeling
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc.AtomInfo.Atoms <= 0 {
		return nil, fmt.Errorf("no atom count in vasprun")
	}
	if len(doc.Calculations) == 0 {
		return nil, fmt.Errorf("no calculation blocks in vasprun (truncated run?)")
	}

	v := &Vasprun{
		NSites: doc.AtomInfo.Atoms,
		incar:  make(map[string]string),
		params: make(map[string]string),
	}

	for _, item := range doc.Incar {
		v.incar[item.Name] = strings.TrimSpace(item.Value)
	}
	for _, sep := range doc.Parameters {
		flattenParams(sep, v.params)
	}
	for _, va := range doc.Kpoints.Varrays {
		if va.Name == "kpointlist" {
			v.KpointCount = len(va.V)
		}
	}

	last := doc.Calculations[len(doc.Calculations)-1]
	found := false
	for _, item := range last.Energy.I {
		if item.Name == "e_fr_energy" {
			e, err := strconv.ParseFloat(strings.TrimSpace(item.Value), 64)
			if err != nil {
				return nil, fmt.Errorf("bad e_fr_energy %q: %w", strings.TrimSpace(item.Value), err)
			}
			v.FinalEnergy = e
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("no e_fr_energy in final calculation block")
	}

	for _, outer := range last.Eigenvalues.Sets {
		if err := collectEigs(outer, &v.eigs); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// charsetReader accepts the single-byte encodings VASP writes into the
// XML declaration.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "iso-8859-1", "latin-1", "latin1", "us-ascii", "ascii":
		return latin1Reader{br: bufio.NewReader(input)}, nil
	}
	return nil, fmt.Errorf("unsupported charset %q", charset)
}

// latin1Reader transcodes Latin-1 to UTF-8; each byte is the code point
// of the same value.
type latin1Reader struct {
	br *bufio.Reader
}

func (l latin1Reader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		b, err := l.br.ReadByte()
		if err != nil {
			if n > 0 && err == io.EOF {
				return n, nil
			}
			return n, err
		}
		if b < utf8.RuneSelf {
			p[n] = b
			n++
			continue
		}
		if len(p)-n < 2 {
			_ = l.br.UnreadByte()
			return n, nil
		}
		n += utf8.EncodeRune(p[n:], rune(b))
	}
	return n, nil
}

// flattenParams walks nested separators; tag names are unique across the
// parameters tree so one flat map suffices.
func flattenParams(sep xmlSeparator, out map[string]string) {
	for _, item := range sep.I {
		out[item.Name] = strings.TrimSpace(item.Value)
	}
	for _, sub := range sep.Separators {
		flattenParams(sub, out)
	}
}

// collectEigs descends spin and k-point sets to the <r> leaves, each an
// "energy occupation" pair.
func collectEigs(set xmlSet, out *[]EigenPair) error {
	for _, row := range set.R {
		fields := strings.Fields(row.Value)
		if len(fields) < 2 {
			return fmt.Errorf("bad eigenvalue row %q", strings.TrimSpace(row.Value))
		}
		e, err1 := strconv.ParseFloat(fields[0], 64)
		occ, err2 := strconv.ParseFloat(fields[1], 64)
		if err1 != nil || err2 != nil {
			return fmt.Errorf("bad eigenvalue row %q", strings.TrimSpace(row.Value))
		}
		*out = append(*out, EigenPair{Energy: e, Occupation: occ})
	}
	for _, sub := range set.Sets {
		if err := collectEigs(sub, out); err != nil {
			return err
		}
	}
	return nil
}

// FinalEnergyPerAtom is the final free energy divided by the site count.
func (v *Vasprun) FinalEnergyPerAtom() float64 {
	return v.FinalEnergy / float64(v.NSites)
}

// Bandgap returns max(0, cbm-vbm) over the last ionic step's eigenvalues,
// where states with occupation above 1e-8 count as occupied. It returns
// NaN when the spectrum is missing or entirely on one side.
func (v *Vasprun) Bandgap() float64 {
	vbm := math.Inf(-1)
	cbm := math.Inf(1)
	for _, p := range v.eigs {
		if p.Occupation > occuTol {
			if p.Energy > vbm {
				vbm = p.Energy
			}
		} else if p.Energy < cbm {
			cbm = p.Energy
		}
	}
	if math.IsInf(vbm, -1) || math.IsInf(cbm, 1) {
		return math.NaN()
	}
	return math.Max(0, cbm-vbm)
}

// vdwGGA maps the GGA tag of a LUSE_VDW run to its functional name.
var vdwGGA = map[string]string{
	"RE": "DF", "OR": "optPBE", "BO": "optB88", "MK": "optB86b", "ML": "DF2",
}

// RunType labels the exchange-correlation treatment: HF when hybrid
// calculation was on, vdW-* for nonlocal van der Waals functionals,
// otherwise GGA when a GGA tag is set, otherwise LDA; "+U" is appended
// for DFT+U runs.
func (v *Vasprun) RunType() string {
	rt := "LDA"
	gga := strings.ToUpper(strings.TrimSpace(v.params["GGA"]))
	if b, ok := v.ParamBool("LHFCALC"); ok && b {
		rt = "HF"
	} else if b, ok := v.ParamBool("LUSE_VDW"); ok && b {
		if name, ok := vdwGGA[gga]; ok {
			rt = "vdW-" + name
		} else {
			rt = "vdW"
		}
	} else if gga != "" && gga != "--" {
		rt = "GGA"
	}
	if b, ok := v.ParamBool("LDAU"); ok && b {
		rt += "+U"
	}
	return rt
}

// IncarString returns a raw INCAR tag, falling back to the expanded
// parameters when the tag was defaulted rather than written.
func (v *Vasprun) IncarString(name string) (string, bool) {
	if s, ok := v.incar[name]; ok {
		return s, true
	}
	s, ok := v.params[name]
	return s, ok
}

// IncarFloat is IncarString parsed as a float.
func (v *Vasprun) IncarFloat(name string) (float64, bool) {
	s, ok := v.IncarString(name)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParamString returns an expanded parameter tag.
func (v *Vasprun) ParamString(name string) (string, bool) {
	s, ok := v.params[name]
	return s, ok
}

// ParamInt is ParamString parsed as an int.
func (v *Vasprun) ParamInt(name string) (int, bool) {
	s, ok := v.params[name]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParamFloat is ParamString parsed as a float.
func (v *Vasprun) ParamFloat(name string) (float64, bool) {
	s, ok := v.params[name]
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParamBool reads a logical tag ("T"/"F", possibly padded).
func (v *Vasprun) ParamBool(name string) (bool, bool) {
	s, ok := v.params[name]
	if !ok {
		return false, false
	}
	return strings.HasPrefix(strings.ToUpper(s), "T"), true
}

// Eigenvalues exposes the collected spectrum, mostly for tests and the
// interactive preview.
func (v *Vasprun) Eigenvalues() []EigenPair {
	return v.eigs
}

// xml decoding scaffolding; field paths only touch direct children, so
// per-step scstep energies and projected eigenvalues stay out of the way.

type xmlModeling struct {
	Incar        []xmlI           `xml:"incar>i"`
	Kpoints      xmlKpoints       `xml:"kpoints"`
	Parameters   []xmlSeparator   `xml:"parameters>separator"`
	AtomInfo     xmlAtomInfo      `xml:"atominfo"`
	Calculations []xmlCalculation `xml:"calculation"`
}

type xmlI struct {
	Type  string `xml:"type,attr"`
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type xmlV struct {
	Value string `xml:",chardata"`
}

type xmlVarray struct {
	Name string `xml:"name,attr"`
	V    []xmlV `xml:"v"`
}

type xmlKpoints struct {
	Varrays []xmlVarray `xml:"varray"`
}

type xmlSeparator struct {
	Name       string         `xml:"name,attr"`
	I          []xmlI         `xml:"i"`
	Separators []xmlSeparator `xml:"separator"`
}

type xmlAtomInfo struct {
	Atoms int `xml:"atoms"`
}

type xmlCalculation struct {
	Energy      xmlEnergy      `xml:"energy"`
	Eigenvalues xmlEigenvalues `xml:"eigenvalues"`
}

type xmlEnergy struct {
	I []xmlI `xml:"i"`
}

type xmlEigenvalues struct {
	Sets []xmlSet `xml:"array>set"`
}

type xmlSet struct {
	Comment string   `xml:"comment,attr"`
	R       []xmlRow `xml:"r"`
	Sets    []xmlSet `xml:"set"`
}

type xmlRow struct {
	Value string `xml:",chardata"`
}
