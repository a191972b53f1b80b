package vasp

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// Outcar carries the core state eigenenergies read from an OUTCAR file.
// Each ion maps orbital labels ("1s", "2p", ...) to the eigenenergy per
// ionic step, in file order, so the last element is the converged value.
type Outcar struct {
	NIons int
	core  []map[string][]float64
}

// ReadOutcar parses path or path+".gz".
func ReadOutcar(path string) (*Outcar, error) {
	r, err := openAuto(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	o := &Outcar{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	inBlock := false
	iat := -1
	for sc.Scan() {
		line := sc.Text()

		if inBlock {
			if strings.Contains(line, "E-fermi") {
				inBlock = false
				continue
			}
			fields := strings.Fields(line)
			if len(fields)%2 == 1 {
				iat++
				fields = fields[1:]
			}
			if len(fields) > 0 && (iat < 0 || iat >= len(o.core)) {
				return nil, fmt.Errorf("%s: core state block has values for ion %d of %d", path, iat+1, len(o.core))
			}
			for i := 0; i+1 < len(fields); i += 2 {
				v, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("%s: bad core state energy %q: %w", path, fields[i+1], err)
				}
				o.core[iat][fields[i]] = append(o.core[iat][fields[i]], v)
			}
			continue
		}

		if idx := strings.Index(line, "NIONS ="); idx >= 0 {
			fields := strings.Fields(line[idx+len("NIONS ="):])
			if len(fields) == 0 {
				return nil, fmt.Errorf("%s: malformed NIONS line", path)
			}
			n, err := strconv.Atoi(fields[0])
			if err != nil {
				return nil, fmt.Errorf("%s: malformed NIONS line: %w", path, err)
			}
			o.NIons = n
			o.core = make([]map[string][]float64, n)
			for i := range o.core {
				o.core[i] = make(map[string][]float64)
			}
			continue
		}

		if strings.Contains(line, "the core state eigen") {
			if o.core == nil {
				return nil, fmt.Errorf("%s: core state block before ion count", path)
			}
			inBlock = true
			iat = -1
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return o, nil
}

// CoreStateEigen returns the per-ion orbital eigenenergies. The slice is
// nil when the file never declared an ion count.
func (o *Outcar) CoreStateEigen() []map[string][]float64 {
	return o.core
}
