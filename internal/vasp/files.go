// Package vasp reads the calculation output files a facet directory
// holds: vasprun.xml for run inputs and energies, OUTCAR for core state
// eigenenergies, and LOCPOT for the electrostatic potential grid. Readers
// accept gzip-compressed variants, probing "<name>.gz" when the plain
// file is absent.
package vasp

import (
	"compress/gzip"
	"io"
	"os"
	"strings"
)

// openAuto opens path, falling back to path+".gz" when the plain file
// does not exist. Either way a ".gz" suffix gets a decompressing reader.
// The caller closes the result.
func openAuto(path string) (io.ReadCloser, error) {
	name := path
	f, err := os.Open(name)
	if os.IsNotExist(err) && !strings.HasSuffix(name, ".gz") {
		name = path + ".gz"
		f, err = os.Open(name)
	}
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(name, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &gzFile{zr: zr, f: f}, nil
	}
	return f, nil
}

type gzFile struct {
	zr *gzip.Reader
	f  *os.File
}

func (g *gzFile) Read(p []byte) (int, error) { return g.zr.Read(p) }

func (g *gzFile) Close() error {
	err := g.zr.Close()
	if cerr := g.f.Close(); err == nil {
		err = cerr
	}
	return err
}
