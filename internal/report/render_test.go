package report

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/surftab/surftab/internal/types"
)

func sampleTable() *types.Table {
	return &types.Table{
		Rows: []types.Record{{
			Miller:          types.Miller{H: 1, K: 0, L: 0},
			Area:            23.4,
			Atoms:           40,
			Functional:      "PBE",
			Encut:           500,
			Algo:            "Normal",
			Ismear:          0,
			Sigma:           0.05,
			Kpoints:         30,
			Bandgap:         1.2,
			SlabEnergy:      -300.1,
			SlabPerAtom:     -7.5,
			SurfaceEnergy:   1200.5,
			SurfaceEnergyEV: 0.0749,
			VacuumPotential: 5.342,
			CoreEnergy:      math.NaN(),
		}},
		HasVacuum: true,
		HasCore:   true,
	}
}

func TestRender_Empty_ShowsFriendlyMessage(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, &types.Table{}, PrintOptions{})
	if !strings.Contains(buf.String(), "No facets parsed") {
		t.Fatalf("expected friendly empty message; got: %q", buf.String())
	}
}

func TestRender_WideTerminal_AllColumns(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, sampleTable(), PrintOptions{NoColor: true, Width: 300})
	out := buf.String()
	if !strings.Contains(out, "(1, 0, 0)") {
		t.Fatalf("expected hkl_tuple cell in wide output; got: %q", out)
	}
	if !strings.Contains(out, "PBE") {
		t.Fatalf("expected functional cell; got: %q", out)
	}
	if !strings.Contains(out, "1200.5") {
		t.Fatalf("expected surface energy cell; got: %q", out)
	}
}

func TestRender_NarrowTerminal_CompactColumns(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, sampleTable(), PrintOptions{NoColor: true, Width: 80})
	out := buf.String()
	if strings.Contains(out, "(1, 0, 0)") {
		t.Fatalf("hkl_tuple should be dropped on narrow terminals; got: %q", out)
	}
	if strings.Contains(out, "PBE") {
		t.Fatalf("functional should be dropped on narrow terminals; got: %q", out)
	}
	if !strings.Contains(out, "1200.5") {
		t.Fatalf("surface energy must survive compact mode; got: %q", out)
	}
}

func TestRender_Footer(t *testing.T) {
	tbl := sampleTable()
	var buf bytes.Buffer
	Render(&buf, tbl, PrintOptions{NoColor: true, Width: 300, Duration: 1200 * time.Millisecond})
	out := buf.String()
	if !strings.Contains(out, "Facets: 1") {
		t.Fatalf("expected facet count in footer; got: %q", out)
	}
	if !strings.Contains(out, "Parse duration: 1.20s") {
		t.Fatalf("expected duration in footer; got: %q", out)
	}
	if !strings.Contains(out, "Checksum: "+Fingerprint(tbl)) {
		t.Fatalf("expected checksum in footer; got: %q", out)
	}
}

func TestRender_NoDuration_NoFooter(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, sampleTable(), PrintOptions{NoColor: true, Width: 300})
	if strings.Contains(buf.String(), "Checksum:") {
		t.Fatalf("footer should be omitted without a duration; got: %q", buf.String())
	}
}
