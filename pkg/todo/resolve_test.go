package todo

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/OpenTraceLab/xraytodo/pkg/pipfile"
	"github.com/OpenTraceLab/xraytodo/pkg/segbits"
	"github.com/OpenTraceLab/xraytodo/pkg/tag"
)

func loadCatalog(t *testing.T, tags ...string) *pipfile.Catalog {
	t.Helper()
	cat, err := pipfile.Load(strings.NewReader(strings.Join(tags, "\n") + "\n"))
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	return cat
}

func TestResolveReader(t *testing.T) {
	cat := loadCatalog(t, "INT_L.A.X", "INT_L.A.Y", "INT_L.B.Z")
	db := "INT.A.X 01_02 !03_04\nINT.A.Y <0 candidates>\nINT.C.W 05_06\n"

	r := NewResolver(zerolog.Nop())
	res, err := r.ResolveReader(cat, strings.NewReader(db))
	if err != nil {
		t.Fatalf("Failed to resolve: %v", err)
	}

	if res.Removed != 1 || res.Skipped != 1 || res.Unmatched != 1 || !res.Exists {
		t.Errorf("Unexpected resolution: %+v", res)
	}
	if cat.Has("INT_L.A.X") {
		t.Error("Expected INT_L.A.X to be removed")
	}
	if !cat.Has("INT_L.A.Y") || !cat.Has("INT_L.B.Z") {
		t.Errorf("Unexpected remaining tags: %v", cat.Sorted())
	}
}

func TestResolveNormalizesAcrossPrefixes(t *testing.T) {
	suffixes := []string{"A", "WW2BEG0.SR1BEG_S0", "X.Y.Z"}
	for _, catPrefix := range []string{"INT_L", "INT_R", "CLBLL_L"} {
		for _, dbPrefix := range []string{"INT", "INT_L", "CLB"} {
			for _, s := range suffixes {
				cat := loadCatalog(t, catPrefix+"."+s, catPrefix+".OTHER")
				r := NewResolver(zerolog.Nop())
				if _, err := r.ResolveReader(cat, strings.NewReader(dbPrefix+"."+s+" 01_02\n")); err != nil {
					t.Fatalf("Failed to resolve: %v", err)
				}
				if cat.Has(catPrefix + "." + s) {
					t.Errorf("%s.%s did not remove %s.%s", dbPrefix, s, catPrefix, s)
				}
				if !cat.Has(catPrefix + ".OTHER") {
					t.Errorf("%s.%s removed an unrelated tag", dbPrefix, s)
				}
			}
		}
	}
}

func TestResolveMonotonicShrink(t *testing.T) {
	cat := loadCatalog(t, "INT_L.A", "INT_L.B", "INT_L.C")
	db := "INT.A 01_02\nINT.A 01_02\nINT.D 03_04\nINT.B <const0>\n"

	before := cat.Len()
	r := NewResolver(zerolog.Nop())
	res, err := r.ResolveReader(cat, strings.NewReader(db))
	if err != nil {
		t.Fatalf("Failed to resolve: %v", err)
	}
	if cat.Len() > before {
		t.Errorf("Catalog grew from %d to %d", before, cat.Len())
	}
	if cat.Len() != before-res.Removed {
		t.Errorf("Expected %d tags, got %d", before-res.Removed, cat.Len())
	}
	// The duplicate INT.A counts as unmatched the second time
	if res.Removed != 1 || res.Unmatched != 2 {
		t.Errorf("Unexpected resolution: %+v", res)
	}
}

func TestResolveModeNeverRemoves(t *testing.T) {
	cat := loadCatalog(t, "INT_L.A", "INT_L.B")
	db := "INT.A <0 candidates>\nINT.B 01_02 <m1>\n"

	r := NewResolver(zerolog.Nop())
	res, err := r.ResolveReader(cat, strings.NewReader(db))
	if err != nil {
		t.Fatalf("Failed to resolve: %v", err)
	}
	if cat.Len() != 2 {
		t.Errorf("Expected no removals, got %v", cat.Sorted())
	}
	if res.Skipped != 2 {
		t.Errorf("Expected 2 skipped entries, got %d", res.Skipped)
	}
}

func TestResolveMissingFile(t *testing.T) {
	cat := loadCatalog(t, "INT_L.A", "INT_L.B")

	r := NewResolver(zerolog.Nop())
	res, err := r.Resolve(cat, filepath.Join(t.TempDir(), "segbits_int_l.db"))
	if err != nil {
		t.Fatalf("Expected missing database to be tolerated, got %v", err)
	}
	if res.Exists {
		t.Error("Expected Exists to be false")
	}
	if cat.Len() != 2 {
		t.Errorf("Expected catalog to be untouched, got %v", cat.Sorted())
	}
}

func TestResolveMalformedLine(t *testing.T) {
	cat := loadCatalog(t, "INT_L.A", "INT_L.B")
	db := "INT.A 01_02\n\nINT.B 01_0x2\n"

	r := NewResolver(zerolog.Nop())
	_, err := r.ResolveReader(cat, strings.NewReader(db))
	var mle *segbits.MalformedLineError
	if !errors.As(err, &mle) {
		t.Fatalf("Expected MalformedLineError, got %v", err)
	}
	if mle.Line != 3 {
		t.Errorf("Expected line 3, got %d", mle.Line)
	}
}

func TestResolveMalformedTag(t *testing.T) {
	cat := loadCatalog(t, "INT_L.A")

	r := NewResolver(zerolog.Nop())
	_, err := r.ResolveReader(cat, strings.NewReader("NODOT 01_02\n"))
	var mte *tag.MalformedTagError
	if !errors.As(err, &mte) {
		t.Fatalf("Expected MalformedTagError, got %v", err)
	}
	if mte.Line != 1 || mte.Tag != "NODOT" {
		t.Errorf("Unexpected error fields: %+v", mte)
	}
}

func TestResolveInjectedParser(t *testing.T) {
	cat := loadCatalog(t, "INT_L.A", "INT_L.B")

	calls := 0
	r := &Resolver{
		Log: zerolog.Nop(),
		Parse: func(line string) (segbits.Entry, error) {
			calls++
			fields := strings.Split(line, ",")
			e := segbits.Entry{Tag: fields[0]}
			if len(fields) > 1 {
				e.Mode = fields[1]
			}
			return e, nil
		},
	}
	if _, err := r.ResolveReader(cat, strings.NewReader("X.A\nX.B,pending\n")); err != nil {
		t.Fatalf("Failed to resolve: %v", err)
	}
	if calls != 2 {
		t.Errorf("Expected 2 parser calls, got %d", calls)
	}
	if cat.Has("INT_L.A") || !cat.Has("INT_L.B") {
		t.Errorf("Unexpected remaining tags: %v", cat.Sorted())
	}
}

func TestResolveInjectedParserError(t *testing.T) {
	cat := loadCatalog(t, "INT_L.A")

	r := &Resolver{
		Log: zerolog.Nop(),
		Parse: func(line string) (segbits.Entry, error) {
			return segbits.Entry{}, errors.New("bad line")
		},
	}
	_, err := r.ResolveReader(cat, strings.NewReader("whatever\n"))
	var mle *segbits.MalformedLineError
	if !errors.As(err, &mle) {
		t.Fatalf("Expected MalformedLineError, got %v", err)
	}
	if mle.Line != 1 || mle.Text != "whatever" {
		t.Errorf("Unexpected error fields: %+v", mle)
	}
}

func TestResolveStrict(t *testing.T) {
	cat := loadCatalog(t, "INT_L.A")

	r := NewResolver(zerolog.Nop())
	r.Strict = true
	_, err := r.ResolveReader(cat, strings.NewReader("INT.A 01_02\nINT.Q 01_03\n"))
	var ute *UnmatchedTagError
	if !errors.As(err, &ute) {
		t.Fatalf("Expected UnmatchedTagError, got %v", err)
	}
	if ute.Line != 2 || ute.Tag != "INT_L.Q" {
		t.Errorf("Unexpected error fields: %+v", ute)
	}
}

func TestResolveOpenError(t *testing.T) {
	cat := loadCatalog(t, "INT_L.A")

	// A directory exists but cannot be read as a database
	dir := t.TempDir()
	sub := filepath.Join(dir, "segbits_int_l.db")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	r := NewResolver(zerolog.Nop())
	if _, err := r.Resolve(cat, sub); err == nil {
		t.Error("Expected error reading a directory as database")
	}
}
