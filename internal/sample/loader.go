// internal/sample/loader.go
package sample

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"haplophase/internal/genotype"
)

// Load reads a sample file: a header line "N M" followed by N rows of
// exactly M digits in {0,1,2}. With M = 0 every row is an empty line. Blank
// lines after the last row are ignored.
func Load(path string) (*Sample, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open sample")
	}
	defer func() { _ = fh.Close() }()
	return Read(fh, path)
}

// Read parses the sample format from r. name prefixes error positions.
func Read(r io.Reader, name string) (*Sample, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	ln := 0
	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		ln++
		return strings.TrimRight(sc.Text(), "\r \t"), true
	}

	head, ok := next()
	if !ok {
		if err := sc.Err(); err != nil {
			return nil, errors.Wrapf(err, "%s", name)
		}
		return nil, errors.Errorf("%s: empty sample file", name)
	}
	f := strings.Fields(head)
	if len(f) != 2 {
		return nil, errors.Errorf("%s:%d header must be \"N M\", got %q", name, ln, head)
	}
	n, err := strconv.Atoi(f[0])
	if err != nil || n < 0 {
		return nil, errors.Errorf("%s:%d bad genotype count %q", name, ln, f[0])
	}
	m, err := strconv.Atoi(f[1])
	if err != nil || m < 0 {
		return nil, errors.Errorf("%s:%d bad marker count %q", name, ln, f[1])
	}

	s := &Sample{M: m, Genotypes: make([]genotype.Genotype, 0, n)}
	for len(s.Genotypes) < n {
		line, ok := next()
		if !ok {
			if err := sc.Err(); err != nil {
				return nil, errors.Wrapf(err, "%s", name)
			}
			return nil, errors.Errorf("%s: header promises %d genotypes, found %d", name, n, len(s.Genotypes))
		}
		if len(line) != m {
			return nil, errors.Errorf("%s:%d row has %d markers, want %d", name, ln, len(line), m)
		}
		g, err := genotype.ParseGenotype(line)
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d", name, ln)
		}
		s.Genotypes = append(s.Genotypes, g.WithTag(len(s.Genotypes)))
	}
	for {
		line, ok := next()
		if !ok {
			break
		}
		if line != "" {
			return nil, errors.Errorf("%s:%d unexpected data after %d genotypes", name, ln, n)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "%s", name)
	}
	return s, nil
}
