// internal/sample/writer.go
package sample

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Write emits s in the format Read accepts.
func Write(w io.Writer, s *Sample) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d %d\n", s.N(), s.M); err != nil {
		return err
	}
	for _, g := range s.Genotypes {
		if _, err := bw.WriteString(g.String()); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Save writes s to path, replacing any existing file.
func Save(path string, s *Sample) (err error) {
	fh, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create sample")
	}
	defer func() {
		if cerr := fh.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()
	if err := Write(fh, s); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}
