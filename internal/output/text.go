// internal/output/text.go
package output

import (
	"bufio"
	"fmt"
	"strings"
)

// StatsLine renders the one-line run summary:
//
//	NxM<TAB>ALG<TAB> Solution Size: k<TAB>pairs<TAB> Time: seconds
//
// A best-effort result gets a trailing marker column.
func StatsLine(r Run) (string, error) {
	pairs, err := r.Result.UniquePairs()
	if err != nil {
		return "", err
	}
	line := fmt.Sprintf("%dx%d\t%s\t Solution Size: %d\t%d\t Time: %.6f",
		r.N, r.M, strings.ToUpper(r.Algorithm), r.Result.Size(), pairs, r.Elapsed.Seconds())
	if r.Result != nil && r.Result.BestEffort {
		line += "\t best-effort"
	}
	return line, nil
}

// writeMatches prints every member genotype followed by the match haplotype
// and its complement, each on a tab-indented line.
func writeMatches(w *bufio.Writer, r Run) error {
	if r.Result == nil {
		return nil
	}
	for _, pm := range r.Result.Matches {
		comps, err := pm.Complements()
		if err != nil {
			return err
		}
		for i, g := range pm.Genotypes() {
			if _, err := fmt.Fprintf(w, "%s\n\t%s\n\t%s\n", g, pm.Haplotype(), comps[i]); err != nil {
				return err
			}
		}
	}
	for _, g := range r.Result.Unresolved {
		if _, err := fmt.Fprintf(w, "%s\n\tunresolved\n", g); err != nil {
			return err
		}
	}
	return nil
}

func encodeText(w *bufio.Writer, r Run, verbose bool) error {
	if verbose {
		if err := writeMatches(w, r); err != nil {
			return err
		}
	}
	line, err := StatsLine(r)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, line)
	return err
}
