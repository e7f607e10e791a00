// internal/output/json.go
package output

import (
	"bufio"
	"encoding/json"

	"haplophase/internal/genotype"
	"haplophase/pkg/api"
)

// ToAPIRun converts a run to the stable wire schema (v1). Matches and
// unresolved genotypes are included only when verbose is set.
func ToAPIRun(r Run, verbose bool) (api.RunV1, error) {
	pairs, err := r.Result.UniquePairs()
	if err != nil {
		return api.RunV1{}, err
	}
	v := api.RunV1{
		RunID:          r.ID,
		Algorithm:      r.Algorithm,
		Source:         r.Source,
		N:              r.N,
		M:              r.M,
		SolutionSize:   r.Result.Size(),
		UniquePairs:    pairs,
		RuntimeSeconds: r.Elapsed.Seconds(),
	}
	if r.Result == nil {
		return v, nil
	}
	st := r.Result.Stats
	v.BestEffort = r.Result.BestEffort
	v.Windows, v.Rounds, v.Nodes, v.Pruned, v.Solutions = st.Windows, st.Rounds, st.Nodes, st.Pruned, st.Solutions
	if !verbose {
		return v, nil
	}

	for _, pm := range r.Result.Matches {
		comps, err := pm.Complements()
		if err != nil {
			return api.RunV1{}, err
		}
		n, err := pm.UniquePairCount()
		if err != nil {
			return api.RunV1{}, err
		}
		out := api.PhaseMatchV1{
			Haplotype:   pm.Haplotype().String(),
			UniquePairs: n,
			Genotypes:   make([]api.GenotypeV1, len(comps)),
		}
		for i, g := range pm.Genotypes() {
			out.Genotypes[i] = api.GenotypeV1{Index: rowIndex(g), Genotype: g.String(), Complement: comps[i].String()}
		}
		v.Matches = append(v.Matches, out)
	}
	for _, g := range r.Result.Unresolved {
		v.Unresolved = append(v.Unresolved, api.GenotypeV1{Index: rowIndex(g), Genotype: g.String()})
	}
	return v, nil
}

func encodeJSON(w *bufio.Writer, r Run, verbose bool) error {
	v, err := ToAPIRun(r, verbose)
	if err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(v)
}

// rowIndex is the input row of g, or -1 when g carries no tag.
func rowIndex(g genotype.Genotype) int {
	if tag, ok := g.Tag(); ok {
		return tag
	}
	return -1
}
