// pkg/api/run_v1.go
package api

// RunV1 is the stable JSON schema for one phasing run.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type RunV1 struct {
	RunID     string `json:"run_id"`
	Algorithm string `json:"algorithm"` // "greedy" | "spock"
	Source    string `json:"source,omitempty"`
	N         int    `json:"n"`
	M         int    `json:"m"`

	SolutionSize   int     `json:"solution_size"`
	UniquePairs    int     `json:"unique_pairs"`
	RuntimeSeconds float64 `json:"runtime_seconds"`
	BestEffort     bool    `json:"best_effort"`

	Windows   int `json:"windows,omitempty"`
	Rounds    int `json:"rounds,omitempty"`
	Nodes     int `json:"nodes,omitempty"`
	Pruned    int `json:"pruned,omitempty"`
	Solutions int `json:"solutions,omitempty"`

	// Matches is present only for verbose output.
	Matches    []PhaseMatchV1 `json:"matches,omitempty"`
	Unresolved []GenotypeV1   `json:"unresolved,omitempty"`
}

// PhaseMatchV1 is one explaining haplotype and its member genotypes.
type PhaseMatchV1 struct {
	Haplotype   string       `json:"haplotype"`
	UniquePairs int          `json:"unique_pairs"`
	Genotypes   []GenotypeV1 `json:"genotypes"`
}

// GenotypeV1 is a genotype by input row. Complement is the haplotype pairing
// with the enclosing match's haplotype; empty for unresolved genotypes.
type GenotypeV1 struct {
	Index      int    `json:"index"`
	Genotype   string `json:"genotype"`
	Complement string `json:"complement,omitempty"`
}
