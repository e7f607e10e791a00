// ./internal/arch/arch_test.go
package arch

import (
	"bytes"
	"encoding/json"
	"io"
	"os/exec"
	"strings"
	"testing"
)

type pkg struct {
	ImportPath string
	Imports    []string
	Standard   bool
}

const mod = "haplophase/"

// Layers above the phasing core.
var outer = []string{
	"haplophase/internal/cli", "haplophase/internal/app", "haplophase/internal/appcore",
	"haplophase/internal/appshell", "haplophase/internal/sweep", "haplophase/internal/config",
	"haplophase/cmd/",
}

func with(extra ...string) []string { return append(append([]string(nil), outer...), extra...) }

func TestImportBoundaries(t *testing.T) {
	cmd := exec.Command("go", "list", "-json", "./...")
	cmd.Dir = "../.."
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("go list: %v", err)
	}
	dec := json.NewDecoder(&out)

	bans := map[string][]string{
		"haplophase/internal/genotype": with(
			"haplophase/internal/phase", "haplophase/internal/engine", "haplophase/internal/pipeline",
			"haplophase/internal/output", "haplophase/internal/sample", "haplophase/internal/logging",
		),
		"haplophase/internal/phase": with(
			"haplophase/internal/engine", "haplophase/internal/pipeline", "haplophase/internal/output",
		),
		"haplophase/internal/engine": with(
			"haplophase/internal/pipeline", "haplophase/internal/output", "haplophase/internal/sample",
		),
		"haplophase/internal/pipeline": with(
			"haplophase/internal/engine", "haplophase/internal/output", "haplophase/internal/sample",
		),
		"haplophase/internal/output": with(
			"haplophase/internal/engine", "haplophase/internal/pipeline", "haplophase/internal/sample",
		),
		"haplophase/internal/sample": with(
			"haplophase/internal/phase", "haplophase/internal/engine", "haplophase/internal/pipeline",
			"haplophase/internal/output",
		),
		"haplophase/pkg/": {"haplophase/internal/"},
	}

	var violations []string
	for {
		var p pkg
		if err := dec.Decode(&p); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.HasPrefix(p.ImportPath, mod) {
			continue
		}
		imp := p.ImportPath
		for prefix, forbidden := range bans {
			if !strings.HasPrefix(imp, prefix) {
				continue
			}
			for _, dep := range p.Imports {
				if !strings.HasPrefix(dep, mod) {
					continue
				}
				for _, ban := range forbidden {
					if strings.HasPrefix(dep, ban) {
						violations = append(violations, imp+" → "+dep)
					}
				}
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n  %s", strings.Join(violations, "\n  "))
	}
}
