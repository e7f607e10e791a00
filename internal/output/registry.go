// internal/output/registry.go
package output

import (
	"bufio"
	"fmt"
	"sort"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// encoder serializes one run into w.
type encoder func(w *bufio.Writer, r Run, verbose bool) error

// Encoder registry (format → handler). Last registration wins.
var encoders = map[string]encoder{}

func register(format string, fn encoder) { encoders[format] = fn }

func init() {
	register(FormatText, encodeText)
	register(FormatJSON, encodeJSON)
}

func lookup(format string) (encoder, error) {
	fn, ok := encoders[format]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (no writer registered)", format)
	}
	return fn, nil
}

// Formats lists the registered format names, sorted.
func Formats() []string {
	out := make([]string, 0, len(encoders))
	for f := range encoders {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
