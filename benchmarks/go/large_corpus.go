package benchmarks

import (
	"fmt"
	"strings"
)

// LargeCorpus builds a synthetic mixed-script corpus with code, prose and
// digits so both the segmenter and the merge loop see varied input.
func LargeCorpus() string {
	prose := strings.Repeat("Lorem ipsum dolor sit amet, consectetur adipiscing elit. Vestibulum vulputate. ", 40)
	code := strings.Repeat("func add(a, b int) int {\n\treturn a + b // 1234567\n}\n", 20)
	bengali := strings.Repeat("প্রবাল সেন, বর্তমান জমিদার। ", 20)
	var sb strings.Builder
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&sb, "Section %d: %s\n%s\n%s\n", i, prose, code, bengali)
	}
	return sb.String()
}
