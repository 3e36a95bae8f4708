package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/fhuszti/talkcart-medias-go/internal/port"
)

const confirmWord = "APPLY"

var errAborted = errors.New("aborted, nothing was written")

// isTerminal is a test seam for term.IsTerminal on stdin.
var isTerminal = func(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// confirmer asks the operator to type APPLY once the scan is done. Without a
// terminal the write is refused unless yes is set.
func confirmer(in io.Reader, out io.Writer, yes bool) func(port.RepairReport) bool {
	return func(report port.RepairReport) bool {
		if yes {
			return true
		}
		if !isTerminal(in) {
			fmt.Fprintln(out, "stdin is not a terminal, pass --yes to apply without confirmation")
			return false
		}

		fmt.Fprintf(out, "%d corrections across %d documents, %d unresolved.\n",
			len(report.Fixes), countDocuments(report.Fixes), len(report.Unresolved))
		fmt.Fprintf(out, "Type %s to write them: ", confirmWord)

		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false
		}
		return strings.TrimSpace(line) == confirmWord
	}
}

func countDocuments(fixes []port.ReferenceFix) int {
	seen := make(map[string]struct{}, len(fixes))
	for _, f := range fixes {
		seen[f.Collection+"/"+f.DocumentID] = struct{}{}
	}
	return len(seen)
}
