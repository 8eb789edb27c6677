package batch

import (
	"os"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// readInput produces the filename list for the run: the in-memory list when
// given, otherwise the newline-separated input file. Blank lines are
// dropped; each surviving line is one search unit of work.
func (p *Pipeline) readInput() ([]string, error) {
	if len(p.run.Filenames) > 0 {
		return splitLines(strings.Join(p.run.Filenames, "\n")), nil
	}
	if p.run.InputFile == "" {
		return nil, nil
	}

	data, err := os.ReadFile(p.run.InputFile)
	if err != nil {
		return nil, errors.Errorf("reading input file: %w", err)
	}
	return splitLines(string(data)), nil
}

// splitLines splits text into trimmed, non-blank lines
func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
