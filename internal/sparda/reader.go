package sparda

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// readLines decodes a Latin-1 export into its lines. The whole file is
// held in memory; exports are small.
func readLines(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(charmap.ISO8859_1.NewDecoder().Reader(r))
	if err != nil {
		return nil, fmt.Errorf("decoding latin-1: %w", err)
	}
	lines := strings.Split(string(data), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines, nil
}

// splitRecord parses a single semicolon-delimited, double-quoted line.
// A blank line is an empty record; the preamble's structure depends on
// blank rows, which encoding/csv would silently drop when reading the
// whole file at once.
func splitRecord(line string) ([]string, error) {
	if line == "" {
		return nil, nil
	}
	cr := csv.NewReader(strings.NewReader(line))
	cr.Comma = ';'
	record, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading record: %w", err)
	}
	return record, nil
}
