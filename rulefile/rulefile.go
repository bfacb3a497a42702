package rulefile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/poiesic/sandhi/core"
	"github.com/poiesic/sandhi/rules"
	"golang.org/x/text/unicode/norm"
)

// DefaultPath is where the CLI looks for rules when no path is given.
const DefaultPath = "data/sandhi.tsv"

const maxLineSize = 1 << 20

// Read parses a rule source. Blank lines are skipped. A line without
// exactly three fields yields a *core.FormatError carrying its line number.
func Read(r io.Reader) ([][]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var rows [][]string
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSuffix(scanner.Text(), "\r")
		if text == "" {
			continue
		}

		fields := strings.Split(text, "\t")
		if len(fields) != core.RecordFields {
			return nil, &core.FormatError{Record: len(rows), Line: line, Fields: len(fields)}
		}
		for i, f := range fields {
			fields[i] = norm.NFC.String(f)
		}
		rows = append(rows, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading rule source: %w", err)
	}
	return rows, nil
}

// ReadFile parses the rule source at path.
func ReadFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rule source: %w", err)
	}
	defer f.Close()

	rows, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// Load reads the rule source at path and builds a table from it.
func Load(path string) (*rules.Table, error) {
	rows, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	table, err := rules.Build(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// Fingerprint returns a content hash of rows. Rows with the same fields in
// the same order always produce the same fingerprint.
func Fingerprint(rows [][]string) core.ID {
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Join(row, "\t"))
		b.WriteByte('\n')
	}
	return core.IDFromContent(b.String())
}

// Write renders rules in rule source format.
func Write(w io.Writer, ruleSet []core.Rule) error {
	bw := bufio.NewWriter(w)
	for _, rule := range ruleSet {
		if _, err := fmt.Fprintf(bw, "%s\t%s\t%s\n", rule.Left, rule.Right, rule.Combined); err != nil {
			return err
		}
	}
	return bw.Flush()
}
