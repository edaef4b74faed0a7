// Command validate checks a climate stress report for structural integrity:
// header, column count, culture ids, and NA placement. When the input file is
// given it also checks that every reported culture appears in it.
//
// Usage:
//
//	go run ./cmd/validate -report report.tsv -input trials.tsv
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/couchcryptid/climax-batch/internal/domain"
)

// Column offsets of the stress pairs that are mutually exclusive.
const (
	droughtCol = 1
	controlCol = 3
	stressCol  = 5
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	reportPath := flag.String("report", "", "path to the report to validate")
	inputPath := flag.String("input", "", "optional input file the report was built from")
	flag.Parse()

	if *reportPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*reportPath, *inputPath, os.Stdout))
}

func run(reportPath, inputPath string, out io.Writer) int {
	fmt.Fprintln(out, "=== Climate Report Validation ===")

	report, err := readLines(reportPath)
	if err != nil {
		fmt.Fprintf(out, "FATAL: load report: %v\n", err)
		return 1
	}

	phases := []*phase{validateStructure(report)}

	if inputPath != "" {
		input, err := readLines(inputPath)
		if err != nil {
			fmt.Fprintf(out, "FATAL: load input: %v\n", err)
			return 1
		}
		phases = append(phases, validateCoverage(report, input))
	}

	fmt.Fprintln(out)
	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-36s %s\n", p.name, status)
	}
	fmt.Fprintf(out, "\nRows: %d\n", max(len(report)-1, 0))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, strings.TrimSuffix(sc.Text(), "\r"))
	}
	return lines, sc.Err()
}

// validateStructure checks the header and the shape of every row.
func validateStructure(report []string) *phase {
	p := &phase{name: "Structure (header, columns, NA)"}
	if len(report) == 0 {
		p.errorf("report is empty, header missing")
		return p
	}
	if header := strings.Split(report[0], "\t"); !slices.Equal(header, domain.ReportHeader) {
		p.errorf("header mismatch: got %q", report[0])
	}
	for i, line := range report[1:] {
		checkRow(p, i+2, strings.Split(line, "\t"))
	}
	return p
}

func checkRow(p *phase, lineNum int, cols []string) {
	if len(cols) != len(domain.ReportHeader) {
		p.errorf("line %d: expected %d columns, got %d", lineNum, len(domain.ReportHeader), len(cols))
		return
	}
	if _, err := strconv.Atoi(cols[0]); err != nil {
		p.errorf("line %d: culture id %q is not an integer", lineNum, cols[0])
	}

	for _, start := range []int{droughtCol, controlCol, stressCol} {
		if (cols[start] == domain.NotAvailable) != (cols[start+1] == domain.NotAvailable) {
			p.errorf("line %d: %s and %s must both be filled or both be NA",
				lineNum, domain.ReportHeader[start], domain.ReportHeader[start+1])
		}
	}

	droughtNA := pairIsNA(cols, droughtCol)
	controlNA, stressNA := pairIsNA(cols, controlCol), pairIsNA(cols, stressCol)
	if controlNA != stressNA {
		p.errorf("line %d: control and stress drought must both be filled or both be NA", lineNum)
	} else if droughtNA == controlNA {
		p.errorf("line %d: exactly one of drought or control/stress drought must be NA", lineNum)
	}

	for i, v := range cols[1:] {
		col := i + 1
		if v == domain.NotAvailable && col >= droughtCol && col < stressCol+2 {
			continue
		}
		if col >= len(cols)-2 {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				p.errorf("line %d: column %s value %q is not a number", lineNum, domain.ReportHeader[col], v)
			}
			continue
		}
		if _, err := strconv.Atoi(v); err != nil {
			p.errorf("line %d: column %s value %q is not an integer", lineNum, domain.ReportHeader[col], v)
		}
	}

	id, err := strconv.Atoi(cols[0])
	if err == nil && domain.IsIrrigationException(id) && droughtNA {
		p.errorf("line %d: culture %d must report plain drought columns", lineNum, id)
	}
}

func pairIsNA(cols []string, start int) bool {
	return cols[start] == domain.NotAvailable && cols[start+1] == domain.NotAvailable
}

// validateCoverage checks that every reported culture appears in the input.
func validateCoverage(report, input []string) *phase {
	p := &phase{name: "Coverage (report vs input)"}

	known := make(map[int]bool, len(input))
	for _, line := range input {
		field, _, _ := strings.Cut(line, "\t")
		if id, err := strconv.Atoi(strings.TrimSpace(field)); err == nil {
			known[id] = true
		}
	}

	if len(report) < 2 {
		return p
	}
	for i, line := range report[1:] {
		field, _, _ := strings.Cut(line, "\t")
		id, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		if !known[id] {
			p.errorf("line %d: culture %d not found in input", i+2, id)
		}
	}
	if len(report)-1 > len(input) {
		p.errorf("report has %d rows but input only %d lines", len(report)-1, len(input))
	}
	return p
}
