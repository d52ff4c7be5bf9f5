package model

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/jpequegn/satbench/internal/errs"
)

// CNF is a compiled conjunctive normal form formula, ready for DIMACS
// emission. VarNames maps declared-variable ids (1-based) back to their
// source names; ids beyond len(VarNames) are Tseitin auxiliaries.
type CNF struct {
	NumVars  int
	Clauses  [][]int
	VarNames []string
}

// String renders c in DIMACS CNF format (§6).
func (c *CNF) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "p cnf %d %d\n", c.NumVars, len(c.Clauses))
	for _, clause := range c.Clauses {
		for _, lit := range clause {
			fmt.Fprintf(&b, "%d ", lit)
		}
		b.WriteString("0\n")
	}
	return b.String()
}

// ParseDIMACS parses DIMACS CNF text (the external format produced by
// Compile and consumed by every solver adapter), ignoring comment lines
// beginning with 'c'.
func ParseDIMACS(src string) (*CNF, error) {
	cnf := &CNF{}
	scanner := bufio.NewScanner(strings.NewReader(src))
	sawHeader := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "c") {
			continue
		}
		if strings.HasPrefix(line, "p") {
			fields := strings.Fields(line)
			if len(fields) != 4 || fields[1] != "cnf" {
				return nil, errs.New(errs.Parse, "malformed DIMACS header")
			}
			n, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, errs.Wrap(errs.Parse, "parsing DIMACS variable count", err)
			}
			cnf.NumVars = n
			sawHeader = true
			continue
		}
		if !sawHeader {
			return nil, errs.New(errs.Parse, "DIMACS body before 'p cnf' header")
		}
		fields := strings.Fields(line)
		clause := make([]int, 0, len(fields))
		for _, f := range fields {
			lit, err := strconv.Atoi(f)
			if err != nil {
				return nil, errs.Wrap(errs.Parse, "parsing DIMACS clause literal", err)
			}
			if lit == 0 {
				break
			}
			clause = append(clause, lit)
		}
		cnf.Clauses = append(cnf.Clauses, clause)
	}
	if !sawHeader {
		return nil, errs.New(errs.Parse, "missing 'p cnf' header")
	}
	return cnf, nil
}

// Decode maps a solver's 'v' line (signed literal ids, 0-terminated) back to
// named-variable assignments, discarding any id beyond the declared
// variables (Tseitin auxiliaries never appear in the source model).
func (c *CNF) Decode(vLine []int) map[string]bool {
	assignment := make(map[string]bool)
	for _, lit := range vLine {
		if lit == 0 {
			continue
		}
		id := lit
		if id < 0 {
			id = -id
		}
		if id < 1 || id > len(c.VarNames) {
			continue
		}
		assignment[c.VarNames[id-1]] = lit > 0
	}
	return assignment
}
