package model

import (
	"fmt"

	"github.com/jpequegn/satbench/internal/errs"
)

// Compiler lowers a parsed Model to CNF via Tseitin transformation, with
// cardinality constraints expanded as a sequential-counter register chain
// built from the same And/Or gates as everything else (§4.9).
type Compiler struct {
	varID   map[string]int
	names   []string // index i-1 -> name, for i in 1..len(names)
	nextVar int
	clauses [][]int
	trueLit int
}

// Compile lowers m into a CNF. Every identifier referenced in a constraint
// must have been declared by a 'var bool' statement; an undeclared
// reference is a Parse-kind error.
func Compile(m *Model) (*CNF, error) {
	c := &Compiler{varID: make(map[string]int)}
	for _, name := range m.Vars {
		if _, dup := c.varID[name]; dup {
			return nil, errs.New(errs.Parse, fmt.Sprintf("variable %q declared more than once", name))
		}
		c.nextVar++
		c.varID[name] = c.nextVar
		c.names = append(c.names, name)
	}

	c.nextVar++
	c.trueLit = c.nextVar
	c.addClause(c.trueLit)

	for _, constraint := range m.Constraints {
		lit, err := c.compile(desugar(constraint))
		if err != nil {
			return nil, err
		}
		c.addClause(lit)
	}

	return &CNF{
		NumVars:  c.nextVar,
		Clauses:  c.clauses,
		VarNames: c.names,
	}, nil
}

func (c *Compiler) addClause(lits ...int) {
	clause := make([]int, len(lits))
	copy(clause, lits)
	c.clauses = append(c.clauses, clause)
}

func (c *Compiler) newAux() int {
	c.nextVar++
	return c.nextVar
}

// andGate returns a fresh literal z Tseitin-equivalent to (a AND b).
func (c *Compiler) andGate(a, b int) int {
	z := c.newAux()
	c.addClause(-z, a)
	c.addClause(-z, b)
	c.addClause(-a, -b, z)
	return z
}

// orGate returns a fresh literal z Tseitin-equivalent to (a OR b).
func (c *Compiler) orGate(a, b int) int {
	z := c.newAux()
	c.addClause(-z, a, b)
	c.addClause(-a, z)
	c.addClause(-b, z)
	return z
}

func (c *Compiler) litOf(name string) (int, error) {
	id, ok := c.varID[name]
	if !ok {
		return 0, errs.New(errs.Parse, fmt.Sprintf("undeclared variable %q", name))
	}
	return id, nil
}

func (c *Compiler) compile(e Expr) (int, error) {
	switch n := e.(type) {
	case VarRef:
		return c.litOf(n.Name)
	case BoolLit:
		if n.Value {
			return c.trueLit, nil
		}
		return -c.trueLit, nil
	case Not:
		lit, err := c.compile(n.X)
		if err != nil {
			return 0, err
		}
		return -lit, nil
	case And:
		x, err := c.compile(n.X)
		if err != nil {
			return 0, err
		}
		y, err := c.compile(n.Y)
		if err != nil {
			return 0, err
		}
		return c.andGate(x, y), nil
	case Or:
		x, err := c.compile(n.X)
		if err != nil {
			return 0, err
		}
		y, err := c.compile(n.Y)
		if err != nil {
			return 0, err
		}
		return c.orGate(x, y), nil
	case Cardinality:
		return c.compileCardinality(n)
	default:
		return 0, errs.New(errs.Fatal, fmt.Sprintf("unhandled expression node %T (desugar should have removed it)", e))
	}
}

// compileCardinality builds the sequential-counter register chain for n's
// variables: s[i][j] is Tseitin-equivalent to "at least j of the first i
// variables are true", with s[i][0] always true and s[0][j>0] always false.
// atleast(k) reads off s[n][k]; atmost(k) reads off the negation of
// s[n][k+1]; exactly(k) is their conjunction.
func (c *Compiler) compileCardinality(n Cardinality) (int, error) {
	vars := make([]int, len(n.Vars))
	for i, name := range n.Vars {
		lit, err := c.litOf(name)
		if err != nil {
			return 0, err
		}
		vars[i] = lit
	}

	k := n.K
	maxCol := k + 1
	if maxCol > len(vars) {
		maxCol = len(vars)
	}

	// s[i] holds registers for column 0..maxCol, indexed directly (s[i][0]
	// is always trueLit; columns beyond len(vars) are never needed).
	prev := make([]int, maxCol+1)
	prev[0] = c.trueLit
	for j := 1; j <= maxCol; j++ {
		prev[j] = -c.trueLit // s[0][j>0] = false
	}

	for i := 1; i <= len(vars); i++ {
		cur := make([]int, maxCol+1)
		cur[0] = c.trueLit
		for j := 1; j <= maxCol; j++ {
			carry := c.andGate(vars[i-1], prev[j-1])
			cur[j] = c.orGate(prev[j], carry)
		}
		prev = cur
	}

	atLeast := func(j int) int {
		if j <= 0 {
			return c.trueLit
		}
		if j > len(vars) {
			return -c.trueLit
		}
		return prev[j]
	}

	switch n.Op {
	case AtLeast:
		return atLeast(k), nil
	case AtMost:
		return -atLeast(k + 1), nil
	case Exactly:
		return c.andGate(atLeast(k), -atLeast(k+1)), nil
	default:
		return 0, errs.New(errs.Fatal, "unknown cardinality operator")
	}
}
