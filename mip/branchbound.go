package mip

import (
	"log/slog"
	"math"
)

// defaultNodeLimit bounds the search; reduced-graph models stay far below
// it in practice.
const defaultNodeLimit = 20_000_000

// feasEps absorbs FP noise in constraint activity comparisons.
const feasEps = 1e-6

// BranchBoundOption customizes a BranchBound solver.
type BranchBoundOption func(*BranchBound)

// WithNodeLimit bounds the number of explored nodes. Panics on a
// non-positive value.
func WithNodeLimit(n int) BranchBoundOption {
	if n < 1 {
		panic("mip: node limit must be positive")
	}
	return func(b *BranchBound) { b.nodeLimit = n }
}

// WithLogger routes solver diagnostics to l.
func WithLogger(l *slog.Logger) BranchBoundOption {
	return func(b *BranchBound) { b.logger = l }
}

// BranchBound is a depth-first branch-and-bound solver over binary models.
// One instance per concurrent solve; the struct carries search state.
type BranchBound struct {
	nodeLimit int
	logger    *slog.Logger

	// Search state, valid during Solve only.
	model  *Model
	cons   []row
	byVar  [][]colRef
	assign []int8 // -1 unassigned, else 0/1
	objCur float64
	objRem float64 // sum of positive objective coefficients still unassigned
	nodes  int

	bestX   []float64
	bestObj float64
	hasBest bool
}

// row is a constraint with incrementally maintained activity bounds.
type row struct {
	terms []Term
	op    Op
	rhs   float64
	sum   float64 // contribution of assigned variables
	posUn float64 // positive coefficients still unassigned
	negUn float64 // negative coefficients still unassigned
}

// colRef links a variable to one of its rows.
type colRef struct {
	ci   int
	coef float64
}

// NewBranchBound returns a solver with default limits.
func NewBranchBound(opts ...BranchBoundOption) *BranchBound {
	b := &BranchBound{nodeLimit: defaultNodeLimit, logger: slog.Default()}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Solve maximizes the model's objective over binary assignments. sep, when
// non-nil, is consulted on every integer-feasible leaf; constraints it adds
// stay active for the remainder of the search.
func (b *BranchBound) Solve(m *Model, sep Separator) (*Solution, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}

	n := m.NumVars()
	b.model = m
	b.cons = b.cons[:0]
	b.byVar = make([][]colRef, n)
	b.assign = make([]int8, n)
	for v := range b.assign {
		b.assign[v] = -1
	}
	b.objCur = 0
	b.objRem = 0
	for _, c := range m.obj {
		if c > 0 {
			b.objRem += c
		}
	}
	b.nodes = 0
	b.bestX = nil
	b.bestObj = math.Inf(-1)
	b.hasBest = false

	for _, c := range m.constraints {
		b.addRow(c.Terms, c.Op, c.RHS)
	}

	b.dfs(0, sep)

	if !b.hasBest {
		return nil, ErrInfeasible
	}
	sol := &Solution{
		X:         b.bestX,
		Objective: b.bestObj,
		Optimal:   b.nodes < b.nodeLimit,
		Nodes:     b.nodes,
	}
	if !sol.Optimal {
		b.logger.Warn("node limit reached, returning incumbent",
			slog.Int("nodes", b.nodes),
			slog.Float64("objective", b.bestObj))
	}
	return sol, nil
}

// addRow registers a constraint and initializes its activity under the
// current partial assignment.
func (b *BranchBound) addRow(terms []Term, op Op, rhs float64) {
	r := row{terms: terms, op: op, rhs: rhs}
	ci := len(b.cons)
	for _, t := range terms {
		switch b.assign[t.Var] {
		case -1:
			if t.Coef > 0 {
				r.posUn += t.Coef
			} else {
				r.negUn += t.Coef
			}
		case 1:
			r.sum += t.Coef
		}
		b.byVar[t.Var] = append(b.byVar[t.Var], colRef{ci: ci, coef: t.Coef})
	}
	b.cons = append(b.cons, r)
}

// setVar fixes variable v to val and updates the touched rows.
func (b *BranchBound) setVar(v int, val int8) {
	for _, ref := range b.byVar[v] {
		r := &b.cons[ref.ci]
		if ref.coef > 0 {
			r.posUn -= ref.coef
		} else {
			r.negUn -= ref.coef
		}
		if val == 1 {
			r.sum += ref.coef
		}
	}
	if c := b.model.obj[v]; c > 0 {
		b.objRem -= c
	}
	if val == 1 {
		b.objCur += b.model.obj[v]
	}
	b.assign[v] = val
}

// unsetVar reverts setVar.
func (b *BranchBound) unsetVar(v int) {
	val := b.assign[v]
	for _, ref := range b.byVar[v] {
		r := &b.cons[ref.ci]
		if ref.coef > 0 {
			r.posUn += ref.coef
		} else {
			r.negUn += ref.coef
		}
		if val == 1 {
			r.sum -= ref.coef
		}
	}
	if c := b.model.obj[v]; c > 0 {
		b.objRem += c
	}
	if val == 1 {
		b.objCur -= b.model.obj[v]
	}
	b.assign[v] = -1
}

// rowsFeasible reports whether every row can still reach its sense given
// the unassigned slack.
func (b *BranchBound) rowsFeasible() bool {
	for i := range b.cons {
		r := &b.cons[i]
		lo := r.sum + r.negUn
		hi := r.sum + r.posUn
		switch r.op {
		case LE:
			if lo > r.rhs+feasEps {
				return false
			}
		case GE:
			if hi < r.rhs-feasEps {
				return false
			}
		case EQ:
			if lo > r.rhs+feasEps || hi < r.rhs-feasEps {
				return false
			}
		}
	}
	return true
}

// dfs explores assignments of variables v..n−1.
func (b *BranchBound) dfs(v int, sep Separator) {
	if b.nodes >= b.nodeLimit {
		return
	}
	b.nodes++

	if !b.rowsFeasible() {
		return
	}
	if b.hasBest && b.objCur+b.objRem <= b.bestObj+feasEps {
		return
	}
	if v == b.model.NumVars() {
		b.leaf(sep)
		return
	}

	// Try the objective-improving value first.
	first, second := int8(1), int8(0)
	if b.model.obj[v] < 0 {
		first, second = 0, 1
	}
	b.setVar(v, first)
	b.dfs(v+1, sep)
	b.unsetVar(v)

	b.setVar(v, second)
	b.dfs(v+1, sep)
	b.unsetVar(v)
}

// leaf handles a fully assigned, row-feasible candidate: run the separator
// and promote to incumbent only when no lazy constraint cuts it off.
func (b *BranchBound) leaf(sep Separator) {
	if sep != nil {
		x := make([]float64, len(b.assign))
		for v, a := range b.assign {
			x[v] = float64(a)
		}
		before := len(b.cons)
		added := sep.Separate(x, func(terms []Term, op Op, rhs float64) {
			b.addRow(terms, op, rhs)
		})
		if added > 0 {
			// New rows were initialized under the full assignment; the
			// candidate survives only if it satisfies them too.
			for i := before; i < len(b.cons); i++ {
				r := &b.cons[i]
				switch r.op {
				case LE:
					if r.sum > r.rhs+feasEps {
						return
					}
				case GE:
					if r.sum < r.rhs-feasEps {
						return
					}
				case EQ:
					if math.Abs(r.sum-r.rhs) > feasEps {
						return
					}
				}
			}
		}
	}

	if !b.hasBest || b.objCur > b.bestObj {
		x := make([]float64, len(b.assign))
		for v, a := range b.assign {
			x[v] = float64(a)
		}
		b.bestX = x
		b.bestObj = b.objCur
		b.hasBest = true
	}
}
