package mython

// Program is the root of a parsed Mython source file: a sequence of
// top-level statements sharing one Closure.
type Program struct {
	Stmts []Statement
}

// Evaluator runs a Program's statements against a persistent top-level
// Closure and Context, the same way Compound executes a statement list. A
// stray Return at top level (outside any method) behaves like reaching
// MethodBody: it simply ends evaluation with that value, since there is no
// enclosing method body to propagate past.
type Evaluator struct {
	Closure Closure
	Context Context
}

// NewEvaluator builds an Evaluator with a fresh top-level Closure writing to
// ctx.
func NewEvaluator(ctx Context) *Evaluator {
	return &Evaluator{Closure: NewClosure(), Context: ctx}
}

// Run executes prog's statements in source order.
func (e *Evaluator) Run(prog *Program) (Value, error) {
	for _, s := range prog.Stmts {
		v, err := s.Execute(e.Closure, e.Context)
		if err != nil {
			if rs, ok := err.(*returnSignal); ok {
				return rs.Value, nil
			}
			return None(), err
		}
		_ = v
	}
	return None(), nil
}

// RunLine executes a single statement against the Evaluator's persistent
// Closure, used by the REPL where each input line is its own one-statement
// program.
func (e *Evaluator) RunLine(s Statement) (Value, error) {
	v, err := s.Execute(e.Closure, e.Context)
	if err != nil {
		if rs, ok := err.(*returnSignal); ok {
			return rs.Value, nil
		}
		return None(), err
	}
	return v, nil
}
