package model

import (
	"errors"
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
	"github.com/hashicorp/go-hclog"

	"github.com/mesh-intelligence/planka/pkg/types"
)

// ExprOption configures Expr.
type ExprOption func(*exprPredicate)

// ExprWithLogger logs evaluation failures to logger.
func ExprWithLogger(logger hclog.Logger) ExprOption {
	return func(p *exprPredicate) {
		if logger != nil {
			p.logger = logger
		}
	}
}

type exprPredicate struct {
	expression string
	program    *exprvm.Program
	logger     hclog.Logger
}

// Expr compiles a boolean expr-lang expression into a Predicate. Entity
// fields are visible as variables, along with "_type" holding the resource
// type. Unknown variables evaluate to nil. An evaluation
// error makes the predicate false.
func Expr(expression string, opts ...ExprOption) (Predicate, error) {
	if expression == "" {
		return nil, fmt.Errorf("%w: expression must not be empty", types.ErrInvalidExpression)
	}
	p := &exprPredicate{expression: expression, logger: hclog.NewNullLogger()}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	program, err := exprlang.Compile(expression,
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, errors.Join(types.ErrInvalidExpression, err)
	}
	p.program = program
	return p.match, nil
}

func (p *exprPredicate) match(e *Entity) bool {
	env := make(map[string]any, len(e.record)+2)
	for k, v := range e.record {
		env[k] = v
	}
	env[types.FieldID] = e.id
	env["_type"] = e.kind
	out, err := exprlang.Run(p.program, env)
	if err != nil {
		p.logger.Debug("expression failed", "expression", p.expression, "entity", e.String(), "error", err)
		return false
	}
	ok, isBool := out.(bool)
	if !isBool {
		p.logger.Debug("expression is not boolean", "expression", p.expression, "result", out)
		return false
	}
	return ok
}
