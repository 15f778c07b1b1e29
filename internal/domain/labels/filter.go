package labels

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"

	"labelkit/internal/core/apperror"
)

// Filter is a compiled CEL selection over records, used to print one batch
// out of a longer list. Available variables:
//
//	identifier  string     15-digit device identifier
//	prefix      string     operator prefix code
//	serial      string     printed serial
//	index       int        zero-based store position
//	created_at  timestamp  capture time
//
// Example: prefix == "12" && index >= 40
type Filter struct {
	expr string
	prg  cel.Program
}

var filterEnv = sync.OnceValues(func() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("identifier", cel.StringType),
		cel.Variable("prefix", cel.StringType),
		cel.Variable("serial", cel.StringType),
		cel.Variable("index", cel.IntType),
		cel.Variable("created_at", cel.TimestampType),
	)
})

// CompileFilter compiles a boolean selection expression. An empty
// expression selects every record.
func CompileFilter(expr string) (*Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return &Filter{}, nil
	}

	env, err := filterEnv()
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("cel env: %w", err))
	}

	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, apperror.NewInvalidFilter(expr, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, apperror.NewInvalidFilter(expr,
			fmt.Errorf("expression yields %s, want bool", ast.OutputType()))
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, apperror.NewInvalidFilter(expr, err)
	}
	return &Filter{expr: expr, prg: prg}, nil
}

// MatchesAll reports whether the filter selects every record.
func (f *Filter) MatchesAll() bool {
	return f == nil || f.prg == nil
}

// Match evaluates the filter for the record at a store position.
func (f *Filter) Match(index int, rec Record) (bool, error) {
	if f.MatchesAll() {
		return true, nil
	}

	out, _, err := f.prg.Eval(map[string]any{
		"identifier": rec.Identifier,
		"prefix":     rec.PrefixCode,
		"serial":     rec.Serial,
		"index":      int64(index),
		"created_at": rec.CreatedAt,
	})
	if err != nil {
		return false, apperror.NewInvalidFilter(f.expr, err).WithDetail("index", index)
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, apperror.NewInvalidFilter(f.expr, fmt.Errorf("non-boolean result %v", out.Value()))
	}
	return matched, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.expr
}
