// Package snippet executes embedded chart-specification code blocks.
//
// A snippet is a block of HCL source in which every statement except
// the last is an attribute binding (`name = expr`) and the final
// statement is a bare expression. Execution binds the attributes in
// order into an isolated scope, then evaluates the final expression
// against that scope and returns its value. This mirrors the
// exec-statements-then-eval-expression contract of a script runner:
// nothing leaks between snippets, and the final expression sees every
// name bound above it.
//
// # Failure taxonomy
//
//   - SYNTAX_ERROR: the block (or its final line) fails to parse, a
//     statement is not a single binding, or the final statement is a
//     binding instead of an expression.
//   - RUNTIME_ERROR: evaluation of a binding or the final expression
//     produces diagnostics (unknown variable, bad operand, ...).
//   - TYPE_ERROR: the final value is not a mapping convertible to a
//     chart specification.
//
// All failures are fatal to the directive invocation and propagate to
// the build runner unchanged.
//
// # Example
//
//	values = [{x: "a", y: 2}, {x: "b", y: 7}]
//	{mark: "bar", data: {values: values}}
package snippet

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/vegadoc/vegadoc/pkg/errors"
	"github.com/vegadoc/vegadoc/pkg/spec"
)

// snippetFilename is the filename reported in HCL diagnostics.
const snippetFilename = "<snippet>"

// snippetFuncs is the fixed function table available to snippets.
var snippetFuncs = map[string]function.Function{
	"concat": stdlib.ConcatFunc,
	"format": stdlib.FormatFunc,
	"join":   stdlib.JoinFunc,
	"length": stdlib.LengthFunc,
	"lower":  stdlib.LowerFunc,
	"max":    stdlib.MaxFunc,
	"min":    stdlib.MinFunc,
	"range":  stdlib.RangeFunc,
	"upper":  stdlib.UpperFunc,
}

// ExecThenEval executes all statements of src except the last, then
// evaluates the last statement as an expression and returns its value.
func ExecThenEval(src string) (cty.Value, error) {
	stmts := splitStatements(src)
	if len(stmts) == 0 {
		return cty.NilVal, errors.New(errors.ErrCodeSyntax, "empty code block")
	}

	// Statement namespace: bindings accumulate here in order.
	vars := make(map[string]cty.Value)
	for _, st := range stmts[:len(stmts)-1] {
		name, val, err := execBinding(st, vars)
		if err != nil {
			return cty.NilVal, err
		}
		vars[name] = val
	}

	last := stmts[len(stmts)-1]
	expr, diags := hclsyntax.ParseExpression([]byte(last.text), snippetFilename, hcl.Pos{Line: last.line, Column: 1})
	if diags.HasErrors() {
		return cty.NilVal, errors.Wrap(errors.ErrCodeSyntax, diags,
			"final statement must be an expression (line %d)", last.line)
	}

	// Expression namespace: a copy of the statement bindings, so the
	// final expression cannot mutate what earlier statements produced.
	val, diags := expr.Value(evalContext(vars))
	if diags.HasErrors() {
		return cty.NilVal, errors.Wrap(errors.ErrCodeRuntime, diags,
			"evaluating final expression (line %d)", last.line)
	}
	return val, nil
}

// Eval runs ExecThenEval and converts the result to a specification.
// The final value must be a mapping; any other shape is a TYPE error.
func Eval(src string) (spec.Value, error) {
	val, err := ExecThenEval(src)
	if err != nil {
		return spec.NullVal(), err
	}

	if val.IsNull() {
		return spec.NullVal(), errors.New(errors.ErrCodeType,
			"final expression evaluated to null, expected a chart specification")
	}
	if ty := val.Type(); !ty.IsObjectType() && !ty.IsMapType() {
		return spec.NullVal(), errors.New(errors.ErrCodeType,
			"final expression has type %s, expected a chart specification mapping", ty.FriendlyName())
	}

	v, err := spec.FromCty(val)
	if err != nil {
		return spec.NullVal(), errors.Wrap(errors.ErrCodeType, err, "converting chart specification")
	}
	return v, nil
}

// execBinding parses one statement as a single attribute binding and
// evaluates its expression against the current bindings.
func execBinding(st statement, vars map[string]cty.Value) (string, cty.Value, error) {
	file, diags := hclsyntax.ParseConfig([]byte(st.text), snippetFilename, hcl.Pos{Line: st.line, Column: 1})
	if diags.HasErrors() {
		return "", cty.NilVal, errors.Wrap(errors.ErrCodeSyntax, diags, "parsing statement (line %d)", st.line)
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return "", cty.NilVal, errors.New(errors.ErrCodeInternal, "unexpected HCL body type")
	}
	if len(body.Blocks) > 0 || len(body.Attributes) != 1 {
		return "", cty.NilVal, errors.New(errors.ErrCodeSyntax,
			"statement on line %d must be a single binding (name = expression)", st.line)
	}

	for name, attr := range body.Attributes {
		val, diags := attr.Expr.Value(evalContext(vars))
		if diags.HasErrors() {
			return "", cty.NilVal, errors.Wrap(errors.ErrCodeRuntime, diags,
				"evaluating %q (line %d)", name, st.line)
		}
		return name, val, nil
	}
	return "", cty.NilVal, errors.New(errors.ErrCodeInternal, "unreachable")
}

// evalContext builds an evaluation context over a copy of vars.
func evalContext(vars map[string]cty.Value) *hcl.EvalContext {
	scope := make(map[string]cty.Value, len(vars))
	for k, v := range vars {
		scope[k] = v
	}
	return &hcl.EvalContext{
		Variables: scope,
		Functions: snippetFuncs,
	}
}
