package snippet

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/vegadoc/vegadoc/pkg/errors"
	"github.com/vegadoc/vegadoc/pkg/spec"
)

func TestExecThenEval(t *testing.T) {
	src := `width = 400
height = width / 2
{w: width, h: height}`

	val, err := ExecThenEval(src)
	if err != nil {
		t.Fatalf("ExecThenEval: %v", err)
	}

	want := cty.ObjectVal(map[string]cty.Value{
		"w": cty.NumberIntVal(400),
		"h": cty.NumberIntVal(200),
	})
	if !val.RawEquals(want) {
		t.Errorf("value = %#v, want %#v", val, want)
	}
}

func TestExecThenEvalMatchesDirectEval(t *testing.T) {
	// Binding then referencing must equal evaluating the final
	// expression directly with the same scope.
	src := `x = 2
{width: x}`

	got, err := ExecThenEval(src)
	if err != nil {
		t.Fatalf("ExecThenEval: %v", err)
	}

	expr, diags := hclsyntax.ParseExpression([]byte(`{width: x}`), "direct", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		t.Fatalf("parse direct expression: %v", diags)
	}
	want, diags := expr.Value(&hcl.EvalContext{
		Variables: map[string]cty.Value{"x": cty.NumberIntVal(2)},
		Functions: snippetFuncs,
	})
	if diags.HasErrors() {
		t.Fatalf("eval direct expression: %v", diags)
	}

	if !got.RawEquals(want) {
		t.Errorf("ExecThenEval = %#v, direct eval = %#v", got, want)
	}
}

func TestExecThenEvalMultilineStatement(t *testing.T) {
	src := `values = [
  {x: "a", y: 2},
  {x: "b", y: 7},
]

# the chart itself
{mark: "bar", data: {values: values}}`

	val, err := ExecThenEval(src)
	if err != nil {
		t.Fatalf("ExecThenEval: %v", err)
	}
	if !val.Type().IsObjectType() {
		t.Fatalf("final value type = %s, want object", val.Type().FriendlyName())
	}
	mark := val.GetAttr("mark")
	if mark.AsString() != "bar" {
		t.Errorf("mark = %q, want %q", mark.AsString(), "bar")
	}
}

func TestExecThenEvalRebinding(t *testing.T) {
	src := `n = 1
n = n + 1
{n: n}`

	val, err := ExecThenEval(src)
	if err != nil {
		t.Fatalf("ExecThenEval: %v", err)
	}
	want := cty.ObjectVal(map[string]cty.Value{"n": cty.NumberIntVal(2)})
	if !val.RawEquals(want) {
		t.Errorf("value = %#v, want %#v", val, want)
	}
}

func TestExecThenEvalFunctions(t *testing.T) {
	src := `title = format("chart %d", 3)
{title: upper(title)}`

	val, err := ExecThenEval(src)
	if err != nil {
		t.Fatalf("ExecThenEval: %v", err)
	}
	if got := val.GetAttr("title").AsString(); got != "CHART 3" {
		t.Errorf("title = %q, want %q", got, "CHART 3")
	}
}

func TestExecThenEvalErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errors.Code
	}{
		{"empty block", "", errors.ErrCodeSyntax},
		{"final statement is a binding", "x = 1\ny = 2", errors.ErrCodeSyntax},
		{"single binding only", "chart = {mark: \"bar\"}", errors.ErrCodeSyntax},
		{"malformed statement", "x == = 1\n{a: 1}", errors.ErrCodeSyntax},
		{"statement is not a binding", "true\n{a: 1}", errors.ErrCodeSyntax},
		{"undefined variable in statement", "x = missing + 1\n{a: x}", errors.ErrCodeRuntime},
		{"undefined variable in expression", "{a: missing}", errors.ErrCodeRuntime},
		{"unknown function", "{a: nope()}", errors.ErrCodeRuntime},
	}

	for _, tt := range tests {
		_, err := ExecThenEval(tt.src)
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if got := errors.GetCode(err); got != tt.code {
			t.Errorf("%s: code = %q, want %q (err: %v)", tt.name, got, tt.code, err)
		}
	}
}

func TestEval(t *testing.T) {
	src := `values = [{x: "a", y: 2}]
{mark: "bar", data: {values: values}}`

	got, err := Eval(src)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}

	want := spec.ObjectVal(map[string]spec.Value{
		"mark": spec.StringVal("bar"),
		"data": spec.ObjectVal(map[string]spec.Value{
			"values": spec.ListVal([]spec.Value{
				spec.ObjectVal(map[string]spec.Value{
					"x": spec.StringVal("a"),
					"y": spec.NumberVal(2),
				}),
			}),
		}),
	})
	if !got.Equal(want) {
		t.Errorf("Eval = %v, want %v", got, want)
	}
}

func TestEvalTypeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"number result", "1 + 1"},
		{"string result", `"not a chart"`},
		{"list result", `[1, 2, 3]`},
		{"null result", `null`},
	}

	for _, tt := range tests {
		_, err := Eval(tt.src)
		if !errors.Is(err, errors.ErrCodeType) {
			t.Errorf("%s: code = %q, want TYPE_ERROR (err: %v)", tt.name, errors.GetCode(err), err)
		}
	}
}

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		texts []string
		lines []int
	}{
		{
			name:  "simple lines",
			src:   "a = 1\nb = 2\n{c: 3}",
			texts: []string{"a = 1", "b = 2", "{c: 3}"},
			lines: []int{1, 2, 3},
		},
		{
			name:  "multiline bracket",
			src:   "a = [\n 1,\n 2,\n]\n{b: a}",
			texts: []string{"a = [\n 1,\n 2,\n]", "{b: a}"},
			lines: []int{1, 5},
		},
		{
			name:  "blanks and comments dropped",
			src:   "\n# setup\na = 1\n\n{b: a}\n",
			texts: []string{"a = 1", "{b: a}"},
			lines: []int{3, 5},
		},
		{
			name:  "brackets inside strings ignored",
			src:   `a = "[{("` + "\n{b: a}",
			texts: []string{`a = "[{("`, "{b: a}"},
			lines: []int{1, 2},
		},
		{
			name:  "brackets inside comments ignored",
			src:   "a = 1 # not open (\n{b: a}",
			texts: []string{"a = 1 # not open (", "{b: a}"},
			lines: []int{1, 2},
		},
	}

	for _, tt := range tests {
		got := splitStatements(tt.src)
		if len(got) != len(tt.texts) {
			t.Errorf("%s: %d statements, want %d (%#v)", tt.name, len(got), len(tt.texts), got)
			continue
		}
		for i := range got {
			if got[i].text != tt.texts[i] {
				t.Errorf("%s: stmt[%d].text = %q, want %q", tt.name, i, got[i].text, tt.texts[i])
			}
			if got[i].line != tt.lines[i] {
				t.Errorf("%s: stmt[%d].line = %d, want %d", tt.name, i, got[i].line, tt.lines[i])
			}
		}
	}
}
