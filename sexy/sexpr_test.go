package sexy

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestParseSymbol(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello", "hello"},
		{"vec3f", "vec3f"},
		{"test_var", "test_var"},
		{"func-name", "func-name"},
		{"-", "-"},
	}

	for _, test := range tests {
		result, err := Parse(test.input)
		be.Err(t, err, nil)

		be.Equal(t, result.Type, NodeSymbol)
		be.Equal(t, result.Text, test.expected)
		be.Equal(t, result.String(), test.expected)
	}
}

func TestParseString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		output   string
	}{
		{`"hello"`, "hello", `"hello"`},
		{`""`, "", `""`},
		{`"test\"quote"`, `test"quote`, `"test\"quote"`},
		{`"test\\backslash"`, `test\backslash`, `"test\\backslash"`},
	}

	for _, test := range tests {
		result, err := Parse(test.input)
		be.Err(t, err, nil)

		be.Equal(t, result.Type, NodeString)
		be.Equal(t, result.Text, test.expected)
		be.Equal(t, result.String(), test.output)
	}
}

func TestParseNumber(t *testing.T) {
	for _, input := range []string{"42", "-7", "+3", "0.5", "1e+06", "2.5e-07"} {
		result, err := Parse(input)
		be.Err(t, err, nil)
		be.Equal(t, result.Type, NodeNumber)
		be.Equal(t, result.Text, input)
	}
}

func TestParseList(t *testing.T) {
	result, err := Parse(`(binary "+" (int 1) ; trailing comment
		(double 2.5))`)
	be.Err(t, err, nil)
	be.Equal(t, result.Type, NodeList)
	be.Equal(t, len(result.Items), 4)
	be.Equal(t, result.String(), `(binary "+" (int 1) (double 2.5))`)

	empty, err := Parse("()")
	be.Err(t, err, nil)
	be.Equal(t, len(empty.Items), 0)
}

func TestParseEllipsis(t *testing.T) {
	result, err := Parse("(tree ...)")
	be.Err(t, err, nil)
	be.Equal(t, result.Items[1].Type, NodeEllipsis)
	be.Equal(t, result.String(), "(tree ...)")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"(a b", "expected ')'"},
		{`"open`, "unterminated string"},
		{`"\n"`, "invalid escape"},
		{"a b", "after datum"},
		{"(a . b)", "unexpected character '.'"},
		{"#", "unexpected character '#'"},
		{")", "unexpected"},
		{"", "unexpected EOF"},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			_, err := Parse(test.input)
			be.Err(t, err, test.want)
		})
	}
}

func mustParse(t *testing.T, input string) *Node {
	t.Helper()
	n, err := Parse(input)
	be.Err(t, err, nil)
	return n
}

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern string
		actual  string
		want    string
	}{
		{`(int 1)`, `(int 1)`, ""},
		{`(binary "+" ... (int 2))`, `(binary "+" (local "a") (int 2))`, ""},
		{`(tree (declare int ...) ...)`, `(tree (declare int (local "a") (int 1)) (block))`, ""},
		{`(tree ...)`, `(tree)`, ""},
		{`(int 1)`, `(int 2)`, "at root[1]: expected 1, got 2"},
		{`(int 1)`, `(int "1")`, "at root[1]: expected number 1, got string \"1\""},
		{`(tree (block))`, `(tree)`, "at root: expected 2 items"},
		{`(tree)`, `(tree (block))`, "at root: unexpected trailing (block)"},
		{`(a (b c))`, `(a (b d))`, "at root[1][1]"},
	}
	for _, test := range tests {
		t.Run(test.pattern, func(t *testing.T) {
			err := Match(mustParse(t, test.pattern), mustParse(t, test.actual))
			if test.want == "" {
				be.Err(t, err, nil)
			} else {
				be.Err(t, err, test.want)
			}
		})
	}
}
