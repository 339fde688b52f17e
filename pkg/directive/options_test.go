package directive

import (
	"testing"

	"github.com/vegadoc/vegadoc/pkg/errors"
)

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name string
		info string
		want Options
	}{
		{"empty", "", Options{}},
		{"show-json", "show-json", Options{ShowJSON: true}},
		{"hide-code", "hide-code", Options{HideCode: true}},
		{"code-below", "code-below", Options{CodeBelow: true}},
		{"alt bare", "alt=chart", Options{Alt: "chart"}},
		{"alt quoted", `alt="monthly totals"`, Options{Alt: "monthly totals"}},
		{
			"combined",
			`hide-code code-below alt="a b" show-json`,
			Options{ShowJSON: true, HideCode: true, CodeBelow: true, Alt: "a b"},
		},
		{"extra whitespace", "  show-json \t hide-code ", Options{ShowJSON: true, HideCode: true}},
	}

	for _, tt := range tests {
		got, err := parseOptions(tt.info)
		if err != nil {
			t.Errorf("%s: parseOptions(%q) error: %v", tt.name, tt.info, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: parseOptions(%q) = %+v, want %+v", tt.name, tt.info, got, tt.want)
		}
	}
}

func TestParseOptionsUnknown(t *testing.T) {
	_, err := parseOptions("show-json bogus")
	if !errors.Is(err, errors.ErrCodeInvalidOption) {
		t.Errorf("code = %q, want INVALID_OPTION (err: %v)", errors.GetCode(err), err)
	}
}
