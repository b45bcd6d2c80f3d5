package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/inlinemath/calc"
)

func TestEval(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr error
	}{
		{name: "sum", args: []string{"eval", "1", "+", "2"}, want: "3\n"},
		{name: "statements", args: []string{"eval", "5; 20"}, want: "[20]\n"},
		{name: "binding", args: []string{"-D", "w=6", "eval", "w * 2"}, want: "12\n"},
		{name: "rounded", args: []string{"eval", "50 / 9"}, want: "5.556\n"},
		{
			name: "fraction",
			args: []string{"--number", "fraction", "eval", "1/3 + 1/6"},
			want: "1/2\n",
		},
		{
			name: "bignumber",
			args: []string{"--number=bignumber", "--precision=7", "eval", "1 / 3"},
			want: "0.3333333\n",
		},
		{name: "array", args: []string{"eval", "[1, 2] "}, want: "[1, 2]\n"},
		{name: "string", args: []string{"eval", `"px"`}, want: "px\n"},
		{name: "unknown", args: []string{"eval", "nope"}, wantErr: calc.ErrCompile},
		{name: "blank", args: []string{"eval", " "}, wantErr: ErrNoExpression},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runner{fs: memFs(t, nil)}.run(t, tt.args...)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("run(%q) error = %v, want %v", tt.args, err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("run(%q) error = %v", tt.args, err)
			}

			if got != tt.want {
				t.Errorf("run(%q) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestEvalSuggestion(t *testing.T) {
	_, err := runner{fs: memFs(t, nil)}.run(t, "-D", "gutter=4", "eval", "guter * 2")
	if err == nil {
		t.Fatal("run() succeeded for misspelled name")
	}

	if !strings.Contains(err.Error(), "gutter") {
		t.Errorf("error %q does not suggest %q", err, "gutter")
	}
}
