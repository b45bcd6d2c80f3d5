package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/ardnew/inlinemath/cli/cmd"
)

// runCLI runs the CLI with a configuration directory holding the given
// YAML document and returns what was written to stdout.
func runCLI(t *testing.T, conf, input string, args ...string) (string, error) {
	t.Helper()

	dir := t.TempDir()

	if conf != "" {
		path := filepath.Join(dir, baseConfig+".yaml")
		if err := os.WriteFile(path, []byte(conf), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}

	var stdout, stderr bytes.Buffer

	err := run(t.Context(), environment{
		exit: func(code int) {
			t.Fatalf("unexpected exit(%d): %s", code, stderr.String())
		},
		fs:        afero.NewMemMapFs(),
		stdin:     strings.NewReader(input),
		stdout:    &stdout,
		stderr:    &stderr,
		configDir: dir,
		cacheDir:  filepath.Join(dir, "cache"),
	}, append([]string{"--log-level", "error"}, args...))

	return stdout.String(), err
}

func TestRun(t *testing.T) {
	tests := []struct {
		name    string
		conf    string
		input   string
		args    []string
		want    string
		wantErr error
	}{
		{
			name:  "default command",
			input: "width: gulpmath(10 / 4);",
			want:  "width: 2.5",
		},
		{
			name:  "config precision",
			conf:  "eval-precision: 2\n",
			input: "gulpmath(10 / 3);",
			want:  "3.33",
		},
		{
			name:  "flag overrides config",
			conf:  "eval_precision: 2\n",
			input: "gulpmath(10 / 3);",
			args:  []string{"--eval-precision", "4"},
			want:  "3.3333",
		},
		{
			name:  "config vars",
			conf:  "var:\n  gutter: 4\n",
			input: "gulpmath(gutter * 2);px",
			want:  "8px",
		},
		{
			name: "eval command",
			args: []string{"eval", "2 ^ 10"},
			want: "1024\n",
		},
		{
			name:    "failed expression",
			input:   "gulpmath(nope);",
			want:    "gulpmath(nope);",
			wantErr: cmd.ErrFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runCLI(t, tt.conf, tt.input, tt.args...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("run: %v", err)
			}

			if got != tt.want {
				t.Errorf("stdout = %q, want %q", got, tt.want)
			}
		})
	}
}
