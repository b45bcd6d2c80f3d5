package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
)

const testConfigPath = "/config/config.yaml"

func TestInitRun(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		setup   bool // pre-create the configuration file
		wantErr error
		want    map[string]string
	}{
		{
			name: "create_new_config",
			args: []string{"init"},
			want: map[string]string{
				"eval-precision": "3",
				"marker":         "gulpmath",
				"number":         "number",
			},
		},
		{
			name: "current_flag_values",
			args: []string{"--number", "fraction", "-D", "gutter=4", "--fail-fast", "init"},
			want: map[string]string{
				"number":    "fraction",
				"fail-fast": "true",
			},
		},
		{
			name:  "overwrite_existing_with_force",
			args:  []string{"init", "--force"},
			setup: true,
			want:  map[string]string{"precision": "64"},
		},
		{
			name:    "fail_without_force",
			args:    []string{"init"},
			setup:   true,
			wantErr: ErrFileExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()

			if tt.setup {
				if err := afero.WriteFile(fs, testConfigPath, []byte("existing content"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			_, err := runner{fs: fs}.run(t, tt.args...)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
				}

				data, _ := afero.ReadFile(fs, testConfigPath)
				if string(data) != "existing content" {
					t.Errorf("config overwritten: %q", data)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run() error = %v", err)
			}

			data, err := afero.ReadFile(fs, testConfigPath)
			if err != nil {
				t.Fatalf("config file not created: %v", err)
			}

			var got map[string]any
			if err := yaml.Unmarshal(data, &got); err != nil {
				t.Fatalf("config is not YAML: %v\n%s", err, data)
			}

			for key, want := range tt.want {
				if v, ok := got[key]; !ok || yamlString(v) != want {
					t.Errorf("config[%q] = %v, want %q\n%s", key, v, want, data)
				}
			}

			for key := range got {
				if strings.HasPrefix(key, "help") {
					t.Errorf("config contains %q", key)
				}
			}
		})
	}
}

func TestInitVars(t *testing.T) {
	fs := afero.NewMemMapFs()

	if _, err := (runner{fs: fs}).run(t, "-D", "gutter=4", "-D", "w=gutter * 2", "init"); err != nil {
		t.Fatal(err)
	}

	data, err := afero.ReadFile(fs, testConfigPath)
	if err != nil {
		t.Fatal(err)
	}

	var got struct {
		Var map[string]string `yaml:"var"`
	}
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}

	if got.Var["gutter"] != "4" || got.Var["w"] != "gutter * 2" {
		t.Errorf("var = %v\n%s", got.Var, data)
	}

	if strings.Contains(string(data), "vars:") {
		t.Errorf("empty --vars written:\n%s", data)
	}
}

func yamlString(v any) string {
	s, err := yaml.Marshal(v)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(s))
}
