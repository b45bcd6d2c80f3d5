package profile

import (
	"slices"
	"testing"
)

func TestOptions(t *testing.T) {
	got := apply(Options{}, WithMode("cpu"), WithDir("/tmp/p"), nil, WithQuiet(true))

	want := Options{Mode: "cpu", Dir: "/tmp/p", Quiet: true}
	if got != want {
		t.Errorf("apply() = %+v, want %+v", got, want)
	}

	if got := apply(got, WithMode("")); got.Mode != "" || got.Dir != want.Dir {
		t.Errorf("WithMode(\"\") = %+v", got)
	}
}

func TestStartDisabled(t *testing.T) {
	for _, opts := range [][]Option{
		nil,
		{WithMode("")},
		{WithMode("no-such-mode"), WithDir(t.TempDir())},
	} {
		s := Start(opts...)
		if _, ok := s.(ignore); !ok {
			t.Errorf("Start(%d options) = %T, want no-op", len(opts), s)
		}

		s.Stop()
	}
}

func TestModes(t *testing.T) {
	modes := Modes()

	if !Enabled() {
		if len(modes) != 0 {
			t.Errorf("Modes() = %v without %s tag, want none", modes, Tag)
		}

		return
	}

	if !slices.IsSorted(modes) {
		t.Errorf("Modes() = %v, want sorted", modes)
	}

	for _, m := range []string{"cpu", "heap", "trace"} {
		if !slices.Contains(modes, m) {
			t.Errorf("Modes() = %v, missing %q", modes, m)
		}
	}
}
