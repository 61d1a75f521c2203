package cli

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Fepozopo/pixfx/pkg/filter"
)

func TestNormalizeArgs(t *testing.T) {
	store := NewMetaStore(filter.Commands)
	cases := []struct {
		cmd  string
		args []string
		want []string
	}{
		{"invert", nil, []string{}},
		{"median", []string{" 3 ", "FIXED"}, []string{"3", "fixed"}},
		{"median", nil, []string{"", ""}},
		{"sepia", []string{"1e1"}, []string{"10"}},
		{"baseColor", []string{"1", "", " 10, 20,30"}, []string{"1", "", "10,20,30"}},
		{"Dilate", []string{"Square5"}, []string{"square5"}},
		{"glass", []string{"2.5", "42"}, []string{"2.5", "42"}},
	}
	for _, c := range cases {
		got, err := NormalizeArgs(store, c.cmd, c.args)
		if err != nil {
			t.Fatalf("NormalizeArgs(%s, %q): %v", c.cmd, c.args, err)
		}
		if !reflect.DeepEqual(got, c.want) {
			t.Fatalf("NormalizeArgs(%s, %q) = %q, want %q", c.cmd, c.args, got, c.want)
		}
	}
}

func TestNormalizeArgsErrors(t *testing.T) {
	store := NewMetaStore(filter.Commands)
	cases := []struct {
		cmd  string
		args []string
	}{
		{"invert", []string{"1"}},
		{"median", []string{"x"}},
		{"median", []string{"-1"}},
		{"median", []string{"2", "mean"}},
		{"shift", []string{"-5"}},
		{"sepia", []string{"warm"}},
		{"baseColor", []string{"0", "0", "red"}},
		{"erode", []string{"0110"}},
		{"erode", []string{"square100001"}},
		{"blur", []string{"100000"}},
		{"median", []string{"65"}},
		{"glass", []string{"-3"}},
	}
	for _, c := range cases {
		if _, err := NormalizeArgs(store, c.cmd, c.args); err == nil {
			t.Fatalf("NormalizeArgs(%s, %q): expected error", c.cmd, c.args)
		}
	}
	_, err := NormalizeArgs(store, "blurr", nil)
	var unk *filter.UnknownCommandError
	if !errors.As(err, &unk) || unk.Suggestion != "blur" {
		t.Fatalf("expected suggestion blur, got %v", err)
	}
	if _, err := NormalizeArgs(nil, "blur", nil); err == nil {
		t.Fatal("expected error for nil store")
	}
}

func TestGenerateValidationRules(t *testing.T) {
	spec, err := filter.Lookup("baseColor")
	if err != nil {
		t.Fatal(err)
	}
	rules := GenerateValidationRules(spec)
	if rules["target"].Type != ParamTypeColor || rules["x"].Type != ParamTypeInt {
		t.Fatalf("rules = %+v", rules)
	}
	spec, _ = filter.Lookup("median")
	if r := GenerateValidationRules(spec)["radius"]; r.Min == nil || *r.Min != 0 || r.Max == nil || *r.Max != filter.MaxRadius {
		t.Fatalf("radius rule = %+v", r)
	}
	if got := GenerateTooltip(filter.CommandSpec{Name: "x"}); got != "No description No parameters." {
		t.Fatalf("tooltip = %q", got)
	}
}
