package app

import (
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/kbukum/datafixture/config"
	"github.com/kbukum/datafixture/errors"
	"github.com/kbukum/datafixture/fixture"
)

func TestResolvePaths(t *testing.T) {
	full := config.FixturesConfig{
		Paths:  []string{"fixtures/"},
		Groups: map[string][]string{"default": {"fixtures/base/"}, "demo": {"fixtures/base/", "fixtures/demo/"}},
	}
	pathsOnly := config.FixturesConfig{Paths: []string{"fixtures/", "fixtures/"}}

	tests := []struct {
		name  string
		flags []string
		group string
		cfg   config.FixturesConfig
		want  Selection
	}{
		{
			name:  "flags win over group",
			flags: []string{"a.yaml", "a.yaml", " ", "b/"},
			group: "demo",
			cfg:   full,
			want:  Selection{Paths: []string{"a.yaml", "b/"}},
		},
		{
			name:  "configured group",
			group: "demo",
			cfg:   full,
			want:  Selection{Paths: []string{"fixtures/base/", "fixtures/demo/"}, Label: "Loading [ demo ] group."},
		},
		{
			name:  "group name is case-insensitive",
			group: "DEMO",
			cfg:   full,
			want:  Selection{Paths: []string{"fixtures/base/", "fixtures/demo/"}, Label: "Loading [ DEMO ] group."},
		},
		{
			name:  "unmapped group filters default paths",
			group: "admin",
			cfg:   full,
			want:  Selection{Paths: []string{"fixtures/base/"}, Group: "admin", Label: "Loading [ admin ] group."},
		},
		{
			name: "default group",
			cfg:  full,
			want: Selection{Paths: []string{"fixtures/base/"}, Label: "Loading [ default ] group."},
		},
		{
			name: "configured paths",
			cfg:  pathsOnly,
			want: Selection{Paths: []string{"fixtures/"}, Label: "Loading path from configuration file."},
		},
		{
			name:  "unmapped group with only paths",
			group: "admin",
			cfg:   pathsOnly,
			want:  Selection{Paths: []string{"fixtures/"}, Group: "admin", Label: "Loading [ admin ] group."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePaths(tt.flags, tt.group, tt.cfg)
			if err != nil {
				t.Fatalf("ResolvePaths() error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ResolvePaths() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolvePaths_NothingConfigured(t *testing.T) {
	for _, group := range []string{"", "demo"} {
		_, err := ResolvePaths([]string{" "}, group, config.FixturesConfig{})
		var nf *fixture.NoFixturesFoundError
		if !stderrors.As(err, &nf) {
			t.Fatalf("group %q: error = %v, want NoFixturesFoundError", group, err)
		}
		if code := errors.ExitCode(err); code != errors.ExitNoFixtures {
			t.Errorf("group %q: exit code = %d", group, code)
		}
	}
}
