package main

import "testing"

func TestParseSteps(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    int
		wantErr bool
	}{
		{name: "default one", want: 1},
		{name: "explicit", args: []string{" 3 "}, want: 3},
		{name: "zero", args: []string{"0"}, wantErr: true},
		{name: "not a number", args: []string{"all"}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseSteps(tc.args)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %v", tc.args)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("unexpected steps: got %d want %d", got, tc.want)
			}
		})
	}
}

func TestParseVersionAndTarget(t *testing.T) {
	if _, err := parseVersion("-1"); err == nil {
		t.Fatalf("expected error for negative version")
	}
	if v, err := parseVersion("1"); err != nil || v != 1 {
		t.Fatalf("unexpected version parse: %d %v", v, err)
	}
	if _, err := parseTarget("abc"); err == nil {
		t.Fatalf("expected error for invalid target")
	}
}

func TestEnvBool(t *testing.T) {
	t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "true")
	if !envBool("DB_DISABLE_PREPARED_BINARY_RESULT") {
		t.Fatalf("expected true")
	}
	t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "nope")
	if envBool("DB_DISABLE_PREPARED_BINARY_RESULT") {
		t.Fatalf("expected false for unparsable value")
	}
}
