package planner

import "testing"

func TestBaseLineCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"18", "18"},
		{"18 IDA", "18"},
		{"18 VUELTA", "18"},
		{"210 RETORNO", "210"},
		{"506 A", "506"},
		{"506 B", "506"},
		{"207-IDA", "207"},
		{"207-VUELTA", "207"},
		{"  18 ida  ", "18"},
		{"18 A B", "18"},
		{"CAMINAR", "CAMINAR"},
		{"", ""},
	}
	for _, c := range cases {
		if got := BaseLineCode(c.in); got != c.want {
			t.Errorf("BaseLineCode(%q) = %q, esperaba %q", c.in, got, c.want)
		}
	}
}

func TestBaseLineCodeIdempotent(t *testing.T) {
	inputs := []string{"18", "18 IDA", "506 A B", "207-VUELTA", "301 IDA VUELTA"}
	for _, in := range inputs {
		once := BaseLineCode(in)
		twice := BaseLineCode(once)
		if once != twice {
			t.Errorf("BaseLineCode no es idempotente para %q: %q != %q", in, once, twice)
		}
	}
}
