// SPDX-License-Identifier: Unlicense OR MIT

package uthread

import "testing"

func TestFormatIDs(t *testing.T) {
	cases := []struct {
		ids  []int
		want string
	}{
		{nil, "[]"},
		{[]int{}, "[]"},
		{[]int{5}, "[5]"},
		{[]int{1, 2, 3}, "[1,2,3]"},
	}
	for _, c := range cases {
		if got := formatIDs(c.ids); got != c.want {
			t.Errorf("formatIDs(%v) = %q, want %q", c.ids, got, c.want)
		}
	}
}

func TestDumpBeforeInit(t *testing.T) {
	if lib != nil {
		t.Skip("library already initialized by another test")
	}
	if got := Dump(); got != "uthread: not initialized" {
		t.Errorf("Dump() = %q before Init", got)
	}
}
