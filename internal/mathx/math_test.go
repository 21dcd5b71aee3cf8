package mathx

import "testing"

func TestAbsInt(t *testing.T) {
	cases := map[int]int{0: 0, 3: 3, -3: 3, -2147483648: 2147483648}
	for in, want := range cases {
		if got := AbsInt(in); got != want {
			t.Fatalf("AbsInt(%d) = %d, want %d", in, got, want)
		}
	}
}
