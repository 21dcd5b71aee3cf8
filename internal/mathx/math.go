package mathx

func AbsInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
