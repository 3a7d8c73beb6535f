package vm

// addInt64 returns a+b and whether the sum fits in an int64.
func addInt64(a, b int64) (int64, bool) {
	c := a + b
	if (c > a) != (b > 0) {
		return c, false
	}
	return c, true
}

// mulInt64 returns a*b and whether the product fits in an int64.
func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	c := a * b
	if (c < 0) != ((a < 0) != (b < 0)) {
		return c, false
	}
	if c/b != a {
		return c, false
	}
	return c, true
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
