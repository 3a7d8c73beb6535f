package pipeline

// Permutations returns every ordering of values, generated with Heap's
// algorithm. Each returned slice is independent.
func Permutations(values []int64) [][]int64 {
	a := append([]int64(nil), values...)
	out := [][]int64{append([]int64(nil), a...)}

	c := make([]int, len(a))
	for i := 1; i < len(a); {
		if c[i] < i {
			if i%2 == 0 {
				a[0], a[i] = a[i], a[0]
			} else {
				a[c[i]], a[i] = a[i], a[c[i]]
			}
			out = append(out, append([]int64(nil), a...))
			c[i]++
			i = 1
			continue
		}
		c[i] = 0
		i++
	}
	return out
}

// Range returns the values lo through hi inclusive.
func Range(lo, hi int64) []int64 {
	if hi < lo {
		return nil
	}
	out := make([]int64, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		out = append(out, v)
	}
	return out
}
