package conv

import (
	"fmt"
	"math"
)

// Integer is the set of built-in integer types.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Narrow converts v to To, failing if the value is not representable.
func Narrow[To, From Integer](v From) (To, error) {
	t := To(v)
	if From(t) != v || (t < 0) != (v < 0) {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to %T", v, t)
	}
	return t, nil
}

// MulInt multiplies non-negative ints, failing on overflow.
func MulInt(factors ...int) (int, error) {
	product := 1
	for _, f := range factors {
		if f < 0 {
			return 0, fmt.Errorf("integer overflow: negative factor %d", f)
		}
		if f != 0 && product > math.MaxInt/f {
			return 0, fmt.Errorf("integer overflow: product of %v exceeds int", factors)
		}
		product *= f
	}
	return product, nil
}

// AddInt sums non-negative ints, failing on overflow.
func AddInt(terms ...int) (int, error) {
	sum := 0
	for _, t := range terms {
		if t < 0 {
			return 0, fmt.Errorf("integer overflow: negative term %d", t)
		}
		if sum > math.MaxInt-t {
			return 0, fmt.Errorf("integer overflow: sum of %v exceeds int", terms)
		}
		sum += t
	}
	return sum, nil
}
