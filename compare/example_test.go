package compare_test

import (
	"fmt"

	"github.com/katalvlaran/fbctest/compare"
	"github.com/katalvlaran/fbctest/fba"
)

// ExampleInTol shows that the absolute bound always applies, that values
// of opposite sign also need the relative bound, and how absent values
// compare.
func ExampleInTol() {
	tol := compare.Tolerance{Absolute: 1e-6, Relative: 1e-3}

	fmt.Println(compare.InTol(fba.Some(1), fba.Some(1.0000005), tol))
	fmt.Println(compare.InTol(fba.Some(1000), fba.Some(1000.5), tol))
	fmt.Println(compare.InTol(fba.Some(4e-7), fba.Some(-5e-7), tol))
	fmt.Println(compare.InTol(fba.None(), fba.None(), tol))
	fmt.Println(compare.InTol(fba.None(), fba.Some(0), tol))
	// Output:
	// true
	// false
	// false
	// true
	// false
}
