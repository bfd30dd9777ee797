package model_test

import (
	"fmt"

	"github.com/katalvlaran/fbctest/model"
)

func ExampleParseGPR() {
	rule, err := model.ParseGPR("(g1 and g2) or g3")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	without := func(off ...string) func(string) bool {
		return func(g string) bool {
			for _, o := range off {
				if g == o {
					return false
				}
			}
			return true
		}
	}
	fmt.Println(rule.Eval(without("g1")))
	fmt.Println(rule.Eval(without("g1", "g3")))
	// Output:
	// true
	// false
}

func ExampleParseFormula() {
	f, err := model.ParseFormula("Ca(OH)2")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(f)
	// Output:
	// CaH2O2
}
