package network_test

import (
	"fmt"

	"github.com/katalvlaran/fbctest/model"
	"github.com/katalvlaran/fbctest/model/modeltest"
	"github.com/katalvlaran/fbctest/network"
)

// ExampleReach expands the toy network from its medium. Hexokinase needs
// ATP, which nothing in the medium provides, so expansion stops at glc_c.
func ExampleReach() {
	m, err := model.New("toy",
		model.WithMetabolites(modeltest.Metabolites()...),
		model.WithReactions(modeltest.Reactions()...),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	res, err := network.Reach(m)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(res.Order)
	// Output:
	// [reaction:EX_glc reaction:EX_pi metabolite:glc_e metabolite:pi_c reaction:GLCt metabolite:glc_c]
}

// ExampleUnreachableMetabolites seeds ATP as a cofactor so glycolysis can
// start, then limits the expansion depth.
func ExampleUnreachableMetabolites() {
	m, err := model.New("toy",
		model.WithMetabolites(modeltest.Metabolites()...),
		model.WithReactions(modeltest.Reactions()...),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	all, _ := network.UnreachableMetabolites(m)
	seeded, _ := network.UnreachableMetabolites(m, network.WithSeeds("atp_c"))
	shallow, _ := network.UnreachableMetabolites(m, network.WithSeeds("atp_c"), network.WithMaxDepth(3))
	fmt.Println(all)
	fmt.Println(seeded)
	fmt.Println(shallow)
	// Output:
	// [g6p_c pyr_c atp_c adp_c]
	// []
	// [g6p_c pyr_c]
}
