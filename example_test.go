package gmmgo_test

import (
	"context"
	"fmt"
	"log"

	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/gmmgo"
	"github.com/hupe1980/gmmgo/model"
)

func Example() {
	weights := []float64{0.5, 0.5}
	means := mat.NewDense(2, 2, []float64{
		-5, -5,
		5, 5,
	})
	variances := mat.NewDense(2, 2, []float64{
		1, 1,
		1, 1,
	})

	m, err := model.NewDiagonal(weights, means, variances)
	if err != nil {
		log.Fatal(err)
	}

	// Two frames, one sitting on each component mean.
	x := mat.NewDense(2, 2, []float64{
		-5, -5,
		5, 5,
	})

	stats, err := gmmgo.ReduceMatrix(context.Background(), m, x, gmmgo.SecondOrder)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("frames: %d\n", stats.Frames)
	fmt.Printf("occupancy: [%.2f %.2f]\n", stats.Occupancy[0], stats.Occupancy[1])
	// Output:
	// frames: 2
	// occupancy: [1.00 1.00]
}
