// Command sphere runs the epoch engine against the classic sphere function
// (sum of squares, minimized at the origin), demonstrating engine.New and
// World.TrainingRun end to end. It is the module's equivalent of a runnable
// experiment driver, in the spirit of the teacher's xor_runner.go.
package main

import (
	"fmt"
	"math"
	"os"

	"github.com/cainem/hill-descent-sub001/dimension"
	"github.com/cainem/hill-descent-sub001/engine"
	"github.com/cainem/hill-descent-sub001/export"
	"github.com/cainem/hill-descent-sub001/organism"
)

func sphere(params []float64, _ int) float64 {
	sum := 0.0
	for _, v := range params {
		sum += v * v
	}
	return sum
}

func main() {
	configPath, maxEpochs, npyOutPath := "./data/sphere.yml", 200, ""
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	if len(os.Args) > 2 {
		npyOutPath = os.Args[2]
	}

	opts, err := engine.ReadOptionsFromFile(configPath)
	if err != nil {
		fmt.Println("failed to load engine options, falling back to built-in defaults:")
		fmt.Println(err)
		opts = defaultOptions()
	}

	world, err := engine.New(opts, organism.FitnessFunc(sphere), engine.DefaultVectorFactory(opts.MutationPower))
	if err != nil {
		fmt.Println("failed to create engine:")
		fmt.Println(err)
		os.Exit(1)
	}
	defer world.Close()

	for i := 0; i < maxEpochs; i++ {
		halted, err := world.TrainingRun(0)
		if err != nil {
			fmt.Println("training run failed:")
			fmt.Println(err)
			os.Exit(1)
		}
		if halted {
			fmt.Printf("resolution limit reached after %d epochs\n", i+1)
			break
		}
	}

	snap := world.Snapshot()
	fmt.Printf("best score: %v\n", world.BestScore())
	fmt.Printf("best params: %v\n", world.BestParams())
	fmt.Printf("final population: %d across %d regions (mean=%v stddev=%v)\n",
		snap.Population, snap.RegionCount, snap.ScoreMean, snap.ScoreStdDev)

	if npyOutPath != "" {
		f, err := os.Create(npyOutPath)
		if err != nil {
			fmt.Println("failed to open npy output file:")
			fmt.Println(err)
			os.Exit(1)
		}
		defer f.Close()
		if err := export.WriteBestParamsNPY(f, world.BestParams()); err != nil {
			fmt.Println("failed to export best params:")
			fmt.Println(err)
			os.Exit(1)
		}
	}
}

func defaultOptions() *engine.Options {
	return &engine.Options{
		WorldSeed:         42,
		WorkerCount:       8,
		MaxAge:            100,
		InitialPopulation: 64,
		TotalCapacity:     64,
		MinQ:              1e-4,
		FloorScore:        math.Inf(-1),
		CapacityEpsilon:   1e-9,
		MutationPower:     0.2,
		LogLevel:          "info",
		Bounds: []dimension.Dimension{
			{Lo: -10, Hi: 10, Q: 0.5},
			{Lo: -10, Hi: 10, Q: 0.5},
			{Lo: -10, Hi: 10, Q: 0.5},
		},
	}
}
