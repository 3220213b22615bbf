package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/XiaoConstantine/textevolve/pkg/cache"
	"github.com/XiaoConstantine/textevolve/pkg/config"
	"github.com/XiaoConstantine/textevolve/pkg/evolve"
	"github.com/XiaoConstantine/textevolve/pkg/logging"
)

const defaultGoal = "SKYNET IS NOW ONLINE"

var (
	configPath  string
	seed        int64
	generations int
	population  int
	metric      string
	symbols     string
	cachePath   string
	earlyStop   bool
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "evolvetext [goal]",
	Short: "Evolve a random population of symbol strings toward a goal text",
	Long: `evolvetext runs a genetic algorithm over strings of uppercase letters
and spaces: tournament selection, two-point crossover, and point mutations,
with fitness measured as a memoized distance to the goal text.

Pass the goal as the single argument, or omit it for the default. Every
run is deterministic for a fixed seed and configuration.`,
	Args: cobra.MaximumNArgs(1),
	RunE: run,

	SilenceUsage: true,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	flags.Int64Var(&seed, "seed", 0, "random seed (overrides config)")
	flags.IntVarP(&generations, "generations", "g", 0, "number of generations (overrides config)")
	flags.IntVarP(&population, "population", "p", 0, "population size (overrides config)")
	flags.StringVar(&metric, "metric", "", "distance metric: levenshtein or weighted")
	flags.StringVar(&symbols, "symbols", "", "alphabet the goal and individuals draw from")
	flags.StringVar(&cachePath, "cache-path", "", "persist the distance memo table to this SQLite file")
	flags.BoolVar(&earlyStop, "early-stop", false, "stop once an individual matches the goal")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log every fitness evaluation")
}

func run(cmd *cobra.Command, args []string) error {
	goal := defaultGoal
	if len(args) == 1 {
		goal = args[0]
	}

	manager, err := config.NewManager(config.WithConfigPath(configPath))
	if err != nil {
		return err
	}
	if err := manager.Load(); err != nil {
		return err
	}
	cfg := manager.Get()
	applyFlagOverrides(cmd, cfg)

	logging.SetLogger(logging.NewLogger(logging.Config{
		Severity: logging.ParseSeverity(strings.ToUpper(cfg.Logging.Level)),
		Outputs: []logging.Output{
			logging.NewConsoleOutput(true, logging.WithColor(cfg.Logging.Color)),
		},
	}))

	alphabet, err := cfg.Alphabet()
	if err != nil {
		return err
	}

	memo, err := cache.NewCache(cfg.Cache)
	if err != nil {
		return fmt.Errorf("failed to open memo cache: %w", err)
	}
	defer memo.Close()

	engine, err := evolve.NewEngineWithCache(goal, alphabet, &cfg.Evolution, memo)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := engine.Run(ctx)
	if err != nil {
		return err
	}

	printStats(result.Stats)
	printSummary(result, engine.MemoStats())
	return nil
}

// applyFlagOverrides layers explicitly-set flags over the loaded config,
// so a flag wins over both the file and the environment.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Evolution.Seed = seed
	}
	if flags.Changed("generations") {
		cfg.Evolution.Generations = generations
	}
	if flags.Changed("population") {
		cfg.Evolution.PopulationSize = population
	}
	if flags.Changed("metric") {
		cfg.Evolution.DistanceMetric = evolve.Metric(metric)
	}
	if flags.Changed("symbols") {
		cfg.Symbols = symbols
	}
	if flags.Changed("early-stop") {
		cfg.Evolution.EarlyStop = earlyStop
	}
	if flags.Changed("verbose") {
		cfg.Evolution.Verbose = verbose
	}
	if flags.Changed("cache-path") {
		cfg.Cache.Type = "sqlite"
		cfg.Cache.SQLiteConfig.Path = cachePath
	}
}

func printStats(stats []evolve.GenerationStats) {
	fmt.Printf("%-6s %-8s %-10s %-10s %-8s %-8s\n", "gen", "evals", "mean", "std", "min", "max")
	for _, s := range stats {
		fmt.Printf("%-6d %-8d %-10.2f %-10.2f %-8.0f %-8.0f\n",
			s.Generation, s.Evaluated, s.Mean, s.StdDev, s.Min, s.Max)
	}
}

func printSummary(result *evolve.Result, memo cache.CacheStats) {
	fitness, _ := result.Best.Fitness()
	fmt.Printf("\nBest individual after %d generations: %q (distance %.0f)\n",
		result.Generations, result.Best.Text(), fitness)
	fmt.Printf("Distance memo: %d entries, %d hits, %d misses\n",
		memo.Entries, memo.Hits, memo.Misses)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
