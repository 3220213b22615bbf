// Package textevolve evolves strings of symbols toward a goal text with a
// genetic algorithm: tournament selection, two-point crossover, and point
// mutations, with fitness measured as a memoized distance to the goal.
//
// Key Components:
//
//   - evolve: The engine and its operators. An Engine owns a population of
//     Individuals and drives the generational loop; Distancer computes the
//     memoized fitness metric; SelectTournament, Crossover, and Mutate are
//     the variation primitives.
//
//   - cache: Backends for the distance memo table. The memory backend is
//     scoped to one process; the SQLite backend persists entries across
//     runs, so repeated experiments against the same goal skip recomputation.
//
//   - config: Layered configuration (defaults, YAML files, environment
//     variables) with struct-tag validation.
//
//   - errors: Structured errors with codes and fields.
//
//   - logging: Leveled structured logging.
//
// Example usage:
//
//	alphabet := evolve.DefaultAlphabet()
//	engine, err := evolve.NewEngine("HELLO WORLD", alphabet, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer engine.Close()
//
//	result, err := engine.Run(context.Background())
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(result.Best.Text())
//
// Runs are deterministic: the same seed, goal, and configuration always
// produce the same population and statistics log.
package textevolve
