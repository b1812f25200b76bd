/*
Package runner implements the terminal playback loop for dialogue graphs.

It acts as the bridge between the playback engine (player.Engine) and the outside
world. The runner manages session persistence and handles reader input/output
through pluggable handlers.

# Key Components

  - Runner: The loop that feeds commands to the engine and persists each step.
  - IOHandler: Decouples how views are shown and commands are read (CLI, JSON, etc.).
  - TextHandler: A standard implementation for interactive CLI usage.
  - JSONHandler: JSON-Lines views out, JSON commands in, for scripting.

# Usage

	r := runner.NewRunner(
		runner.WithSessionID("reader-1"),
		runner.WithStore(store),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	if err := r.Run(ctx, graph, "1"); err != nil {
		log.Fatal(err)
	}
*/
package runner
