package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"crosslight/config"
	"crosslight/core"
	"crosslight/sim"
)

var (
	cfgPath = flag.String("config", "", "Controller config file (empty = defaults)")
	speed   = flag.Int("speed", 10, "Time compression factor")
	traced  = flag.Bool("trace", false, "Print controller trace lines")
)

func main() {
	flag.Parse()

	fmt.Println("Crosslight Sim - Desktop Controller Simulator")
	fmt.Println("=============================================")
	fmt.Println()

	cfg := config.Default()
	if *cfgPath != "" {
		data, err := os.ReadFile(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to read config: %v\n", err)
			os.Exit(1)
		}
		cfg, err = config.Load(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Invalid config: %v\n", err)
			os.Exit(1)
		}
	}

	if *traced {
		core.SetTraceWriter(func(s string) { fmt.Print(s) })
		core.InitAsyncTrace()
	}

	s, err := sim.New(cfg, os.Stdout, *speed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	fmt.Println("Enter commands (type 'help' for available commands, 'quit' to exit):")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]

		switch cmd {
		case "quit", "exit", "q":
			cancel()
			<-done
			fmt.Println("Goodbye!")
			return

		case "help", "?":
			printHelp()

		case "mode":
			if len(parts) < 2 {
				fmt.Println("Usage: mode <normal|flash|priority_a|priority_b>")
				continue
			}
			m, ok := parseMode(parts[1:])
			if !ok {
				fmt.Printf("Unknown mode: %s\n", strings.Join(parts[1:], " "))
				continue
			}
			s.SetMode(m)
			fmt.Printf("Selector moved to %s\n", m)

		case "call":
			if len(parts) != 2 || (parts[1] != "a" && parts[1] != "b") {
				fmt.Println("Usage: call <a|b>")
				continue
			}
			lane := core.LaneA
			if parts[1] == "b" {
				lane = core.LaneB
			}
			s.PressCall(lane)
			fmt.Printf("Call button pressed on lane %s\n", strings.ToUpper(parts[1]))

		default:
			fmt.Printf("Unknown command: %s (type 'help' for available commands)\n", cmd)
		}
	}

	cancel()
	<-done

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
}

// parseMode resolves the arguments of a mode command. Both the one-token
// form ("priority_a") and the spelled-out form ("priority A") work.
func parseMode(args []string) (core.Mode, bool) {
	return core.ModeByName(strings.Join(args, " "))
}

func printHelp() {
	fmt.Println("\nAvailable commands:")
	fmt.Println("  help           - Show this help message")
	fmt.Println("  mode <name>    - Move the mode selector")
	fmt.Println("  call <a|b>     - Press a pedestrian call button")
	fmt.Println("  quit/exit/q    - Exit the program")
	fmt.Println()
}
