package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pthm-cable/goodshot/explorer"
	"github.com/pthm-cable/goodshot/telemetry"
)

// ErrUnknownCommand is returned by Exec for commands it does not know.
var ErrUnknownCommand = errors.New("game: unknown command")

// Exec runs one console command line. Output goes to the console writer.
func (g *Game) Exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "goodshot":
		if len(args) > 0 && strings.EqualFold(args[0], "stop") {
			if !g.explorer.Stop() {
				g.printf("goodshot is not running\n")
			}
			return nil
		}
		g.startSweep()
	case "printscenecomplexity":
		g.printf("Current scene complexity: %d\n", g.complexity)
	case "printrenderstats":
		g.printf("Overall scene complexity: %d\n", g.complexity)
	case "bench":
		if g.bench.Request(g.now(), g.showFPS) {
			g.showFPS = true
		}
	case "stat":
		if len(args) == 0 {
			g.printf("Usage: stat <rendertimes|renderstats|lightstats>\n")
			return nil
		}
		kind, ok := telemetry.ReportKindByName(strings.ToLower(args[0]))
		if !ok {
			g.printf("Unknown stat: %s\n", args[0])
			return nil
		}
		g.shown[kind] = !g.shown[kind]
	case "fps":
		g.showFPS = !g.showFPS
	case "currentpos":
		g.printf("%s", explorer.PositionReport(g.view()))
	case "resetstats":
		g.stats.ResetAll()
	case "quit", "exit":
		g.shutdown = true
	default:
		g.printf("Unknown command \"%s\"\n", cmd)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
	return nil
}

// ExecAll runs a semicolon separated list of commands, stopping at the first
// unknown one.
func (g *Game) ExecAll(script string) error {
	for _, line := range strings.Split(script, ";") {
		if err := g.Exec(line); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) startSweep() {
	err := g.explorer.Start(g.explorerMap())
	switch {
	case errors.Is(err, explorer.ErrNoLevel):
		g.printf("You can only run goodshot inside a level.\n")
	case errors.Is(err, explorer.ErrBusy):
		g.printf("goodshot is already running\n")
	}
}

// ShownReports returns the text of every active stat display.
func (g *Game) ShownReports() []string {
	var out []string
	for _, kind := range []telemetry.ReportKind{telemetry.ReportTimes, telemetry.ReportPrimitives, telemetry.ReportLights} {
		if g.shown[kind] {
			out = append(out, g.reports.Report(kind))
		}
	}
	return out
}

func (g *Game) printf(format string, args ...any) {
	fmt.Fprintf(g.console, format, args...)
}
