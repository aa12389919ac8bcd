// actorpath inspects actor paths and runs a naming node.
//
// Usage:
//
//	actorpath render <path> [--address ADDR] [--serialization] [--uid N]
//	actorpath compare <a> <b>
//	actorpath elements <path>
//	actorpath run [--config FILE] [--watch]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/najoast/actorpath/bootstrap"
	"github.com/najoast/actorpath/config"
	"github.com/najoast/actorpath/core"
	"github.com/najoast/actorpath/logging"
)

// errUsage marks errors caused by bad invocation
var errUsage = errors.New("usage")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		printHelp(stdout)
		return fmt.Errorf("%w: missing command", errUsage)
	}

	switch command, rest := args[0], args[1:]; command {
	case "render":
		return runRender(rest, stdout)
	case "compare":
		return runCompare(rest, stdout)
	case "elements":
		return runElements(rest, stdout)
	case "run":
		return runNode(ctx, rest)
	case "help", "-h", "--help":
		printHelp(stdout)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func printHelp(w io.Writer) {
	fmt.Fprint(w, `actorpath inspects actor paths and runs a naming node.

Commands:
  render <path>      print a path, optionally re-addressed or in serialization form
  compare <a> <b>    order two paths
  elements <path>    print the element names of a path, one per line
  run                run a naming node until interrupted
`)
}

// parseFlags parses a subcommand's flags and checks its positional
// argument count.
func parseFlags(flagSet *pflag.FlagSet, args []string, positional int) ([]string, error) {
	if err := flagSet.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}
	if flagSet.NArg() != positional {
		return nil, fmt.Errorf("%w: %s takes %d argument(s), got %d", errUsage, flagSet.Name(), positional, flagSet.NArg())
	}
	return flagSet.Args(), nil
}

func runRender(args []string, stdout io.Writer) error {
	var address string
	var serialization bool
	var uid int64

	flagSet := pflag.NewFlagSet("render", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&address, "address", "", "render against this address, e.g. akka://sys@host:2552")
	flagSet.BoolVar(&serialization, "serialization", false, "use the serialization format")
	flagSet.Int64Var(&uid, "uid", core.UndefinedUID, "append #uid (overrides a uid in the path)")

	positional, err := parseFlags(flagSet, args, 1)
	if err != nil {
		return err
	}

	path, parsedUID, err := core.ParsePath(positional[0])
	if err != nil {
		return err
	}
	if !flagSet.Changed("uid") {
		uid = parsedUID
	}

	if address != "" {
		if flagSet.Changed("uid") {
			return fmt.Errorf("%w: --uid cannot be combined with --address", errUsage)
		}
		addr, err := core.ParseAddress(address)
		if err != nil {
			return err
		}
		if serialization {
			fmt.Fprintln(stdout, path.SerializationFormatWithAddress(addr))
		} else {
			fmt.Fprintln(stdout, path.StringWithAddress(addr))
		}
		return nil
	}

	switch {
	case uid != core.UndefinedUID:
		fmt.Fprintln(stdout, path.SerializationFormatWithUID(uid))
	case serialization:
		fmt.Fprintln(stdout, path.SerializationFormat())
	default:
		fmt.Fprintln(stdout, path.String())
	}
	return nil
}

func runCompare(args []string, stdout io.Writer) error {
	flagSet := pflag.NewFlagSet("compare", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	positional, err := parseFlags(flagSet, args, 2)
	if err != nil {
		return err
	}

	a, _, err := core.ParsePath(positional[0])
	if err != nil {
		return err
	}
	b, _, err := core.ParsePath(positional[1])
	if err != nil {
		return err
	}

	op := "="
	switch c := a.Compare(b); {
	case c < 0:
		op = "<"
	case c > 0:
		op = ">"
	}
	fmt.Fprintf(stdout, "%s %s %s\n", a, op, b)
	return nil
}

func runElements(args []string, stdout io.Writer) error {
	flagSet := pflag.NewFlagSet("elements", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	positional, err := parseFlags(flagSet, args, 1)
	if err != nil {
		return err
	}

	path, _, err := core.ParsePath(positional[0])
	if err != nil {
		return err
	}
	for _, element := range path.Elements() {
		fmt.Fprintln(stdout, element)
	}
	return nil
}

func runNode(ctx context.Context, args []string) error {
	var configFile string
	var watch bool

	flagSet := pflag.NewFlagSet("run", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVarP(&configFile, "config", "c", "", "configuration file (searched for when empty)")
	flagSet.BoolVar(&watch, "watch", false, "reload the configuration file on change")

	if _, err := parseFlags(flagSet, args, 0); err != nil {
		return err
	}
	if watch && configFile == "" {
		return fmt.Errorf("%w: --watch requires --config", errUsage)
	}

	cfg, err := config.NewLoader().Load(configFile)
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()
	slog.SetDefault(logger)

	app, err := bootstrap.NewApplication(cfg, bootstrap.Options{
		ConfigFile: configFile,
		Watch:      watch,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	return app.Run(ctx)
}
