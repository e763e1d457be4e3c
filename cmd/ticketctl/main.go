// Command ticketctl signs in to the ticket API and lists or creates
// tickets from a terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/FACorreiaa/go-ticketing/internal/app/client"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2

	defaultAPI = "http://localhost:3000"
)

var errNotLoggedIn = errors.New("not logged in")

const usage = `Usage: ticketctl [--api URL] [--token-file PATH] [--verbose] <command> [flags]

Commands:
  login      --email EMAIL --password PASSWORD
  register   --name NAME --email EMAIL --password PASSWORD
  logout
  list
  create     --from CITY --to CITY --departure 2006-01-02T15:04 --price AMOUNT [--tz ZONE]
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type cli struct {
	api       string
	tokenFile string
	verbose   bool

	stdout io.Writer
	stderr io.Writer
	logger *zap.Logger

	clientOpts []client.Option
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, opts ...client.Option) int {
	c := &cli{stdout: stdout, stderr: stderr, clientOpts: opts}

	flags := pflag.NewFlagSet("ticketctl", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.SetInterspersed(false)
	flags.StringVar(&c.api, "api", envOr("API_BASE_URL", defaultAPI), "ticket API base URL")
	flags.StringVar(&c.tokenFile, "token-file", defaultSessionPath(), "where the credential is stored")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log API calls to stderr")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprint(stdout, usage)
			return exitOK
		}
		fmt.Fprintf(stderr, "%v\n\n%s", err, usage)
		return exitUsage
	}
	if flags.NArg() == 0 {
		fmt.Fprint(stderr, usage)
		return exitUsage
	}

	c.logger = zap.NewNop()
	if c.verbose {
		c.logger = newVerboseLogger(stderr)
	}

	command, rest := flags.Arg(0), flags.Args()[1:]
	var err error
	switch command {
	case "login":
		err = c.login(ctx, rest)
	case "register":
		err = c.register(ctx, rest)
	case "logout":
		err = c.logout()
	case "list":
		err = c.list(ctx)
	case "create":
		err = c.create(ctx, rest)
	case "help":
		fmt.Fprint(stdout, usage)
		return exitOK
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", command, usage)
		return exitUsage
	}

	var ue usageError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &ue):
		fmt.Fprintf(stderr, "%s: %v\n", command, err)
		return exitUsage
	default:
		fmt.Fprintf(stderr, "%v\n", err)
		return exitError
	}
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

// newVerboseLogger writes debug logs to w, keeping stdout for command
// output.
func newVerboseLogger(w io.Writer) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), zapcore.DebugLevel)
	return zap.New(core).Named("ticketctl")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
