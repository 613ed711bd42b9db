// barterctl: консольный клиент биржи бартера.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/ignatzorin/barter-backend/pkg/client"
)

// app: общее состояние одного запуска.
type app struct {
	out         io.Writer
	api         *client.Client
	session     *session
	sessionPath string
}

type command struct {
	name    string
	usage   string
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			fmt.Fprintf(os.Stderr, "ошибка: %s\n", apiErr.Message)
		} else {
			fmt.Fprintf(os.Stderr, "ошибка: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	var server, sessionPath string

	global := pflag.NewFlagSet("barterctl", pflag.ContinueOnError)
	global.SetInterspersed(false)
	global.SetOutput(io.Discard)
	global.StringVar(&server, "server", os.Getenv("BARTER_SERVER"), "адрес API (по умолчанию из сессии или http://localhost:8080)")
	global.StringVar(&sessionPath, "session", "", "файл сессии (по умолчанию ~/"+sessionFileName+")")
	help := global.BoolP("help", "h", false, "справка")

	if err := global.Parse(args); err != nil {
		return err
	}
	rest := global.Args()
	if *help || len(rest) == 0 {
		printUsage(out, global)
		return nil
	}

	cmd, ok := commands()[rest[0]]
	if !ok {
		printUsage(out, global)
		return fmt.Errorf("неизвестная команда %q", rest[0])
	}

	if sessionPath == "" {
		path, err := defaultSessionPath()
		if err != nil {
			return err
		}
		sessionPath = path
	}
	sess, err := loadSession(sessionPath)
	if err != nil {
		return err
	}
	switch {
	case server != "":
	case sess.Server != "":
		server = sess.Server
	default:
		server = "http://localhost:8080"
	}
	sess.Server = server

	a := &app{
		out:         out,
		api:         client.New(server, client.WithToken(sess.Token)),
		session:     sess,
		sessionPath: sessionPath,
	}
	return cmd.run(ctx, a, rest[1:])
}

func printUsage(w io.Writer, global *pflag.FlagSet) {
	fmt.Fprintln(w, "Использование: barterctl [--server URL] <команда> [флаги]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Команды:")

	all := commands()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := newTable(w)
	for _, name := range names {
		fmt.Fprintf(tw, "  %s\t%s\n", all[name].usage, all[name].summary)
	}
	_ = tw.Flush()

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Общие флаги:")
	fmt.Fprint(w, global.FlagUsages())
}
