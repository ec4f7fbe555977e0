package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	json "github.com/goccy/go-json"

	"userfeed/internal/client"
	"userfeed/internal/config"
	"userfeed/internal/logging"
	"userfeed/internal/service"
)

type cli struct {
	Endpoint string        `help:"Users list endpoint." env:"USERS_ENDPOINT" default:"${endpoint}"`
	Timeout  time.Duration `help:"Request timeout. Zero keeps the platform default." default:"0s"`
	Sticky   bool          `help:"Leave the loading flag set when the fetch fails."`
	Indent   bool          `help:"Pretty-print the resulting state."`
}

func parserOptions() []kong.Option {
	return []kong.Option{
		kong.Name("userfeed"),
		kong.Description("Fetch the users list once and print the resulting feed state as JSON."),
		kong.Vars{"endpoint": config.DefaultUsersEndpoint},
		kong.UsageOnError(),
	}
}

func main() {
	var args cli
	kong.Parse(&args, parserOptions()...)

	log := logging.New(os.Stderr, time.UTC)

	if _, err := client.ParseEndpoint(args.Endpoint); err != nil {
		log.Error("invalid_endpoint", logging.Fields{"endpoint": args.Endpoint, "error": err})
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	feed := service.NewUserFeed(client.New(args.Endpoint, args.Timeout), service.Options{
		StickyLoading: args.Sticky,
		Logger:        log,
	})
	defer feed.Close()

	feed.FetchUsers(ctx)
	state := feed.State()

	var (
		out []byte
		err error
	)
	if args.Indent {
		out, err = json.MarshalIndent(state, "", "  ")
	} else {
		out, err = json.Marshal(state)
	}
	if err != nil {
		log.Error("encode_state_failed", logging.Fields{"error": err})
		os.Exit(1)
	}
	os.Stdout.Write(append(out, '\n'))

	if state.Failure != "" {
		feed.Close()
		os.Exit(1)
	}
}
