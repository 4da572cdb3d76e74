package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-errors/errors"
	"github.com/jessevdk/go-flags"
	"github.com/kr/pretty"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"github.com/xlnfinance/xln-sub004/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

var (
	// Commit stores the current commit hash of this build. This should be set using -ldflags during compilation.
	commit string
	// Version stores the version string of this build. This should be set using -ldflags during compilation.
	version string
	// Stores the date of this build. This should be set using -ldflags during compilation.
	date string
)

var quoteFlags = []cli.Flag{
	cli.UintFlag{
		Name:  "token",
		Value: 1,
		Usage: "token id to route",
	},
	cli.UintFlag{
		Name:  "maxhops",
		Usage: "maximum hops per route, 0 uses the daemon default",
	},
	cli.UintFlag{
		Name:  "maxcandidates",
		Usage: "maximum candidate paths, 0 uses the daemon default",
	},
	cli.StringFlag{
		Name:  "rank",
		Value: "fee",
		Usage: "order routes by fee or hops",
	},
}

func connect(c *cli.Context) (rpc.RouterClient, func(), error) {
	conn, err := grpc.NewClient(c.GlobalString("rpcserver"),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, errors.Errorf("Could not connect to routed: %v", err)
	}

	return rpc.NewRouterClient(conn), func() { conn.Close() }, nil
}

func quoteRequest(c *cli.Context) (*rpc.QuoteRequest, error) {
	if c.NArg() != 3 {
		return nil, errors.Errorf("Expected [source] [destination] [amount], got %v arguments", c.NArg())
	}

	amount, err := parseUnits(c.Args().Get(2), c.GlobalInt("decimals"))
	if err != nil {
		return nil, err
	}

	return &rpc.QuoteRequest{
		Source:        c.Args().Get(0),
		Destination:   c.Args().Get(1),
		Token:         uint32(c.Uint("token")),
		Amount:        amount,
		MaxHops:       uint32(c.Uint("maxhops")),
		MaxCandidates: uint32(c.Uint("maxcandidates")),
		RankBy:        c.String("rank"),
	}, nil
}

func timeout(c *cli.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.GlobalDuration("timeout"))
}

// routeMain is the true entry point for route. This is required since defers
// created in the top-level scope of a main method aren't executed if os.Exit() is called.
func routeMain() error {
	app := cli.NewApp()
	app.Name = "route"
	app.Usage = "quote and pay through routed"
	app.EnableBashCompletion = true
	app.Version = version

	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Printf("version=%s commit=%s date=%s\n", version, commit, date)
	}

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rpcserver",
			Value: "localhost:5050",
		},
		cli.IntFlag{
			Name:  "decimals",
			Usage: "decimals of the token, amounts are read and shown in whole units",
		},
		cli.DurationFlag{
			Name:  "timeout",
			Value: 30 * time.Second,
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "dump full responses",
		},
	}

	app.Commands = []cli.Command{
		{
			Name:  "getinfo",
			Usage: "show daemon version and snapshot size",
			Action: func(c *cli.Context) error {
				client, done, err := connect(c)
				if err != nil {
					return err
				}
				defer done()

				ctx, cancel := timeout(c)
				defer cancel()

				res, err := client.GetInfo(ctx, &rpc.GetInfoRequest{})
				if err != nil {
					return errors.Errorf("Could not get info: %v", err)
				}

				fmt.Printf("version=%s commit=%s\n", res.Version, res.Commit)
				fmt.Printf("entities=%d profiles=%d loaded=%s\n", res.Entities, res.Profiles,
					time.Unix(res.LoadedAt, 0).UTC().Format(time.RFC3339))

				return nil
			},
		},
		{
			Name:      "quote",
			ArgsUsage: "[source] [destination] [amount]",
			Aliases:   []string{"q"},
			Usage:     "list routes from source to destination, best first",
			Flags:     quoteFlags,
			Action: func(c *cli.Context) error {
				req, err := quoteRequest(c)
				if err != nil {
					return err
				}

				client, done, err := connect(c)
				if err != nil {
					return err
				}
				defer done()

				ctx, cancel := timeout(c)
				defer cancel()

				res, err := client.QuoteRoutes(ctx, req)
				if err != nil {
					return errors.Errorf("Could not quote: %v", err)
				}

				if c.GlobalBool("verbose") {
					pretty.Println(res)
					return nil
				}

				decimals := c.GlobalInt("decimals")
				for i, route := range res.Routes {
					fmt.Println(formatRoute(i, route, decimals))
				}

				return nil
			},
		},
		{
			Name:      "pay",
			ArgsUsage: "[source] [destination] [amount]",
			Aliases:   []string{"p"},
			Usage:     "submit a payment along a quoted route",
			Flags: append([]cli.Flag{
				cli.UintFlag{
					Name:  "index",
					Usage: "index of the quoted route to use",
				},
				cli.BoolFlag{
					Name:  "simple",
					Usage: "submit without a hash lock",
				},
			}, quoteFlags...),
			Action: func(c *cli.Context) error {
				req, err := quoteRequest(c)
				if err != nil {
					return err
				}

				client, done, err := connect(c)
				if err != nil {
					return err
				}
				defer done()

				ctx, cancel := timeout(c)
				defer cancel()

				res, err := client.Pay(ctx, &rpc.PayRequest{
					Quote:      req,
					RouteIndex: uint32(c.Uint("index")),
					Atomic:     !c.Bool("simple"),
				})
				if err != nil {
					return errors.Errorf("Could not pay: %v", err)
				}

				if c.GlobalBool("verbose") {
					pretty.Println(res)
					return nil
				}

				fmt.Printf("payment %s\n", res.PaymentId)
				if res.HashLock != "" {
					fmt.Printf("hashlock %s\n", res.HashLock)
				}
				fmt.Println(formatRoute(int(c.Uint("index")), res.Route, c.GlobalInt("decimals")))

				return nil
			},
		},
		{
			Name:  "profiles",
			Usage: "list gossiped entity profiles",
			Flags: []cli.Flag{
				cli.UintFlag{
					Name:  "token",
					Value: 1,
				},
			},
			Action: func(c *cli.Context) error {
				client, done, err := connect(c)
				if err != nil {
					return err
				}
				defer done()

				ctx, cancel := timeout(c)
				defer cancel()

				res, err := client.ListProfiles(ctx, &rpc.ListProfilesRequest{Token: uint32(c.Uint("token"))})
				if err != nil {
					return errors.Errorf("Could not list profiles: %v", err)
				}

				if c.GlobalBool("verbose") {
					pretty.Println(res)
					return nil
				}

				decimals := c.GlobalInt("decimals")
				for _, profile := range res.Profiles {
					fmt.Println(formatProfile(profile, decimals))
				}

				return nil
			},
		},
	}

	return app.Run(os.Args)
}

func main() {
	// Call the "real" main in a nested manner so the defers will properly
	// be executed in the case of a graceful shutdown.
	if err := routeMain(); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		} else {
			log.WithError(err).Println("Failed running route.")
		}
		os.Exit(1)
	}
}
