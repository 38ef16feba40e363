// Command k4a lists, views, records and serves depth cameras.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

const (
	// Global flags.
	flagConfig       = "config"
	flagSim          = "sim"
	flagDebug        = "debug"
	flagK4ALib       = "k4a-lib"
	flagK4ABTLib     = "k4abt-lib"
	flagK4ARecordLib = "k4arecord-lib"

	// Command flags.
	flagDevice   = "device"
	flagOutput   = "output"
	flagDuration = "duration"
	flagFrames   = "frames"
	flagListen   = "listen"
	flagTag      = "tag"
	flagIMU      = "imu"
	flagURL      = "url"
	flagClients  = "clients"
)

func newApp() *cli.App {
	deviceFlag := &cli.UintFlag{
		Name:    flagDevice,
		Aliases: []string{"d"},
		Usage:   "device `INDEX`, overrides device_index from the config",
	}

	return &cli.App{
		Name:  "k4a",
		Usage: "work with depth cameras through the vendor SDK",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE`",
				EnvVars: []string{"K4A_CONFIG"},
			},
			&cli.BoolFlag{
				Name:  flagSim,
				Usage: "use a simulated device instead of the SDK libraries",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.StringFlag{
				Name:  flagK4ALib,
				Usage: "`PATH` of the k4a library or its directory",
			},
			&cli.StringFlag{
				Name:  flagK4ABTLib,
				Usage: "`PATH` of the k4abt library or its directory",
			},
			&cli.StringFlag{
				Name:  flagK4ARecordLib,
				Usage: "`PATH` of the k4arecord library or its directory",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "enumerate",
				Usage:  "list connected devices",
				Action: EnumerateAction,
			},
			{
				Name:   "view",
				Usage:  "show a device's images in the terminal",
				Flags:  []cli.Flag{deviceFlag},
				Action: ViewAction,
			},
			{
				Name:  "bodies",
				Usage: "print tracked bodies",
				Flags: []cli.Flag{
					deviceFlag,
					&cli.IntFlag{
						Name:  flagFrames,
						Usage: "stop after `N` frames, 0 runs until interrupted",
					},
				},
				Action: BodiesAction,
			},
			{
				Name:  "record",
				Usage: "record captures and IMU samples to a file",
				Flags: []cli.Flag{
					deviceFlag,
					&cli.StringFlag{
						Name:     flagOutput,
						Aliases:  []string{"o"},
						Usage:    "recording `FILE`",
						Required: true,
					},
					&cli.DurationFlag{
						Name:  flagDuration,
						Usage: "stop after `DURATION`, 0 runs until interrupted",
					},
					&cli.BoolFlag{
						Name:  flagIMU,
						Usage: "record the IMU track",
						Value: true,
					},
				},
				Action: RecordAction,
			},
			{
				Name:      "info",
				Usage:     "describe a recording",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  flagTag,
						Usage: "also print tag `NAME`",
					},
				},
				Action: InfoAction,
			},
			{
				Name:  "serve",
				Usage: "stream tracked bodies over websockets",
				Flags: []cli.Flag{
					deviceFlag,
					&cli.StringFlag{
						Name:  flagListen,
						Usage: "listen on `ADDR`, overrides listen from the config",
					},
				},
				Action: ServeAction,
			},
			{
				Name:  "watch",
				Usage: "connect websocket clients to a serve command and summarize the stream",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  flagURL,
						Usage: "websocket `URL` of the serve command",
						Value: "ws://localhost:8080/ws",
					},
					&cli.IntFlag{
						Name:  flagClients,
						Usage: "connect `N` clients at once",
						Value: 1,
					},
					&cli.DurationFlag{
						Name:  flagDuration,
						Usage: "stop after `DURATION`, 0 runs until interrupted",
					},
				},
				Action: WatchAction,
			},
			{
				Name:   "config",
				Usage:  "print the effective configuration",
				Action: ConfigAction,
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "k4a:", err)
		os.Exit(1)
	}
}
