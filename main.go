package main

import (
	"os"

	"github.com/sdao/gammaray/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "gammaray"
	app.Usage = "physically based monte carlo path tracer"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a built-in scene to a png file",
			Description: `
Trace one of the built-in scenes with the path-tracing integrator and write
the result as a png image. Rendering proceeds in progressive passes; press
ctrl-c to stop early and keep the samples accumulated so far.`,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "scene",
					Value: "default",
					Usage: "scene to render",
				},
				cli.IntFlag{
					Name:  "width",
					Value: 512,
					Usage: "image width in pixels",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 512,
					Usage: "image height in pixels",
				},
				cli.IntFlag{
					Name:  "spp",
					Value: 64,
					Usage: "samples per pixel",
				},
				cli.IntFlag{
					Name:  "max-depth",
					Value: 50,
					Usage: "maximum path length",
				},
				cli.Uint64Flag{
					Name:  "seed",
					Value: 1,
					Usage: "sampler seed; identical seeds give identical images",
				},
				cli.IntFlag{
					Name:  "workers",
					Value: 0,
					Usage: "number of render workers (0 = number of cpus)",
				},
				cli.IntFlag{
					Name:  "passes",
					Value: 4,
					Usage: "progressive passes",
				},
				cli.StringFlag{
					Name:  "out",
					Value: "render.png",
					Usage: "output png file",
				},
			},
			Action: cmd.RenderScene,
		},
		{
			Name:   "list-scenes",
			Usage:  "list the built-in scenes",
			Action: cmd.ListScenes,
		},
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}
