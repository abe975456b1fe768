package cmd

import (
	"github.com/sdao/gammaray/log"
	"github.com/urfave/cli"
)

var logger = log.New("gammaray")

func setupLogging(ctx *cli.Context) {
	switch {
	case ctx.GlobalBool("vv"):
		log.SetLevel(log.Debug)
	case ctx.GlobalBool("v"):
		log.SetLevel(log.Info)
	}
}
