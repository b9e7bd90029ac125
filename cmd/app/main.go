package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli"

	cfg "github.com/wplace-archive/go-tilelapse/internal/config"
	"github.com/wplace-archive/go-tilelapse/internal/core"
	"github.com/wplace-archive/go-tilelapse/internal/logger"
)

var app = cli.NewApp()
var log = logger.Log

func init() {
	app.Name = "tilelapse"
	app.Usage = "Daily pixel-art timelapse generator"
	app.UsageText = "tilelapse create [--date YYYYMMDD]"
	app.HideHelp = true
	app.HideVersion = true
	app.Commands = []cli.Command{
		{
			Name:    "create",
			Aliases: []string{"c"},
			Usage:   "Create the timelapse for a date, default yesterday (WIB)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "date, d",
					Usage: "Date YYYYMMDD",
				},
			},
			Action: func(c *cli.Context) error {
				date, err := getDate(c)
				if err != nil {
					return err
				}
				conf := cfg.FromEnv()
				return core.NewCore(context.Background(), conf).CreateTimelapse(date)
			},
		},
	}
}

func getDate(c *cli.Context) (string, error) {
	date := c.String("date")
	if date == "" {
		date = c.Args().Get(0)
	}
	if date == "" {
		// captures are grouped by day in the capture timezone
		date = time.Now().In(cfg.CaptureTZ).AddDate(0, 0, -1).Format("20060102")
	}
	if len(date) != 8 {
		return "", fmt.Errorf("Invalid date %q, expected YYYYMMDD", date)
	}
	return date, nil
}

func main() {
	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
