package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Config  string `long:"config" description:"Path to a pp96 YAML config file"`
	DryRun  bool   `long:"dry-run" description:"Log PWM writes instead of driving hardware"`
	Speed   int    `long:"speed" description:"Sweep speed percent (1-100), overrides config"`
	Verbose bool   `short:"v" long:"verbose" description:"Enable debug logging"`

	Up      UpCommand      `command:"up" description:"Press the UP rocker button, then return to neutral"`
	Down    DownCommand    `command:"down" description:"Press the DOWN rocker button, then return to neutral"`
	Neutral NeutralCommand `command:"neutral" description:"Return the rocker servos to neutral"`
	Plate   PlateCommand   `command:"plate" description:"Move the well plate"`
	Set     SetCommand     `command:"set" description:"Sweep the mirrored pair to an angle"`
	Repl    ReplCommand    `command:"repl" description:"Interactive control session"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "pp96 - Waters Positive Pressure-96 Processor control (Raspberry Pi + PCA9685)"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
