package main

import (
	"fmt"
	"time"

	"github.com/filterwell/pp96/pkg/press"
)

type UpCommand struct {
	Hold float64 `long:"hold" default:"0.5" description:"Seconds to hold the button"`
}

func (c *UpCommand) Execute(args []string) error {
	return withController(func(ctrl *press.Controller) error {
		fmt.Println("Moving press UP...")
		if err := ctrl.PressUp(holdDuration(c.Hold)); err != nil {
			return err
		}
		fmt.Println("Done.")
		return nil
	})
}

type DownCommand struct {
	Hold float64 `long:"hold" default:"0.5" description:"Seconds to hold the button"`
}

func (c *DownCommand) Execute(args []string) error {
	return withController(func(ctrl *press.Controller) error {
		fmt.Println("Moving press DOWN...")
		if err := ctrl.PressDown(holdDuration(c.Hold)); err != nil {
			return err
		}
		fmt.Println("Done.")
		return nil
	})
}

type NeutralCommand struct{}

func (c *NeutralCommand) Execute(args []string) error {
	return withController(func(ctrl *press.Controller) error {
		fmt.Println("Setting press to NEUTRAL...")
		if err := ctrl.PressNeutral(); err != nil {
			return err
		}
		fmt.Println("Done.")
		return nil
	})
}

type PlateCommand struct {
	In  PlateInCommand  `command:"in" description:"Move the plate under the press"`
	Out PlateOutCommand `command:"out" description:"Retract the plate from the press"`
}

type PlateInCommand struct {
	Jump bool `long:"jump" description:"Jump directly instead of sweeping"`
}

func (c *PlateInCommand) Execute(args []string) error {
	return withController(func(ctrl *press.Controller) error {
		fmt.Println("Moving plate IN...")
		if err := ctrl.PlateIn(!c.Jump); err != nil {
			return err
		}
		fmt.Println("Done.")
		return nil
	})
}

type PlateOutCommand struct {
	Jump bool `long:"jump" description:"Jump directly instead of sweeping"`
}

func (c *PlateOutCommand) Execute(args []string) error {
	return withController(func(ctrl *press.Controller) error {
		fmt.Println("Moving plate OUT...")
		if err := ctrl.PlateOut(!c.Jump); err != nil {
			return err
		}
		fmt.Println("Done.")
		return nil
	})
}

type SetCommand struct {
	Args struct {
		Angle int `positional-arg-name:"angle" description:"Primary servo angle (0-180)" required:"yes"`
	} `positional-args:"yes"`
}

func (c *SetCommand) Execute(args []string) error {
	return withController(func(ctrl *press.Controller) error {
		fmt.Printf("Sweeping to %d...\n", c.Args.Angle)
		if err := ctrl.MoveTo(c.Args.Angle); err != nil {
			return err
		}
		fmt.Println("Done.")
		return nil
	})
}

func holdDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
