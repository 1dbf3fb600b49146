// Command pp96-detect scans the host's I2C buses for a PCA9685 board and
// reports where it answers. Run it once after wiring to confirm the HAT is
// reachable before using pp96 itself.
package main

import (
	"fmt"
	"os"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/filterwell/pp96/pkg/pwm"
)

func main() {
	if _, err := host.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "init host: %v\n", err)
		os.Exit(1)
	}

	refs := i2creg.All()
	if len(refs) == 0 {
		fmt.Println("No I2C buses found. Enable I2C (raspi-config) and retry.")
		os.Exit(1)
	}

	found := false
	for _, ref := range refs {
		bus, err := ref.Open()
		if err != nil {
			fmt.Printf("%s: open failed: %v\n", ref.Name, err)
			continue
		}

		dev := i2c.Dev{Bus: bus, Addr: pwm.DefaultAddr}
		var mode1 [1]byte
		if err := dev.Tx([]byte{0x00}, mode1[:]); err != nil {
			fmt.Printf("%s: no device at %#x\n", ref.Name, pwm.DefaultAddr)
		} else {
			fmt.Printf("%s: PCA9685 at %#x (MODE1=%#02x)\n", ref.Name, pwm.DefaultAddr, mode1[0])
			found = true
		}
		bus.Close()
	}

	if !found {
		os.Exit(1)
	}
}
