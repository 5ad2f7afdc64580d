package indicator

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// DefaultPins are the BCM numbers the lamps are wired to
var DefaultPins = map[Lamp]int{
	LampGreen:  17,
	LampYellow: 27,
	LampBlue:   22,
}

type gpioPin struct {
	pin gpio.PinIO
}

func (p *gpioPin) Set(on bool) error {
	level := gpio.Low
	if on {
		level = gpio.High
	}
	return p.pin.Out(level)
}

// OpenGPIO initialises the host drivers and resolves each lamp's BCM pin
func OpenGPIO(bcm map[Lamp]int) (map[Lamp]Pin, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialise gpio host: %w", err)
	}

	pins := make(map[Lamp]Pin, len(bcm))
	for lamp, n := range bcm {
		name := fmt.Sprintf("GPIO%d", n)
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("gpio pin %s for %s lamp not found", name, lamp)
		}
		pins[lamp] = &gpioPin{pin: p}
	}
	return pins, nil
}
