package indicator

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var lampColors = map[Lamp]lipgloss.Color{
	LampGreen:  lipgloss.Color("10"),
	LampYellow: lipgloss.Color("11"),
	LampBlue:   lipgloss.Color("12"),
}

// consolePin prints lamp transitions instead of driving hardware
type consolePin struct {
	mu    *sync.Mutex
	w     io.Writer
	lamp  Lamp
	on    bool
	style lipgloss.Style
}

func (p *consolePin) Set(on bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.on == on {
		return nil
	}
	p.on = on

	state := "off"
	if on {
		state = "on"
	}
	_, err := fmt.Fprintf(p.w, "The %s led is now %s\n", p.style.Render(p.lamp.String()), state)
	return err
}

// ConsolePins returns pins that report lamp changes on w, for running without hardware
func ConsolePins(w io.Writer) map[Lamp]Pin {
	mu := &sync.Mutex{}
	pins := make(map[Lamp]Pin, len(Lamps))
	for _, lamp := range Lamps {
		pins[lamp] = &consolePin{
			mu:    mu,
			w:     w,
			lamp:  lamp,
			style: lipgloss.NewStyle().Bold(true).Foreground(lampColors[lamp]),
		}
	}
	return pins
}
