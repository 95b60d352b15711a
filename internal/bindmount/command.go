package bindmount

import "fmt"

// Command is the action to perform on the bind mount.
type Command int

const (
	Mount Command = iota
	Unmount
)

const (
	mountCommand   = "mount"
	unmountCommand = "unmount"
)

// Commands lists the accepted command names.
var Commands = []string{mountCommand, unmountCommand}

func (c Command) String() string {
	switch c {
	case Mount:
		return mountCommand
	case Unmount:
		return unmountCommand
	default:
		return fmt.Sprintf("Command(%d)", int(c))
	}
}

// ParseCommand parses a command name.
func ParseCommand(s string) (Command, error) {
	switch s {
	case mountCommand:
		return Mount, nil
	case unmountCommand:
		return Unmount, nil
	default:
		return Mount, fmt.Errorf("invalid command: %s", s)
	}
}
