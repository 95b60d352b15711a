package platform

import (
	"fmt"

	"github.com/syndtr/gocapability/capability"
)

// HasSysAdmin reports whether the current process has CAP_SYS_ADMIN in its
// effective set, which the kernel requires for mount and umount.
func HasSysAdmin() (bool, error) {
	return hasEffective(capability.CAP_SYS_ADMIN)
}

func hasEffective(c capability.Cap) (bool, error) {
	caps, err := capability.NewPid2(0)
	if err != nil {
		return false, fmt.Errorf("initialise capabilities object: %w", err)
	}

	if err := caps.Load(); err != nil {
		return false, fmt.Errorf("load capabilities: %w", err)
	}

	return caps.Get(capability.EFFECTIVE, c), nil
}
