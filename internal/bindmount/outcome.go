package bindmount

// Outcome is the successful end state of a Run.
type Outcome int

const (
	AlreadyMounted Outcome = iota
	AlreadyUnmounted
	Mounted
	Unmounted
)

func (o Outcome) String() string {
	switch o {
	case AlreadyMounted:
		return "already mounted"
	case AlreadyUnmounted:
		return "already unmounted"
	case Mounted:
		return "mounted"
	case Unmounted:
		return "unmounted"
	default:
		return "unknown"
	}
}
