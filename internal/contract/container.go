package contract

// Container is the interface for something which can be used as the pending
// storage of a queue.  Implementations must bound their length and make the
// capacity check and the insert a single atomic step.
type Container[T any] interface {
	PushLeft(element T) error
	PopRight() (T, error)
	Length() int
	Capacity() int
}
