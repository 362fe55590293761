package bus

// Transport broadcasts change notifications to other execution contexts of
// the same on-device store. Implementations are best-effort: the bus treats
// broadcast errors as degradation, never as failures.
type Transport interface {
	// Broadcast sends an event to every other context.
	Broadcast(evt Event) error
	// Events yields events broadcast by other contexts. The channel closes
	// when the transport is closed.
	Events() <-chan Event
	Close() error
}

// NopTransport drops broadcasts and never yields events. Used where no
// cross-context channel is available.
type NopTransport struct {
	events chan Event
}

func NewNopTransport() *NopTransport {
	return &NopTransport{events: make(chan Event)}
}

func (n *NopTransport) Broadcast(Event) error { return nil }

func (n *NopTransport) Events() <-chan Event { return n.events }

func (n *NopTransport) Close() error {
	close(n.events)
	return nil
}
