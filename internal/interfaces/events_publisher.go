package interfaces

// EventPublisher emits resolution events for downstream consumers. Publish
// failures are advisory: the ledger write has already happened.
type EventPublisher interface {
	Publish(topic string, event any) error
}
