package analytics

import "context"

// Store persists link events consumed off the stream. Implementations are
// telemetry sinks; they never feed the click counts served by the API.
type Store interface {
	SaveLinkCreated(ctx context.Context, event *LinkCreatedEvent) error
	SaveLinkVisited(ctx context.Context, event *LinkVisitedEvent) error
}
