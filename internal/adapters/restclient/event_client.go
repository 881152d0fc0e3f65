package restclient

import (
	"context"
	"net/http"
	"time"

	"github.com/altanet-mx/crm_backend/internal/core/domain"
	portssvc "github.com/altanet-mx/crm_backend/internal/core/ports/services"
)

// EventClient is the REST adapter for the events record service.
type EventClient struct {
	client
}

// NewEventClient creates the adapter for the given base URL.
func NewEventClient(baseURL string, timeout time.Duration) *EventClient {
	return &EventClient{client: newClient(baseURL, timeout)}
}

var _ portssvc.EventSvc = (*EventClient)(nil)

func (c *EventClient) CreateEvent(ctx context.Context, event domain.Event) (*domain.Event, error) {
	var created domain.Event
	if err := c.doJSON(ctx, http.MethodPost, "/events", event, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
