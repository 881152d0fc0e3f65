package restclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/altanet-mx/crm_backend/internal/core/domain"
	portssvc "github.com/altanet-mx/crm_backend/internal/core/ports/services"
	"github.com/altanet-mx/crm_backend/internal/dto"
)

// WorkOrderClient is the REST adapter for the work-orders record service.
type WorkOrderClient struct {
	client
}

// NewWorkOrderClient creates the adapter for the given base URL.
func NewWorkOrderClient(baseURL string, timeout time.Duration) *WorkOrderClient {
	return &WorkOrderClient{client: newClient(baseURL, timeout)}
}

var _ portssvc.WorkOrderSvc = (*WorkOrderClient)(nil)

func (c *WorkOrderClient) GetWorkOrder(ctx context.Context, folio int) (*domain.WorkOrder, error) {
	var wo domain.WorkOrder
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/work-orders/%d", folio), nil, &wo); err != nil {
		return nil, err
	}
	return &wo, nil
}

func (c *WorkOrderClient) UpdateWorkOrder(ctx context.Context, folio int, patch dto.WorkOrderPatch) (*domain.WorkOrder, error) {
	var wo domain.WorkOrder
	if err := c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/work-orders/%d", folio), patch, &wo); err != nil {
		return nil, err
	}
	return &wo, nil
}
