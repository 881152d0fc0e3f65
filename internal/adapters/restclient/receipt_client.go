package restclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/altanet-mx/crm_backend/internal/core/domain"
	portssvc "github.com/altanet-mx/crm_backend/internal/core/ports/services"
	"github.com/altanet-mx/crm_backend/internal/dto"
)

// ReceiptClient is the REST adapter for the receipts record service.
type ReceiptClient struct {
	client
}

// NewReceiptClient creates the adapter for the given base URL.
func NewReceiptClient(baseURL string, timeout time.Duration) *ReceiptClient {
	return &ReceiptClient{client: newClient(baseURL, timeout)}
}

var _ portssvc.ReceiptSvc = (*ReceiptClient)(nil)

func (c *ReceiptClient) QueryReceipts(ctx context.Context, filter dto.ReceiptFilter) ([]domain.Receipt, error) {
	q := url.Values{}
	if filter.ParentID != "" {
		q.Set("parentId", filter.ParentID)
	}
	if filter.OperationType != "" {
		q.Set("operationType", filter.OperationType)
	}
	if filter.OperationID != 0 {
		q.Set("operationId", fmt.Sprintf("%d", filter.OperationID))
	}
	if filter.TypeValue != "" {
		q.Set("typeValue", string(filter.TypeValue))
	}
	if filter.StatusValue != "" {
		q.Set("statusValue", string(filter.StatusValue))
	}

	var resp struct {
		Results []domain.Receipt `json:"results"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/receipts?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *ReceiptClient) CreateReceipt(ctx context.Context, receipt domain.Receipt) (*domain.Receipt, error) {
	var created domain.Receipt
	if err := c.doJSON(ctx, http.MethodPost, "/receipts", receipt, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
