package restclient

import (
	"context"
	"net/http"
	"time"

	portssvc "github.com/altanet-mx/crm_backend/internal/core/ports/services"
	"github.com/altanet-mx/crm_backend/internal/dto"
)

// ContractClient is the REST adapter for the contracts service.
type ContractClient struct {
	client
}

// NewContractClient creates the adapter for the given base URL.
func NewContractClient(baseURL string, timeout time.Duration) *ContractClient {
	return &ContractClient{client: newClient(baseURL, timeout)}
}

var _ portssvc.ContractSvc = (*ContractClient)(nil)

func (c *ContractClient) GenerateContract(ctx context.Context, req dto.GenerateContractRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/contracts/generate", req, nil)
}
