package restclient

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/altanet-mx/crm_backend/internal/core/domain"
	portssvc "github.com/altanet-mx/crm_backend/internal/core/ports/services"
	"github.com/altanet-mx/crm_backend/internal/dto"
)

// AccountClient is the REST adapter for the accounts record service.
type AccountClient struct {
	client
}

// NewAccountClient creates the adapter for the given base URL.
func NewAccountClient(baseURL string, timeout time.Duration) *AccountClient {
	return &AccountClient{client: newClient(baseURL, timeout)}
}

var _ portssvc.AccountSvc = (*AccountClient)(nil)

func (c *AccountClient) GetAccount(ctx context.Context, filter dto.AccountFilter) (*domain.Account, error) {
	var acct domain.Account
	path := "/accounts?accountNumber=" + url.QueryEscape(filter.AccountNumber)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &acct); err != nil {
		return nil, err
	}
	return &acct, nil
}

func (c *AccountClient) UpdateAccount(ctx context.Context, patch dto.AccountPatch) (*domain.Account, error) {
	var acct domain.Account
	path := "/accounts/" + url.PathEscape(patch.AccountNumber)
	if err := c.doJSON(ctx, http.MethodPatch, path, patch, &acct); err != nil {
		return nil, err
	}
	return &acct, nil
}

func (c *AccountClient) GetCurrentCycleReceipt(ctx context.Context, accountNumber string) (*dto.CurrentCycleReceipt, error) {
	var cycle dto.CurrentCycleReceipt
	path := "/accounts/" + url.PathEscape(accountNumber) + "/current-receipt"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &cycle); err != nil {
		return nil, err
	}
	return &cycle, nil
}
