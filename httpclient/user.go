package httpclient

import (
	"context"
	"fmt"
	"net/http"

	"moviehub/watchlist"
)

// UserClient resolves users through the user service API.
type UserClient struct {
	client
}

func NewUserClient(baseURL string, opts ...Option) *UserClient {
	return &UserClient{client: newClient("user service", baseURL, opts...)}
}

func (c *UserClient) GetUser(ctx context.Context, id int64) (watchlist.UserRef, error) {
	var u watchlist.UserRef
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d", id), nil, &u); err != nil {
		return watchlist.UserRef{}, err
	}
	return u, nil
}
