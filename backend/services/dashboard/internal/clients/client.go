package clients

// Client bundles the API clients around one base client and token.
type Client struct {
	*AuthClient
	*StationsClient
	base *BaseClient
}

// New returns an unauthenticated client.
func New(baseURL string, httpClient HTTPDoer) *Client {
	return fromBase(NewBaseClient(baseURL, httpClient))
}

func fromBase(base *BaseClient) *Client {
	return &Client{
		AuthClient:     NewAuthClient(base),
		StationsClient: NewStationsClient(base),
		base:           base,
	}
}

// WithToken returns a client that authenticates with token.
func (c *Client) WithToken(token string) *Client {
	return fromBase(c.base.WithToken(token))
}

// Token returns the bearer token the client sends, if any.
func (c *Client) Token() string {
	return c.base.Token()
}
