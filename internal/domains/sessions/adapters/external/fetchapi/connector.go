package fetchapi

import (
	"context"
	"net/http"

	fetchclient "github.com/Apurer/dog-finder/internal/clients/http/fetchapi"
	dogsexternal "github.com/Apurer/dog-finder/internal/domains/dogs/adapters/external/fetchapi"
	dogsobs "github.com/Apurer/dog-finder/internal/domains/dogs/adapters/observability"
	dogports "github.com/Apurer/dog-finder/internal/domains/dogs/ports"
	"github.com/Apurer/dog-finder/internal/domains/sessions/domain"
	"github.com/Apurer/dog-finder/internal/domains/sessions/ports"
)

// Connector opens per-session connections to the Fetch dog service. All
// connections share the template HTTP client's transport; each gets its own
// cookie jar.
type Connector struct {
	baseURL    string
	httpClient *http.Client
	catalogOps []dogsobs.Option
}

// NewConnector wires the connector. catalogOpts decorate every catalog with
// logging, tracing and metrics.
func NewConnector(baseURL string, httpClient *http.Client, catalogOpts ...dogsobs.Option) *Connector {
	return &Connector{baseURL: baseURL, httpClient: httpClient, catalogOps: catalogOpts}
}

func (c *Connector) Connect(cookies []domain.Cookie, onUnauthorized func(ctx context.Context)) (ports.Connection, error) {
	opts := []fetchclient.Option{
		fetchclient.WithCookies(toHTTPCookies(cookies)),
	}
	if c.httpClient != nil {
		opts = append(opts, fetchclient.WithHTTPClient(c.httpClient))
	}
	if onUnauthorized != nil {
		opts = append(opts, fetchclient.WithUnauthorizedHook(func(req *http.Request) {
			onUnauthorized(context.WithoutCancel(req.Context()))
		}))
	}
	client, err := fetchclient.NewClient(c.baseURL, opts...)
	if err != nil {
		return nil, err
	}
	catalog := dogsobs.New(dogsexternal.NewCatalog(client), c.catalogOps...)
	return &connection{client: client, catalog: catalog}, nil
}

type connection struct {
	client  *fetchclient.Client
	catalog dogports.Catalog
}

func (c *connection) Login(ctx context.Context, name, email string) error {
	return dogsexternal.MapError(c.client.Login(ctx, name, email))
}

func (c *connection) Logout(ctx context.Context) error {
	return dogsexternal.MapError(c.client.Logout(ctx))
}

func (c *connection) Cookies() []domain.Cookie {
	httpCookies := c.client.Cookies()
	out := make([]domain.Cookie, 0, len(httpCookies))
	for _, ck := range httpCookies {
		out = append(out, domain.Cookie{Name: ck.Name, Value: ck.Value})
	}
	return out
}

func (c *connection) Catalog() dogports.Catalog {
	return c.catalog
}

func toHTTPCookies(cookies []domain.Cookie) []*http.Cookie {
	if len(cookies) == 0 {
		return nil
	}
	out := make([]*http.Cookie, 0, len(cookies))
	for _, ck := range cookies {
		out = append(out, &http.Cookie{Name: ck.Name, Value: ck.Value, Path: "/"})
	}
	return out
}

var _ ports.Connector = (*Connector)(nil)
