package network

import (
	"errors"
	"math/rand"
	"net/url"
	"sync"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	fhttpcookiejar "github.com/bogdanfinn/fhttp/cookiejar"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	"github.com/jimezsa/jobfinder/internal/models"
)

var ErrRequestFailed = errors.New("request failed")

const DefaultTimeout = 25 * time.Second

// httpDoer is the part of tls_client.HttpClient the fetch path needs.
type httpDoer interface {
	Do(req *fhttp.Request) (*fhttp.Response, error)
}

// Client is the HTTP side of one run. It owns the run's cookie jar, so a new
// Client is created per run and dropped afterwards. Every proxy gets its own
// transport sharing that jar; concurrent requests never switch a proxy under
// each other.
type Client struct {
	direct     httpDoer
	dial       func(proxy string) (httpDoer, error)
	viaProxy   map[string]httpDoer
	rotator    *Rotator
	limiter    *HostLimiter
	timeout    time.Duration
	userAgents []string

	mu   sync.Mutex
	rand *rand.Rand
}

func NewClient(opts models.FetchOptions, rotator *Rotator, limiter *HostLimiter) (*Client, error) {
	jar, err := fhttpcookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	dial := func(proxy string) (httpDoer, error) {
		options := []tls_client.HttpClientOption{
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithTimeoutSeconds(int(timeout / time.Second)),
			tls_client.WithCookieJar(jar),
		}
		if proxy != "" {
			options = append(options, tls_client.WithProxyUrl(proxy))
		}
		return tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	}
	direct, err := dial("")
	if err != nil {
		return nil, err
	}

	agents := opts.UserAgents
	if len(agents) == 0 {
		agents = DefaultUserAgents
	}

	return &Client{
		direct:     direct,
		dial:       dial,
		viaProxy:   map[string]httpDoer{},
		rotator:    rotator,
		limiter:    limiter,
		timeout:    timeout,
		userAgents: append([]string{}, agents...),
		rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

func (c *Client) Do(req *fhttp.Request) (*fhttp.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.randomUA())
	}

	doer, proxy, err := c.transport()
	if err != nil {
		return nil, err
	}

	resp, err := doer.Do(req)
	if err != nil {
		return nil, err
	}
	if proxy != nil {
		c.rotator.Report(proxy, resp.StatusCode)
	}
	return resp, nil
}

// transport picks the next proxy and returns the transport bound to it.
// Without a rotator requests go out directly; when every proxy is banned
// the request fails with ErrNoProxies.
func (c *Client) transport() (httpDoer, *url.URL, error) {
	if c.rotator == nil {
		return c.direct, nil, nil
	}
	proxy, err := c.rotator.Next()
	if err != nil {
		return nil, nil, err
	}

	key := proxy.String()
	c.mu.Lock()
	defer c.mu.Unlock()
	if doer, ok := c.viaProxy[key]; ok {
		return doer, proxy, nil
	}
	doer, err := c.dial(key)
	if err != nil {
		return nil, nil, err
	}
	c.viaProxy[key] = doer
	return doer, proxy, nil
}

func (c *Client) randomUA() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.userAgents) == 0 {
		return ""
	}
	return c.userAgents[c.rand.Intn(len(c.userAgents))]
}

var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
}
