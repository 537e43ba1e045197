// Package smartfarm is a client for the Smart Farm Korea REST service,
// which lists registered smart farms and their cropping seasons.
package smartfarm

import (
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// BaseURL is the production endpoint of the Smart Farm Korea REST service.
const BaseURL = "http://www.smartfarmkorea.net/Agree_WS/webservices/ProvideRestService"

const (
	identityEndpoint = "getIdentityDataList"
	croppingEndpoint = "getCroppingSeasonDataList"
)

// StatusError is returned when the service answers with a status other than 200 OK.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: bad status code: %s", e.Endpoint, e.Status)
}

// DecodeError is returned when a response body is not a JSON array of objects.
// Body holds the raw response for diagnostics.
type DecodeError struct {
	Endpoint string
	Body     []byte
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decoding response: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type Client struct {
	baseURL    string
	serviceKey string
	userAgent  string

	// identity verifies TLS certificates. cropping may not; see
	// WithInsecureCroppingTLS.
	identity *http.Client
	cropping *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithInsecureCroppingTLS disables TLS certificate verification for
// cropping season requests only. The identity list request always
// verifies certificates.
func WithInsecureCroppingTLS(insecure bool) Option {
	return func(c *Client) {
		if !insecure {
			c.cropping = c.identity
			return
		}
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		c.cropping = &http.Client{Transport: t}
	}
}

// WithHTTPClient sets the HTTP client used for all requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.identity = hc
		c.cropping = hc
	}
}

func NewClient(baseURL, serviceKey, userAgent string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		serviceKey: serviceKey,
		userAgent:  userAgent,
		identity:   http.DefaultClient,
		cropping:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FarmRecords returns the identity records of all farms visible to the service key.
func (c *Client) FarmRecords() ([]Record, error) {
	// The service key is interpolated as is: keys are issued
	// already percent-encoded.
	u := fmt.Sprintf("%s/%s/%s", c.baseURL, identityEndpoint, c.serviceKey)
	return c.get(c.identity, identityEndpoint, u)
}

// CroppingSeasons returns the raw cropping season records of one farm,
// including records whose status code is not StatusOK.
func (c *Client) CroppingSeasons(userID string) ([]Record, error) {
	u := fmt.Sprintf("%s/%s/%s/%s", c.baseURL, croppingEndpoint, c.serviceKey, userID)
	return c.get(c.cropping, croppingEndpoint, u)
}

func (c *Client) get(hc *http.Client, endpoint, u string) ([]Record, error) {
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(c.redact(err), endpoint)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, errors.Wrap(c.redact(err), endpoint)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: reading response", endpoint)
	}
	records, err := ParseRecords(body)
	if err != nil {
		return nil, &DecodeError{Endpoint: endpoint, Body: body, Err: err}
	}
	return records, nil
}

// redact removes the service key from URLs embedded in transport errors.
func (c *Client) redact(err error) error {
	var ue *url.Error
	if c.serviceKey == "" || !errors.As(err, &ue) {
		return err
	}
	return &url.Error{
		Op:  ue.Op,
		URL: strings.ReplaceAll(ue.URL, c.serviceKey, "REDACTED"),
		Err: ue.Err,
	}
}
