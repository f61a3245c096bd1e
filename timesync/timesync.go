// Package timesync implements the clock-sanity collaborator spec.md calls
// for at node construction: a check that the local system clock agrees
// with two independent time sources before the node is trusted to run
// epoch-based leader election. Adapted from the original Streamlet
// reference's HTTPS (worldtimeapi.org) + NTP check, translated to Go's
// net/http and github.com/beevik/ntp.
package timesync

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/beevik/ntp"
)

const (
	defaultRetries   = 10
	defaultNTPServer = "0.pool.ntp.org"
	defaultHTTPURL   = "https://worldtimeapi.org/api/timezone/Etc/UTC"
	defaultTimeout   = 5 * time.Second
)

// Checker compares the system clock against an HTTPS JSON time endpoint
// and an NTP server. FetchHTTPTime/FetchNTPTime are overridable so tests
// can exercise the retry/agreement logic without real network access.
type Checker struct {
	Retries       int
	FetchHTTPTime func() (int64, error)
	FetchNTPTime  func() (int64, error)
}

// NewChecker builds a Checker pointed at the given NTP server and HTTPS
// time endpoint, with the given per-request timeout.
func NewChecker(ntpServer, httpURL string, timeout time.Duration) *Checker {
	if ntpServer == "" {
		ntpServer = defaultNTPServer
	}
	if httpURL == "" {
		httpURL = defaultHTTPURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := &http.Client{Timeout: timeout}
	return &Checker{
		Retries:       defaultRetries,
		FetchHTTPTime: func() (int64, error) { return fetchHTTPTime(client, httpURL) },
		FetchNTPTime:  func() (int64, error) { return fetchNTPTime(ntpServer) },
	}
}

// Check retries up to Retries times; it passes as soon as one attempt
// finds the system clock, the HTTPS source, and the NTP source agreeing
// to the second. Exhausting all retries is fatal (spec.md's ClockInsane).
func (c *Checker) Check() error {
	retries := c.Retries
	if retries <= 0 {
		retries = defaultRetries
	}
	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		ok, err := c.agree()
		if err != nil {
			lastErr = err
			continue
		}
		if ok {
			return nil
		}
		lastErr = fmt.Errorf("system clock disagrees with reference time sources")
	}
	return fmt.Errorf("timesync: clock check failed after %d retries: %w", retries, lastErr)
}

// agree fetches both reference times, accounting for request elapsed time
// on each leg independently, then compares all three to the second.
func (c *Checker) agree() (bool, error) {
	httpStart := time.Now()
	httpUnix, err := c.FetchHTTPTime()
	if err != nil {
		return false, fmt.Errorf("worldtimeapi request: %w", err)
	}
	httpUnix += int64(time.Since(httpStart).Seconds())

	ntpStart := time.Now()
	ntpUnix, err := c.FetchNTPTime()
	if err != nil {
		return false, fmt.Errorf("ntp request: %w", err)
	}
	ntpUnix += int64(time.Since(ntpStart).Seconds())

	system := time.Now().Unix()
	return system == httpUnix && system == ntpUnix, nil
}

func fetchHTTPTime(client *http.Client, url string) (int64, error) {
	resp, err := client.Get(url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("worldtimeapi: unexpected status %s", resp.Status)
	}
	var payload struct {
		UnixTime int64 `json:"unixtime"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decode worldtimeapi response: %w", err)
	}
	return payload.UnixTime, nil
}

func fetchNTPTime(server string) (int64, error) {
	resp, err := ntp.Query(server)
	if err != nil {
		return 0, err
	}
	if err := resp.Validate(); err != nil {
		return 0, fmt.Errorf("ntp response: %w", err)
	}
	return time.Now().Add(resp.ClockOffset).Unix(), nil
}
