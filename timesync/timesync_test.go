package timesync

import (
	"errors"
	"testing"
	"time"
)

func TestCheckPassesWhenSourcesAgree(t *testing.T) {
	now := time.Now().Unix()
	c := &Checker{
		Retries:       3,
		FetchHTTPTime: func() (int64, error) { return now, nil },
		FetchNTPTime:  func() (int64, error) { return now, nil },
	}
	if err := c.Check(); err != nil {
		t.Fatalf("expected Check to pass when all sources agree, got: %v", err)
	}
}

func TestCheckFailsWhenSourcesDisagree(t *testing.T) {
	now := time.Now().Unix()
	c := &Checker{
		Retries:       2,
		FetchHTTPTime: func() (int64, error) { return now + 100, nil },
		FetchNTPTime:  func() (int64, error) { return now, nil },
	}
	if err := c.Check(); err == nil {
		t.Fatal("expected Check to fail when the HTTPS source disagrees")
	}
}

func TestCheckRecoversAfterTransientFetchError(t *testing.T) {
	now := time.Now().Unix()
	attempts := 0
	c := &Checker{
		Retries: 3,
		FetchHTTPTime: func() (int64, error) {
			attempts++
			if attempts < 2 {
				return 0, errors.New("transient network error")
			}
			return now, nil
		},
		FetchNTPTime: func() (int64, error) { return now, nil },
	}
	if err := c.Check(); err != nil {
		t.Fatalf("expected Check to recover within retry budget, got: %v", err)
	}
}

func TestCheckFailsAfterExhaustingRetries(t *testing.T) {
	c := &Checker{
		Retries:       3,
		FetchHTTPTime: func() (int64, error) { return 0, errors.New("unreachable") },
		FetchNTPTime:  func() (int64, error) { return 0, nil },
	}
	if err := c.Check(); err == nil {
		t.Fatal("expected Check to fail once retries are exhausted")
	}
}
