// Package errreport forwards unexpected errors to an external tracker.
package errreport

import (
	"net/http"
	"sync"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"
)

// Reporter receives errors that produced a 5xx response
type Reporter interface {
	Report(err error, req *http.Request, fields map[string]interface{})
	Close()
}

// Noop discards reports
type Noop struct{}

// Report does nothing
func (Noop) Report(error, *http.Request, map[string]interface{}) {}

// Close does nothing
func (Noop) Close() {}

// Rollbar sends reports with rollbar-go
type Rollbar struct {
	once sync.Once
}

// NewRollbar configures the global rollbar client
func NewRollbar(token, environment, codeVersion, host string) *Rollbar {
	rollbar.SetToken(token)
	rollbar.SetEnvironment(environment)
	rollbar.SetServerHost(host)
	rollbar.SetCodeVersion(codeVersion)
	rollbar.SetStackTracer(errors.StackTracer)
	return &Rollbar{}
}

// New returns Rollbar when a token is set and Noop otherwise
func New(token, environment, codeVersion, host string) Reporter {
	if token == "" {
		return Noop{}
	}
	return NewRollbar(token, environment, codeVersion, host)
}

// Report sends the error with request context
func (r *Rollbar) Report(err error, req *http.Request, fields map[string]interface{}) {
	if err == nil {
		return
	}
	args := []interface{}{err}
	if req != nil {
		args = append(args, req)
	}
	if len(fields) > 0 {
		args = append(args, fields)
	}
	rollbar.Error(args...)
}

// Close flushes queued reports
func (r *Rollbar) Close() {
	r.once.Do(rollbar.Close)
}
