package errreport

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_SelectsBackend(t *testing.T) {
	_, isNoop := New("", "test", "dev", "localhost").(Noop)
	assert.True(t, isNoop)

	r := New("token", "test", "dev", "localhost")
	_, isRollbar := r.(*Rollbar)
	assert.True(t, isRollbar)
}

func TestNoop(t *testing.T) {
	var r Reporter = Noop{}
	r.Report(errors.New("boom"), nil, nil)
	r.Close()
}
