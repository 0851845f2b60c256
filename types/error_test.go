package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Format(t *testing.T) {
	err := NewError(ErrUnknownAgent, "agent not registered").WithAgent("minto")
	assert.Equal(t, "[UNKNOWN_AGENT] agent not registered", err.Error())
	assert.Equal(t, "minto", err.AgentID)
}

func TestError_Cause(t *testing.T) {
	cause := errors.New("boom")
	err := NewError(ErrAgentExecution, "process failed").WithCause(cause)

	assert.Contains(t, err.Error(), "boom")
	assert.ErrorIs(t, err, cause)
}

func TestError_Codes(t *testing.T) {
	err := Errorf(ErrDuplicateAgent, "agent %q already registered", "larry")

	assert.Equal(t, ErrDuplicateAgent, GetErrorCode(err))
	assert.True(t, IsCode(err, ErrDuplicateAgent))
	assert.False(t, IsCode(err, ErrTimeout))
	assert.Equal(t, ErrorCode(""), GetErrorCode(errors.New("plain")))
}
