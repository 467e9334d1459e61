package storage

import (
	"errors"
	"io"
	"net"
	"statcache/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpError_MatchesClassAndCause(t *testing.T) {
	cause := errors.New("boom")
	err := NewOpError("read", models.KindPractice, "alice", ErrQuery, cause)

	assert.ErrorIs(t, err, ErrQuery)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrWrite)
	assert.Equal(t, "read practice/alice: store query failed: boom", err.Error())
}

func TestOpError_WithoutCause(t *testing.T) {
	err := NewOpError("write", models.KindBlog, "42", ErrWrite, nil)

	assert.ErrorIs(t, err, ErrWrite)
	assert.Equal(t, "write blog/42: store write failed", err.Error())
}

func TestClassify(t *testing.T) {
	assert.Equal(t, ErrQuery, Classify(errors.New("WRONGTYPE"), ErrQuery))
	assert.Equal(t, ErrConnection, Classify(io.EOF, ErrQuery))
	assert.Equal(t, ErrConnection, Classify(&net.OpError{Op: "dial", Err: errors.New("refused")}, ErrWrite))
	assert.Equal(t, ErrConnection, Classify(errors.Join(ErrConnection, errors.New("no client")), ErrWrite))
}
