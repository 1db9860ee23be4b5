package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	require.Regexp(t, `^prod-[0-9a-f]{8}$`, NewID("prod"))
	require.Regexp(t, `^course-[0-9a-f]{8}$`, NewID("course"))
	require.NotEqual(t, NewID("prod"), NewID("prod"))
}
