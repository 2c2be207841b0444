package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSession_ArmDisarm(t *testing.T) {
	s := NewSession("s1", "/tmp")
	assert.False(t, s.IsArmed("/tmp/a"))

	s.Arm("/tmp/a")
	s.Arm("/tmp/a")
	assert.True(t, s.IsArmed("/tmp/a"))
	assert.Len(t, s.Armed, 1)

	s.Disarm("/tmp/a")
	assert.False(t, s.IsArmed("/tmp/a"))
}

func TestSession_Snapshot(t *testing.T) {
	s := NewSession("s1", "/tmp")
	s.Arm("/tmp/a")

	cp := s.Snapshot()
	cp.Arm("/tmp/b")
	cp.CurrentPath = "/"

	assert.Equal(t, []string{"/tmp/a"}, s.Armed)
	assert.Equal(t, "/tmp", s.CurrentPath)
}
