package domain

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBox(t *testing.T) {
	b, err := ParseBox("10, 20,30,40")
	require.NoError(t, err)
	assert.Equal(t, Box{X: 10, Y: 20, W: 30, H: 40}, b)
	assert.Equal(t, "10,20,30,40", b.String())

	_, err = ParseBox("1,2,3")
	assert.Error(t, err)
	_, err = ParseBox("1,2,x,4")
	assert.Error(t, err)
}

func TestBox_Clamp(t *testing.T) {
	bounds := image.Rect(0, 0, 640, 480)

	assert.Equal(t, Box{X: 600, Y: 400, W: 40, H: 80}, Box{X: 600, Y: 400, W: 100, H: 100}.Clamp(bounds))
	assert.Equal(t, Box{X: 0, Y: 0, W: 50, H: 50}, Box{X: -50, Y: -50, W: 100, H: 100}.Clamp(bounds))
	assert.True(t, Box{X: 700, Y: 0, W: 10, H: 10}.Clamp(bounds).Empty())
}
