package timeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapper_Scales(t *testing.T) {
	tl := New()
	tl.SetZoom(50)

	assert.Equal(t, 100.0, tl.TimeToPixel(2), "2s at 50 px/s")
	assert.Equal(t, 2.0, tl.PixelToTime(100))
	assert.Equal(t, 0.0, tl.TimeToPixel(0))
}

func TestMapper_TracksZoomChanges(t *testing.T) {
	tl := New()

	assert.Equal(t, 150.0, tl.TimeToPixel(1.5), "default zoom is 100 px/s")

	tl.SetZoom(MaxZoom)
	assert.Equal(t, 1.5*MaxZoom, tl.TimeToPixel(1.5))

	tl.SetZoom(MinZoom)
	assert.Equal(t, 1.5*MinZoom, tl.TimeToPixel(1.5))
}

func TestMapper_RoundTrip(t *testing.T) {
	zooms := []float64{MinZoom, DefaultZoom, MaxZoom}
	times := []float64{0, 0.001, 0.5, 1.5, 3.7, 60, 3600}

	for _, zoom := range zooms {
		for _, at := range times {
			t.Run(fmt.Sprintf("zoom=%g/t=%g", zoom, at), func(t *testing.T) {
				tl := New()
				tl.SetZoom(zoom)

				assert.InDelta(t, at, tl.PixelToTime(tl.TimeToPixel(at)), 1e-9,
					"time -> pixel -> time")

				px := at * zoom
				assert.InDelta(t, px, tl.TimeToPixel(tl.PixelToTime(px)), 1e-9,
					"pixel -> time -> pixel")
			})
		}
	}
}

func TestMapper_StatelessForms(t *testing.T) {
	assert.Equal(t, 500.0, TimeToPixelAt(2, 250))
	assert.Equal(t, 2.0, PixelToTimeAt(500, 250))

	// The stateless forms agree with the store-backed ones at the same zoom.
	tl := New()
	tl.SetZoom(250)
	assert.Equal(t, tl.TimeToPixel(3.3), TimeToPixelAt(3.3, 250))
	assert.Equal(t, tl.PixelToTime(123), PixelToTimeAt(123, 250))

	for _, zoom := range []float64{MinZoom, 80, MaxZoom} {
		assert.InDelta(t, 7.25, PixelToTimeAt(TimeToPixelAt(7.25, zoom), zoom), 1e-9)
	}
}
