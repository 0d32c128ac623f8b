// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// Resampler streams from src to a target sample rate using Catmull-Rom
// interpolation over a four frame window. Channel count is preserved.
// When downsampling, incoming frames pass through a one-pole low-pass first.
//
// It is an offline preparation stage; the mixing engine never resamples.
type Resampler struct {
	src      Source
	channels int
	dstRate  int
	step     float64 // source frames consumed per output frame

	// window[0] = t-1, window[1] = t0, window[2] = t+1, window[3] = t+2
	window [4][]float32
	real   [4]bool
	pos    float64
	primed bool
	eof    bool

	lowpass bool
	prev    []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	r := &Resampler{
		src:      src,
		channels: channels,
		dstRate:  dstRate,
		step:     float64(src.SampleRate()) / float64(dstRate),
		prev:     make([]float32, channels),
	}
	r.lowpass = r.step > 1
	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}
	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// readFrame loads one source frame into dst. It reports false once the
// source has nothing left.
func (r *Resampler) readFrame(dst []float32, first bool) (bool, error) {
	if r.eof {
		return false, nil
	}
	n, err := r.src.ReadSamples(dst)
	if err == io.EOF {
		r.eof = true
	} else if err != nil {
		return false, fmt.Errorf("%w", err)
	}
	if n < r.channels {
		r.eof = true
		return false, nil
	}
	if r.lowpass {
		if first {
			copy(r.prev, dst)
		}
		for c := range dst {
			dst[c] = 0.5*dst[c] + 0.5*r.prev[c]
			r.prev[c] = dst[c]
		}
	}
	return true, nil
}

func (r *Resampler) prime() error {
	for i := 1; i < 4; i++ {
		ok, err := r.readFrame(r.window[i], i == 1)
		if err != nil {
			return err
		}
		if !ok {
			if i == 1 {
				return io.EOF
			}
			copy(r.window[i], r.window[i-1])
		}
		r.real[i] = ok
	}
	copy(r.window[0], r.window[1])
	r.primed = true
	return nil
}

// advance slides the window forward by one source frame.
func (r *Resampler) advance() error {
	oldest := r.window[0]
	copy(r.window[:3], r.window[1:])
	copy(r.real[:3], r.real[1:])
	r.window[3] = oldest

	ok, err := r.readFrame(r.window[3], false)
	if err != nil {
		return err
	}
	if !ok {
		copy(r.window[3], r.window[2])
	}
	r.real[3] = ok
	return nil
}

// ReadSamples produces interleaved samples at the target rate.
// len(dst) must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	for written+r.channels <= len(dst) {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.advance(); err != nil {
				return written, err
			}
		}
		if !r.real[1] || !r.real[2] {
			return written, io.EOF
		}

		t := float32(r.pos)
		for c := range r.channels {
			dst[written+c] = catmullRom(r.window[0][c], r.window[1][c], r.window[2][c], r.window[3][c], t)
		}
		written += r.channels
		r.pos += r.step
	}

	return written, nil
}

// catmullRom interpolates between y1 and y2 at fraction t in [0,1].
func catmullRom(y0, y1, y2, y3, t float32) float32 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2

	return ((a0*t+a1)*t+a2)*t + y1
}
