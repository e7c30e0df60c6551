package png

// scanlineAssembler is the scanline assembler (C4): it holds the explicit
// (slPos, filter, row) state machine spec.md §4.4 and §9 call for, bridging
// arbitrarily-sized decompressor output batches onto filter-byte-plus-
// stride-sized scanlines. It never holds a pointer into a caller-owned
// buffer across calls — feed copies everything it needs out of data
// before returning.
type scanlineAssembler struct {
	stride int
	bpp    int
	height int

	cur, prev []byte
	slPos     int // 0: expect filter byte; 1..stride: body bytes received so far, +1
	filter    byte
	row       int

	// onRow is invoked once per completed, unfiltered scanline. A non-nil
	// return aborts feed with that error.
	onRow func(cur []byte) error
}

func newScanlineAssembler(stride, bpp, height int) *scanlineAssembler {
	return &scanlineAssembler{
		stride: stride,
		bpp:    bpp,
		height: height,
		cur:    make([]byte, stride),
		prev:   make([]byte, stride),
	}
}

// feed consumes a batch of decompressor output. It returns done=true once
// height rows have been assembled (no further input is needed), and a
// non-nil error if an inverse filter or onRow callback failed.
func (a *scanlineAssembler) feed(data []byte) (done bool, err error) {
	for len(data) > 0 {
		if a.slPos == 0 {
			a.filter = data[0]
			data = data[1:]
			a.slPos = 1
			continue
		}

		need := a.stride - (a.slPos - 1)
		take := len(data)
		if take > need {
			take = need
		}
		copy(a.cur[a.slPos-1:], data[:take])
		data = data[take:]
		a.slPos += take

		if a.slPos <= a.stride {
			continue
		}

		if err := unfilterRow(a.filter, a.cur, a.prev, a.bpp); err != nil {
			return false, err
		}
		if a.onRow != nil {
			if err := a.onRow(a.cur); err != nil {
				return false, err
			}
		}

		a.cur, a.prev = a.prev, a.cur
		for i := range a.cur {
			a.cur[i] = 0
		}
		a.row++
		a.slPos = 0

		if a.row >= a.height {
			return true, nil
		}
	}
	return false, nil
}
