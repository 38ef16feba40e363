package k4arecord

import (
	"time"
	"unsafe"

	"github.com/dialup-inc/kinect/native"
)

// DataBlock is one block read from a custom track.
type DataBlock struct {
	api *API
	h   *native.Handle
}

func (a *API) wrapDataBlock(h DataBlockHandle) *DataBlock {
	if h == 0 {
		return nil
	}
	return &DataBlock{api: a, h: native.NewHandle(uintptr(h))}
}

func (b *DataBlock) Handle() DataBlockHandle { return DataBlockHandle(b.h.Load()) }

// Close releases the block. Calling it again does nothing.
func (b *DataBlock) Close() error {
	if h := DataBlockHandle(b.h.Take()); h != 0 {
		b.api.fn.DataBlockRelease(h)
	}
	return nil
}

func (b *DataBlock) DeviceTimestamp() time.Duration {
	return time.Duration(b.api.fn.DataBlockGetDeviceTimestampUsec(b.Handle())) * time.Microsecond
}

func (b *DataBlock) Size() int { return int(b.api.fn.DataBlockGetBufferSize(b.Handle())) }

// Buffer returns the block contents without copying, valid until Close.
func (b *DataBlock) Buffer() []byte {
	h := b.Handle()
	if h == 0 {
		return nil
	}
	p := b.api.fn.DataBlockGetBuffer(h)
	n := b.api.fn.DataBlockGetBufferSize(h)
	if p == nil || n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(p), n)
}
