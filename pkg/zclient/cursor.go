package zclient

import (
	"encoding/binary"
	"fmt"
)

// Cursor is a forward-only reader over an inbound frame's body, handed to
// the decoders; caller-installed handlers receive the decoded values, not
// the Cursor. It never looks past the frame it was constructed over.
type Cursor struct {
	buf []byte
	pos int
}

func newCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Remaining reports how many octets are left to read.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

func (c *Cursor) need(n int) error {
	if c.Remaining() < n {
		return fmt.Errorf("zclient: short frame body: need %d octets, have %d", n, c.Remaining())
	}
	return nil
}

// Uint8 reads one octet.
func (c *Cursor) Uint8() (uint8, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	v := c.buf[c.pos]
	c.pos++
	return v, nil
}

// Uint16 reads a big-endian 16-bit field.
func (c *Cursor) Uint16() (uint16, error) {
	if err := c.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(c.buf[c.pos : c.pos+2])
	c.pos += 2
	return v, nil
}

// Uint32 reads a big-endian 32-bit field.
func (c *Cursor) Uint32() (uint32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(c.buf[c.pos : c.pos+4])
	c.pos += 4
	return v, nil
}

// Uint64 reads a big-endian 64-bit field.
func (c *Cursor) Uint64() (uint64, error) {
	if err := c.need(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(c.buf[c.pos : c.pos+8])
	c.pos += 8
	return v, nil
}

// Bytes reads n raw octets.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	v := c.buf[c.pos : c.pos+n]
	c.pos += n
	return v, nil
}
