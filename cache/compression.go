/*
 * MIT License
 *
 * Copyright (c) 2024 go-sessions contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package cache

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/nabbar/go-sessions/cerrs"
	"github.com/pierrec/lz4/v4"
)

// Codec compresses/decompresses cached response bodies before they
// hit a pool backend.
type Codec string

const (
	CodecNone Codec = ""
	CodecZlib Codec = "zlib"
	CodecLZ4  Codec = "lz4"
)

func (c Codec) compress(b []byte) ([]byte, error) {
	switch c {
	case CodecNone:
		return b, nil
	case CodecZlib:
		var buf bytes.Buffer
		w := zlib.NewWriter(&buf)
		if _, err := w.Write(b); err != nil {
			return nil, cerrs.New(ErrCompress, err)
		}
		if err := w.Close(); err != nil {
			return nil, cerrs.New(ErrCompress, err)
		}
		return buf.Bytes(), nil
	case CodecLZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(b); err != nil {
			return nil, cerrs.New(ErrCompress, err)
		}
		if err := w.Close(); err != nil {
			return nil, cerrs.New(ErrCompress, err)
		}
		return buf.Bytes(), nil
	default:
		return b, nil
	}
}

func (c Codec) decompress(b []byte) ([]byte, error) {
	switch c {
	case CodecNone:
		return b, nil
	case CodecZlib:
		r, err := zlib.NewReader(bytes.NewReader(b))
		if err != nil {
			return nil, cerrs.New(ErrCompress, err)
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, cerrs.New(ErrCompress, err)
		}
		return out, nil
	case CodecLZ4:
		r := lz4.NewReader(bytes.NewReader(b))
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, cerrs.New(ErrCompress, err)
		}
		return out, nil
	default:
		return b, nil
	}
}
