package translator

import (
	"errors"
	"io"
)

const defaultChunkSize = 4096

// bodyStream yields whatever each Read on the response body returns, so a
// chunk is one transport delivery rather than a fixed-size frame.
type bodyStream struct {
	body io.ReadCloser
	buf  []byte
	done bool
}

func newBodyStream(body io.ReadCloser, chunkSize int) *bodyStream {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &bodyStream{body: body, buf: make([]byte, chunkSize)}
}

func (s *bodyStream) Next() ([]byte, error) {
	for !s.done {
		n, err := s.body.Read(s.buf)
		if errors.Is(err, io.EOF) {
			s.done = true
		} else if err != nil {
			return nil, err
		}
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, s.buf[:n])
			return chunk, nil
		}
	}
	return nil, io.EOF
}

func (s *bodyStream) Close() error {
	return s.body.Close()
}

// sliceStream replays chunks that were received in full.
type sliceStream struct {
	chunks [][]byte
}

func newSliceStream(chunks ...[]byte) *sliceStream {
	return &sliceStream{chunks: chunks}
}

func (s *sliceStream) Next() ([]byte, error) {
	if len(s.chunks) == 0 {
		return nil, io.EOF
	}
	chunk := s.chunks[0]
	s.chunks = s.chunks[1:]
	return chunk, nil
}

func (s *sliceStream) Close() error {
	s.chunks = nil
	return nil
}
