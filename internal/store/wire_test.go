package store

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	req := &Request{
		ID:     7,
		Method: MethodBatch,
		Batch: []BatchRequest{
			NewPut("bucket", "k1", Value{"name": "a", "sharks": []any{map[string]any{"datacenter": "foo"}}}, MethodOptions{}),
		},
		Options: MethodOptions{ReqID: "req-1"},
	}
	require.NoError(t, WriteFrame(w, FrameRequest, req))

	header := buf.Bytes()[:frameHeaderSize]
	require.Equal(t, byte(FrameRequest), header[0])
	require.Equal(t, uint32(buf.Len()-frameHeaderSize), binary.BigEndian.Uint32(header[1:]))

	var got Request
	typ, err := ReadFrame(bufio.NewReader(&buf), &got)
	require.NoError(t, err)
	require.Equal(t, FrameRequest, typ)
	require.Equal(t, uint64(7), got.ID)
	require.Equal(t, "req-1", got.Options.ReqID)
	require.Len(t, got.Batch, 1)
	require.Equal(t, BatchOpPut, got.Batch[0].Op)
	require.Equal(t, "k1", got.Batch[0].Key)
	require.Equal(t, "a", got.Batch[0].Value["name"])
}

func TestReadFrameRejectsUnknownType(t *testing.T) {
	frame := []byte{9, 0, 0, 0, 0}
	_, err := ReadFrame(bufio.NewReader(bytes.NewReader(frame)), &Response{})
	require.ErrorIs(t, err, ErrProtocol)
}

func TestReadFrameRejectsOversizedFrame(t *testing.T) {
	frame := make([]byte, frameHeaderSize)
	frame[0] = byte(FrameResponse)
	binary.BigEndian.PutUint32(frame[1:], MaxFrameSize+1)

	_, err := ReadFrame(bufio.NewReader(bytes.NewReader(frame)), &Response{})
	require.ErrorIs(t, err, ErrProtocol)
}

func TestReadFrameTruncated(t *testing.T) {
	frame := []byte{byte(FrameResponse), 0, 0, 0, 10, 1, 2}
	_, err := ReadFrame(bufio.NewReader(bytes.NewReader(frame)), &Response{})
	require.True(t, errors.Is(err, io.ErrUnexpectedEOF), "got %v", err)
}

func TestRemoteErrorBucketNotFound(t *testing.T) {
	err := &Error{Op: MethodGetBucket, Bucket: "b", Err: &remoteError{code: CodeBucketNotFound, message: "b does not exist"}}
	require.ErrorIs(t, err, ErrBucketNotFound)
	require.Contains(t, err.Error(), "store getBucket b: BucketNotFoundError: b does not exist")

	other := &Error{Op: MethodPutObject, Err: &remoteError{message: "boom"}}
	require.NotErrorIs(t, other, ErrBucketNotFound)
}
