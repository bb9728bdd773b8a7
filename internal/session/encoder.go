package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
)

const blobFormatVersionCurrent = 1

// ErrBlobInvalid is returned when a durable blob fails to decode.
var ErrBlobInvalid = errors.New("invalid session blob")

// Encode serializes the durable form of a session: format version byte
// followed by the length-prefixed access and refresh tokens. Account
// identity is deliberately excluded; it is re-fetched and re-validated
// against the live API on restore.
func Encode(s *Session) ([]byte, error) {
	if !s.Authenticated() {
		return nil, errors.New("session holds no token pair")
	}

	var buf bytes.Buffer
	buf.WriteByte(blobFormatVersionCurrent)

	for _, field := range []string{s.AccessToken, s.RefreshToken} {
		if len(field) > math.MaxUint16 {
			return nil, errors.New("token too long")
		}
		if err := binary.Write(&buf, binary.BigEndian, uint16(len(field))); err != nil {
			return nil, err
		}
		buf.WriteString(field)
	}

	return buf.Bytes(), nil
}

// Decode parses a durable blob back into a token pair. The returned
// session carries no account identity.
func Decode(data []byte) (*Session, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, ErrBlobInvalid
	}
	if version != blobFormatVersionCurrent {
		return nil, ErrBlobInvalid
	}

	fields := make([]string, 2)
	for i := range fields {
		var n uint16
		if err := binary.Read(reader, binary.BigEndian, &n); err != nil {
			return nil, ErrBlobInvalid
		}
		raw := make([]byte, n)
		if _, err := io.ReadFull(reader, raw); err != nil {
			return nil, ErrBlobInvalid
		}
		fields[i] = string(raw)
	}

	if reader.Len() != 0 {
		return nil, ErrBlobInvalid
	}

	s := &Session{}
	s.SetTokens(fields[0], fields[1])
	if !s.Authenticated() {
		return nil, ErrBlobInvalid
	}
	return s, nil
}
