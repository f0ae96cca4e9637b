package domain

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/totegamma/filmpulse"
)

// Discriminator tags account data with the first 8 bytes of sha256("account:<Kind>").
func Discriminator(kind AccountKind) [DiscriminatorLength]byte {
	var d [DiscriminatorLength]byte
	sum := sha256.Sum256([]byte("account:" + string(kind)))
	copy(d[:], sum[:DiscriminatorLength])
	return d
}

// KindOf reports which account type data was encoded as.
func KindOf(data []byte) (AccountKind, error) {
	if len(data) < DiscriminatorLength {
		return "", fmt.Errorf("account data too short: %d bytes", len(data))
	}
	for _, kind := range []AccountKind{AccountKindReview, AccountKindVerification} {
		d := Discriminator(kind)
		if bytes.Equal(data[:DiscriminatorLength], d[:]) {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown account discriminator %x", data[:DiscriminatorLength])
}

func EncodeReview(r Review, layout Layout) ([]byte, error) {
	var w accountWriter
	w.discriminator(AccountKindReview)
	w.pubkey(r.Author)
	w.i64(r.Timestamp)
	w.str(r.Title)
	w.str(r.Essay)
	w.i32(r.Rating)
	return w.pad(layout.Size())
}

func DecodeReview(address filmpulse.Pubkey, data []byte) (Review, error) {
	rd := accountReader{data: data}
	rd.expect(AccountKindReview)
	r := Review{Address: address}
	r.Author = rd.pubkey()
	r.Timestamp = rd.i64()
	r.Title = rd.str()
	r.Essay = rd.str()
	r.Rating = rd.i32()
	if rd.err != nil {
		return Review{}, rd.err
	}
	return r, nil
}

func EncodeVerification(v Verification, layout Layout) ([]byte, error) {
	var w accountWriter
	w.discriminator(AccountKindVerification)
	w.pubkey(v.Author)
	w.i64(v.Timestamp)
	w.pubkey(v.ReviewKey)
	return w.pad(layout.Size())
}

func DecodeVerification(address filmpulse.Pubkey, data []byte) (Verification, error) {
	rd := accountReader{data: data}
	rd.expect(AccountKindVerification)
	v := Verification{Address: address}
	v.Author = rd.pubkey()
	v.Timestamp = rd.i64()
	v.ReviewKey = rd.pubkey()
	if rd.err != nil {
		return Verification{}, rd.err
	}
	return v, nil
}

type accountWriter struct {
	buf bytes.Buffer
}

func (w *accountWriter) discriminator(kind AccountKind) {
	d := Discriminator(kind)
	w.buf.Write(d[:])
}

func (w *accountWriter) pubkey(p filmpulse.Pubkey) {
	w.buf.Write(p[:])
}

func (w *accountWriter) i64(v int64) {
	w.buf.Write(binary.LittleEndian.AppendUint64(nil, uint64(v)))
}

func (w *accountWriter) i32(v int32) {
	w.buf.Write(binary.LittleEndian.AppendUint32(nil, uint32(v)))
}

func (w *accountWriter) str(s string) {
	w.buf.Write(binary.LittleEndian.AppendUint32(nil, uint32(len(s))))
	w.buf.WriteString(s)
}

// pad zero-fills the data up to the allocated size.
func (w *accountWriter) pad(size int) ([]byte, error) {
	if w.buf.Len() > size {
		return nil, fmt.Errorf("%w: %d > %d", ErrAccountOverflow, w.buf.Len(), size)
	}
	out := make([]byte, size)
	copy(out, w.buf.Bytes())
	return out, nil
}

type accountReader struct {
	data []byte
	off  int
	err  error
}

func (r *accountReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.off+n > len(r.data) {
		r.err = fmt.Errorf("account data truncated at offset %d", r.off)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *accountReader) expect(kind AccountKind) {
	b := r.take(DiscriminatorLength)
	if b == nil {
		return
	}
	d := Discriminator(kind)
	if !bytes.Equal(b, d[:]) {
		r.err = fmt.Errorf("account is not a %s", kind)
	}
}

func (r *accountReader) pubkey() filmpulse.Pubkey {
	var p filmpulse.Pubkey
	copy(p[:], r.take(PublicKeyLength))
	return p
}

func (r *accountReader) i64() int64 {
	b := r.take(TimestampLength)
	if b == nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(b))
}

func (r *accountReader) i32() int32 {
	b := r.take(RatingLength)
	if b == nil {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(b))
}

func (r *accountReader) str() string {
	b := r.take(StringLengthPrefix)
	if b == nil {
		return ""
	}
	return string(r.take(int(binary.LittleEndian.Uint32(b))))
}
