package abi

import (
	"fmt"
	"sync"

	"github.com/ideamans/go-l10n"
	"github.com/user/decodekit/pkg/frame"
	"github.com/user/decodekit/pkg/ports"
)

// Kind identifies a codec adapter.
type Kind string

const (
	KindAV1  Kind = "av1"
	KindHEVC Kind = "hevc"
	KindVP9  Kind = "vp9"
)

// Exports is the uniform flat interface over the registered codec
// libraries. Every operation degrades to an empty result (token 0 or a
// no-op) on failure; nothing panics on bad input or stale tokens.
//
// Calls on one decoder handle must be issued sequentially; the internal
// lock only protects the token table, not decode work on a session.
type Exports struct {
	mu    sync.Mutex
	libs  map[Kind]ports.CodecLibrary
	table arena
	log   ports.Logger
}

type decoderEntry struct {
	kind    Kind
	session ports.DecoderSession
}

type recordEntry struct {
	rec frame.Record
}

// New creates an Exports with no codec libraries registered.
func New(log ports.Logger) *Exports {
	return &Exports{
		libs: make(map[Kind]ports.CodecLibrary),
		log:  log.WithComponent("abi"),
	}
}

// Register adds a codec library. Registering the same kind twice replaces
// the earlier library.
func (e *Exports) Register(kind Kind, lib ports.CodecLibrary) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.libs[kind] = lib
}

// CreateDecoder opens a new decoder session and returns its handle.
// Returns 0 if the codec is unknown, the library is unavailable, or the
// session could not be created.
func (e *Exports) CreateDecoder(kind Kind) uint32 {
	e.mu.Lock()
	lib, ok := e.libs[kind]
	e.mu.Unlock()
	if !ok {
		e.log.Warn(l10n.F("no library registered for codec %s", string(kind)))
		return 0
	}
	if !lib.Available() {
		e.log.Warn(l10n.F("%s library is not available", lib.Name()))
		return 0
	}

	session, err := lib.NewSession()
	if err != nil {
		e.log.Warn("create %s decoder: %v", lib.Name(), err)
		return 0
	}

	e.mu.Lock()
	handle := e.table.put(&decoderEntry{kind: kind, session: session})
	e.mu.Unlock()
	if handle == 0 {
		session.Close()
	}
	return handle
}

// Configure pushes out-of-band configuration bytes to a decoder.
// Best-effort: configuration errors and invalid handles are absorbed so
// hosts can treat all codecs uniformly, including those whose adapters
// ignore configuration entirely.
func (e *Exports) Configure(handle uint32, config []byte) {
	dec, ok := e.decoder(handle)
	if !ok {
		return
	}
	if err := dec.session.Configure(config); err != nil {
		e.log.Debug("configure %s: %v", string(dec.kind), err)
	}
}

// Decode feeds one chunk of compressed data and returns a frame record
// token, or 0 when no picture is available yet. A 0 return is not an
// error; reordering codecs buffer input before emitting pictures.
func (e *Exports) Decode(handle uint32, data []byte, keyframe bool) uint32 {
	if len(data) == 0 {
		return 0
	}
	dec, ok := e.decoder(handle)
	if !ok {
		return 0
	}

	pic, err := dec.session.Decode(data, keyframe)
	if err != nil {
		e.log.Debug("decode %s: %v", string(dec.kind), err)
		return 0
	}
	return e.extract(pic)
}

// Flush drains one buffered picture after end-of-stream. Returns 0 once
// the decoder is empty; hosts call Flush repeatedly to exhaust a backlog.
func (e *Exports) Flush(handle uint32) uint32 {
	dec, ok := e.decoder(handle)
	if !ok {
		return 0
	}

	pic, err := dec.session.Flush()
	if err != nil {
		e.log.Debug("flush %s: %v", string(dec.kind), err)
		return 0
	}
	return e.extract(pic)
}

// Destroy closes a decoder session and invalidates its handle.
// Unknown or already-destroyed handles are a no-op.
func (e *Exports) Destroy(handle uint32) {
	e.mu.Lock()
	v, ok := e.table.take(handle)
	e.mu.Unlock()
	if !ok {
		return
	}
	dec, ok := v.(*decoderEntry)
	if !ok {
		return
	}
	if err := dec.session.Close(); err != nil {
		e.log.Debug("close %s: %v", string(dec.kind), err)
	}
}

// FreeFrame releases a frame record and its three plane buffers. This is
// the only release path for records; unknown or already-freed tokens are
// a no-op, so double-free degrades harmlessly instead of corrupting.
func (e *Exports) FreeFrame(token uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.table.take(token)
	if !ok {
		return
	}
	rec, ok := v.(*recordEntry)
	if !ok {
		return
	}
	e.table.take(rec.rec.YPtr)
	e.table.take(rec.rec.UPtr)
	e.table.take(rec.rec.VPtr)
}

// ReadRecord returns the 36-byte binary header of a frame record.
func (e *Exports) ReadRecord(token uint32) ([]byte, bool) {
	e.mu.Lock()
	v, ok := e.table.get(token)
	e.mu.Unlock()
	if !ok {
		return nil, false
	}
	rec, ok := v.(*recordEntry)
	if !ok {
		return nil, false
	}
	buf, err := rec.rec.MarshalBinary()
	if err != nil {
		return nil, false
	}
	return buf, true
}

// ReadBuffer returns the bytes of a plane buffer referenced by a record's
// yPtr/uPtr/vPtr token.
func (e *Exports) ReadBuffer(token uint32) ([]byte, bool) {
	e.mu.Lock()
	v, ok := e.table.get(token)
	e.mu.Unlock()
	if !ok {
		return nil, false
	}
	buf, ok := v.([]byte)
	return buf, ok
}

// Frame reassembles a full frame from a record token. Convenience for
// in-process hosts; the record and planes stay live until FreeFrame.
func (e *Exports) Frame(token uint32) (*frame.Frame, error) {
	buf, ok := e.ReadRecord(token)
	if !ok {
		return nil, fmt.Errorf("abi: unknown frame token %d", token)
	}
	var rec frame.Record
	if err := rec.UnmarshalBinary(buf); err != nil {
		return nil, err
	}
	y, okY := e.ReadBuffer(rec.YPtr)
	u, okU := e.ReadBuffer(rec.UPtr)
	v, okV := e.ReadBuffer(rec.VPtr)
	if !okY || !okU || !okV {
		return nil, fmt.Errorf("abi: frame token %d has dangling planes", token)
	}
	return &frame.Frame{
		Width:    int(rec.Width),
		Height:   int(rec.Height),
		Chroma:   ports.ChromaFormat(rec.ChromaFormat),
		BitDepth: int(rec.BitDepth),
		Y:        y,
		U:        u,
		V:        v,
	}, nil
}

// Live returns the number of live table entries (sessions, records and
// plane buffers). Useful for leak checks.
func (e *Exports) Live() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.table.live
}

func (e *Exports) decoder(handle uint32) (*decoderEntry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.table.get(handle)
	if !ok {
		return nil, false
	}
	dec, ok := v.(*decoderEntry)
	return dec, ok
}

// extract copies a decoded picture into the table as one record plus
// three plane buffers, then releases the library's picture reference.
// Returns the record token, or 0 when pic is nil (still buffering) or
// extraction failed.
func (e *Exports) extract(pic ports.Picture) uint32 {
	if pic == nil {
		return 0
	}
	defer pic.Close()

	f, err := frame.Extract(pic)
	if err != nil {
		e.log.Debug("extract picture: %v", err)
		return 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	yTok := e.table.put(f.Y)
	uTok := e.table.put(f.U)
	vTok := e.table.put(f.V)
	if yTok == 0 || uTok == 0 || vTok == 0 {
		e.table.take(yTok)
		e.table.take(uTok)
		e.table.take(vTok)
		return 0
	}

	rec := &recordEntry{rec: frame.Record{
		Width:        int32(f.Width),
		Height:       int32(f.Height),
		ChromaFormat: int32(f.Chroma),
		BitDepth:     int32(f.BitDepth),
		YPtr:         yTok,
		UPtr:         uTok,
		VPtr:         vTok,
		YSize:        int32(f.YSize()),
		UVSize:       int32(f.UVSize()),
	}}
	token := e.table.put(rec)
	if token == 0 {
		e.table.take(yTok)
		e.table.take(uTok)
		e.table.take(vTok)
	}
	return token
}
