package ifc

import (
	"strconv"

	"github.com/google/uuid"
)

// guidChars is the IFC base64 alphabet.
const guidChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz_$"

// CompressGUID encodes a UUID as a 22-character IFC GlobalId.
// The first byte yields two characters, each following 3-byte group yields four.
func CompressGUID(id uuid.UUID) string {
	out := make([]byte, 0, 22)
	out = appendBase64(out, uint32(id[0]), 2)
	for i := 1; i < 16; i += 3 {
		v := uint32(id[i])<<16 | uint32(id[i+1])<<8 | uint32(id[i+2])
		out = appendBase64(out, v, 4)
	}
	return string(out)
}

// ExpandGUID decodes a 22-character IFC GlobalId.
func ExpandGUID(g string) (uuid.UUID, error) {
	var id uuid.UUID
	if len(g) != 22 {
		return id, errInvalidGUID(g)
	}
	v, ok := decodeBase64(g[0:2])
	if !ok || v > 0xff {
		return id, errInvalidGUID(g)
	}
	id[0] = byte(v)
	for i, pos := 1, 2; i < 16; i, pos = i+3, pos+4 {
		v, ok := decodeBase64(g[pos : pos+4])
		if !ok {
			return id, errInvalidGUID(g)
		}
		id[i] = byte(v >> 16)
		id[i+1] = byte(v >> 8)
		id[i+2] = byte(v)
	}
	return id, nil
}

func appendBase64(out []byte, v uint32, n int) []byte {
	buf := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		buf[i] = guidChars[v%64]
		v /= 64
	}
	return append(out, buf...)
}

func decodeBase64(s string) (uint32, bool) {
	var v uint32
	for i := 0; i < len(s); i++ {
		idx := -1
		for j := 0; j < len(guidChars); j++ {
			if guidChars[j] == s[i] {
				idx = j
				break
			}
		}
		if idx < 0 {
			return 0, false
		}
		v = v*64 + uint32(idx)
	}
	return v, true
}

// guidSource hands out GlobalIds. A seeded source is deterministic.
type guidSource struct {
	namespace uuid.UUID
	seeded    bool
	n         int
}

func newGUIDSource(seed string) *guidSource {
	if seed == "" {
		return &guidSource{}
	}
	return &guidSource{
		namespace: uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:msp2ifc:"+seed)),
		seeded:    true,
	}
}

func (g *guidSource) next() string {
	g.n++
	if !g.seeded {
		return CompressGUID(uuid.New())
	}
	return CompressGUID(uuid.NewSHA1(g.namespace, []byte(strconv.Itoa(g.n))))
}
