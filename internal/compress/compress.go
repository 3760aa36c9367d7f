package compress

import "fmt"

// Compress encodes payloads before they leave the process and decodes them on the way back.
type Compress interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

var (
	_ Compress = Nop{}
	_ Compress = GZip{}
	_ Compress = LZ4{}
	_ Compress = Brotli{}
)

// ByName returns the codec registered under name; the empty name means no compression.
func ByName(name string) (Compress, error) {
	switch name {
	case "", "nop", "none":
		return NewNop(), nil
	case "gzip":
		return NewGZip(), nil
	case "lz4":
		return NewLZ4(), nil
	case "brotli":
		return NewBrotli(), nil
	default:
		return nil, fmt.Errorf("unknown compression %q", name)
	}
}

// Nop passes payloads through untouched.
type Nop struct{}

func NewNop() Nop {
	return Nop{}
}

func (n Nop) Encode(data []byte) ([]byte, error) {
	return data, nil
}

func (n Nop) Decode(data []byte) ([]byte, error) {
	return data, nil
}
