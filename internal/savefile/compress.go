package savefile

import (
	"encoding/binary"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Algorithm identifies the whole-buffer compression algorithm. The choice
// is not recorded in the file - reader and writer must agree, the same way
// they agree on the compress option itself.
type Algorithm uint8

const (
	// AlgoZstd is the default: zstd at the default level. Save trees are
	// mostly repeated field names and small integers, which zstd handles
	// well (~3-5x).
	AlgoZstd Algorithm = 0

	// AlgoLZ4 is the fast alternative: LZ4 block mode with a raw-size
	// prefix (block decompression needs the destination size up front).
	AlgoLZ4 Algorithm = 1
)

// String returns the algorithm name.
func (a Algorithm) String() string {
	switch a {
	case AlgoZstd:
		return "zstd"
	case AlgoLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(a))
	}
}

// ParseAlgorithm parses an algorithm from its string name.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "zstd", "":
		return AlgoZstd, nil
	case "lz4":
		return AlgoLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression algorithm: %q", name)
	}
}

// zstdEncoder and zstdDecoder are reused across calls to avoid repeated
// initialization overhead. Both are safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("savefile: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("savefile: zstd decoder initialization failed: " + err.Error())
	}
}

// compress compresses the framed buffer with the selected algorithm.
func compress(data []byte, algo Algorithm) ([]byte, error) {
	switch algo {
	case AlgoZstd:
		return zstdEncoder.EncodeAll(data, nil), nil

	case AlgoLZ4:
		// Layout: rawSize:u32, stored:u8 (1 = raw copy), payload. LZ4
		// block mode has no stored-block escape of its own, and
		// CompressBlock returns 0 for incompressible input.
		bound := lz4.CompressBlockBound(len(data))
		out := make([]byte, 5+bound)
		binary.LittleEndian.PutUint32(out[:4], uint32(len(data)))
		written, err := lz4.CompressBlock(data, out[5:], nil)
		if err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if written == 0 || written >= len(data) {
			out[4] = 1
			n := copy(out[5:], data)
			return out[:5+n], nil
		}
		out[4] = 0
		return out[:5+written], nil

	default:
		return nil, fmt.Errorf("unknown compression algorithm: %d", algo)
	}
}

// decompress reverses compress.
func decompress(data []byte, algo Algorithm) ([]byte, error) {
	switch algo {
	case AlgoZstd:
		out, err := zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		return out, nil

	case AlgoLZ4:
		if len(data) < 5 {
			return nil, fmt.Errorf("lz4 decompress: buffer too short for header")
		}
		rawSize := binary.LittleEndian.Uint32(data[:4])
		if data[4] == 1 {
			if len(data)-5 != int(rawSize) {
				return nil, fmt.Errorf("lz4 decompress: stored block is %d bytes, expected %d", len(data)-5, rawSize)
			}
			out := make([]byte, rawSize)
			copy(out, data[5:])
			return out, nil
		}
		out := make([]byte, rawSize)
		read, err := lz4.UncompressBlock(data[5:], out)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if read != int(rawSize) {
			return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, rawSize)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unknown compression algorithm: %d", algo)
	}
}
