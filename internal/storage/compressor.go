package storage

import (
	"fmt"
	"statcache/internal/structures"

	"github.com/klauspost/compress/zstd"
)

// CompressorInterface encodes documents before they reach the store.
type CompressorInterface interface {
	Compress(val []byte) ([]byte, error)
	Decompress(val []byte) ([]byte, error)
}

type ZstdCompression struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func (z *ZstdCompression) Compress(val []byte) ([]byte, error) {
	return z.encoder.EncodeAll(val, make([]byte, 0, len(val)/2)), nil
}

func (z *ZstdCompression) Decompress(val []byte) ([]byte, error) {
	return z.decoder.DecodeAll(val, nil)
}

func NewZstdCompressor() (CompressorInterface, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &ZstdCompression{encoder: encoder, decoder: decoder}, nil
}

type identityCompression struct{}

func (identityCompression) Compress(val []byte) ([]byte, error)   { return val, nil }
func (identityCompression) Decompress(val []byte) ([]byte, error) { return val, nil }

// NewCompressor returns zstd when store.compress is set, identity otherwise.
func NewCompressor(conf *structures.Config) (CompressorInterface, error) {
	if !conf.Store.Compress {
		return identityCompression{}, nil
	}
	return NewZstdCompressor()
}
