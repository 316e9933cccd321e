// Package snapshot persists sentinel snapshots so a restarted host resumes
// with its alert state and memory intact.
package snapshot

import (
	"context"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"triad/internal/threat/models"
	"triad/pkg/platform/codec"
)

// Store saves and loads snapshots by sentinel name. Load returns
// sentinel.ErrNotFound when nothing was saved under name.
type Store interface {
	Save(ctx context.Context, name string, snap models.Snapshot) error
	Load(ctx context.Context, name string) (*models.Snapshot, error)
}

// Encoder and decoder are safe for concurrent use.
var (
	encoder *zstd.Encoder
	decoder *zstd.Decoder
)

func init() {
	var err error
	encoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("snapshot: zstd encoder initialization failed: " + err.Error())
	}
	decoder, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(64<<20))
	if err != nil {
		panic("snapshot: zstd decoder initialization failed: " + err.Error())
	}
}

// Encode serializes snap as zstd-compressed canonical CBOR.
func Encode(snap models.Snapshot) ([]byte, error) {
	raw, err := codec.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return encoder.EncodeAll(raw, make([]byte, 0, len(raw)/2)), nil
}

// Decode reverses Encode.
func Decode(data []byte) (*models.Snapshot, error) {
	raw, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress snapshot: %w", err)
	}
	var snap models.Snapshot
	if err := codec.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}
