package idcodec

import "github.com/codeintel/symgraph/internal/types"

// EncodeSymbolID encodes a SymbolID as base-63.
func EncodeSymbolID(id types.SymbolID) string { return Encode(uint64(id)) }

// DecodeSymbolID decodes a base-63 string to a SymbolID.
func DecodeSymbolID(encoded string) (types.SymbolID, error) {
	value, err := Decode(encoded)
	if err != nil {
		return 0, err
	}
	if value > uint64(^types.SymbolID(0)) {
		return 0, ErrOverflow
	}
	return types.SymbolID(value), nil
}

// EncodeFileID encodes a FileID as base-63.
func EncodeFileID(id types.FileID) string { return Encode(uint64(id)) }

// DecodeFileID decodes a base-63 string to a FileID.
func DecodeFileID(encoded string) (types.FileID, error) {
	value, err := Decode(encoded)
	if err != nil {
		return 0, err
	}
	if value > uint64(^types.FileID(0)) {
		return 0, ErrOverflow
	}
	return types.FileID(value), nil
}

// EncodeComposite encodes a CompositeID (FileID in the low 32 bits, Local
// ordinal in the high 32 bits) as a single base-63 string.
func EncodeComposite(id types.CompositeID) string {
	return EncodeNoZero(packUint32Pair(uint32(id.File), id.Local))
}

// DecodeComposite decodes a base-63 string produced by EncodeComposite.
func DecodeComposite(encoded string) (types.CompositeID, error) {
	if encoded == "" {
		return types.CompositeID{}, ErrEmptyString
	}
	packed, err := Decode(encoded)
	if err != nil {
		return types.CompositeID{}, err
	}
	lower, upper := unpackUint32Pair(packed)
	return types.CompositeID{File: types.FileID(lower), Local: upper}, nil
}
