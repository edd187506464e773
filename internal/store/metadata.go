package store

// MetadataKey names a persisted counter.
type MetadataKey string

const (
	MetadataFileCounter   MetadataKey = "file_counter"
	MetadataSymbolCounter MetadataKey = "symbol_counter"
)

func (k MetadataKey) String() string { return string(k) }
