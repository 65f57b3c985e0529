package config

const (
	// MaxUploadSizeBytes is the largest accepted payload (100 MiB). The
	// upload layer enforces this before the core sees the bytes; the
	// object-storage backend also uses it to bound get buffers.
	MaxUploadSizeBytes = 100 << 20

	// MaxFileNameLength is the maximum length for file names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxFileNameLength = 255

	// MaxFolderNameLength is the maximum length for folder names.
	// Same as file names for consistency.
	MaxFolderNameLength = 255

	// MaxJSONBodyBytes bounds JSON request bodies (uploads go through
	// multipart, not JSON).
	MaxJSONBodyBytes = 1 << 20

	// DefaultQuotaBytes is the fixed per-account byte budget (10 GiB).
	// There are no tiers; only usedBytes varies per owner.
	DefaultQuotaBytes = 10 << 30
)
