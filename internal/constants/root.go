package constants

const (
	AppName = "voxdiary"
	Version = "v0.3.1"

	// DefaultKeyringUser names the keyring account holding the transcription API key.
	DefaultKeyringUser = "openai-api-key"

	// APIKeyEnvVar overrides the keyring credential when set.
	APIKeyEnvVar = "VOXDIARY_OPENAI_API_KEY"

	// DefaultDataDir is the default location of the entry directory.
	DefaultDataDir = "~/.local/share/voxdiary"

	// IndexFileName is the durable list of entry ids inside the data directory.
	IndexFileName = "index.json"

	// AudioFileExt is the extension used for entry-owned audio blobs.
	AudioFileExt = ".m4a"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DateTimeFormat is used when printing entry timestamps.
	DateTimeFormat = "2006-01-02 15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "voxdiary-"
	BackupFileSuffix = ".zip"

	// LogDirName holds rotated log files inside the data directory.
	LogDirName = "logs"
)
