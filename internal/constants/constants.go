package constants

// Sidecar filenames written next to (or inside) the directories the pipeline
// manages. These names are owned by the pipeline; nothing else reads or
// writes them.
const (
	SignatureFileName  = ".unpacksort.sig"
	CompletionFileName = ".unpacksort.done"
	OwnershipFileName  = ".unpacksort.owned"

	// TempDirName is the fixed sentinel name of the extraction output
	// directory created inside each source directory. Fixed on purpose:
	// the normalizer skips it when deriving a title candidate.
	TempDirName = "_unpacked"

	// RulesFileName is the user-editable override rules file, one
	// "pattern|replacement" per line, living in the config directory.
	RulesFileName = "rules.txt"

	// JournalFileName is the processed-directory history, living in the
	// config directory next to the rules file.
	JournalFileName = "history.json"

	// ConfigDirName is the per-user configuration directory under $HOME.
	ConfigDirName = ".unpacksort"
)

// VideoExtensions are the container extensions the pipeline recognizes as
// playable video when deciding whether extracted output is usable.
var VideoExtensions = map[string]bool{
	".mkv": true, ".mp4": true, ".avi": true, ".mov": true, ".wmv": true,
	".flv": true, ".m4v": true, ".mpg": true, ".mpeg": true, ".ts": true,
}
