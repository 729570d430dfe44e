package registry

// Entry is one launchable application.
//
// Entries are values; the registry hands out copies, so holding one never
// aliases registry state. ID, Name, Description, Executable and Secondary
// are the domain fields used for ranking and usage tracking. The rest is
// launch data passed through to the process launcher.
type Entry struct {
	ID          string
	Name        string
	Description string
	Executable  string
	Secondary   bool

	AppName  string // Name without the channel suffix
	Exec     string // raw command line with field codes
	Terminal bool   // run inside the configured terminal
	WorkDir  string // working directory for the process, may be empty
	Icon     string
	File     string // descriptor path on disk
}

// Location is one directory the application source is asked to scan.
//
// Channel names a secondary distribution channel ("Flatpak", "Snap").
// Entries found in a location with a channel are marked Secondary and
// their name gets " (<Channel>)" appended.
type Location struct {
	Dir     string `json:"dir"`
	Channel string `json:"channel,omitempty"`
}

// Secondary reports whether the location belongs to a secondary channel.
func (l Location) Secondary() bool {
	return l.Channel != ""
}

// Descriptor is a raw application record as read by a [Source].
type Descriptor struct {
	ID          string // canonical id, may be empty
	Name        string
	Description string
	Executable  string // may be empty
	NoDisplay   bool
	Hidden      bool
	Unavailable bool // TryExec binary missing

	Exec     string
	Terminal bool
	WorkDir  string
	Icon     string
	File     string
}

// Result is one item produced by [Source.ListEntries]. Exactly one of
// Descriptor and Err is set.
type Result struct {
	Path       string
	Descriptor *Descriptor
	Err        error
}

// Source enumerates raw descriptors for a location.
//
// ListEntries returns an error only when the location as a whole cannot
// be read. A missing location returns an error satisfying
// errors.Is(err, fs.ErrNotExist). Per-descriptor problems are reported in
// Result.Err and never abort the listing.
type Source interface {
	ListEntries(loc Location) ([]Result, error)
}
