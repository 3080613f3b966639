package buildinfo

import "fmt"

// Set with -ldflags "-X github.com/strogmv/userstore/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("userstore %s (commit=%s, date=%s)", Version, Commit, Date)
}
