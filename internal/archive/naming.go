package archive

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Suffix is the file name suffix shared by all archives.
const Suffix = ".zones.tar.zst"

// Filename returns the archive file name for a prefix and creation time:
// {prefix}_{unix-timestamp}.zones.tar.zst
func Filename(prefix string, ts time.Time) string {
	return fmt.Sprintf("%s_%d%s", prefix, ts.Unix(), Suffix)
}

// LatestName returns the name of the symlink pointing at the newest archive.
func LatestName(prefix string) string {
	return prefix + "_latest"
}

// ParseTimestamp extracts the embedded creation time from an archive file
// name. The second return value is false when the name does not follow the
// naming convention for the given prefix.
func ParseTimestamp(name, prefix string) (time.Time, bool) {
	rest, ok := strings.CutPrefix(name, prefix+"_")
	if !ok {
		return time.Time{}, false
	}
	stamp, ok := strings.CutSuffix(rest, Suffix)
	if !ok {
		return time.Time{}, false
	}
	unix, err := strconv.ParseInt(stamp, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(unix, 0).UTC(), true
}
