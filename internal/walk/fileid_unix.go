//go:build unix

package walk

import "golang.org/x/sys/unix"

// FileID uniquely identifies a directory on POSIX platforms via its
// (device, inode) pair, for loop avoidance (spec.md §3 "FileId").
type FileID struct {
	Dev, Ino uint64
}

// fileIDFor stats path and returns its FileID. ok is false if the platform
// cannot supply one (never the case on unix).
func fileIDFor(path string) (FileID, bool, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return FileID{}, false, err
	}
	return FileID{Dev: uint64(st.Dev), Ino: uint64(st.Ino)}, true, nil
}
