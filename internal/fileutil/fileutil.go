package fileutil

import "os"

// OwnerReadWrite is the file permission mode for resolved context dumps,
// which may contain sensitive API details (owner read/write only).
const OwnerReadWrite os.FileMode = 0o600

// ReadableByAll is the file permission mode for rendered output files
// intended to be read by build tools and other users.
const ReadableByAll os.FileMode = 0o644
