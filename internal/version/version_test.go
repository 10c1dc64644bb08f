package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersionInfo(t *testing.T) {
	v, c, d := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })

	Version = "dev"
	assert.Equal(t, "timetracker dev ("+runtime.GOOS+"/"+runtime.GOARCH+")", GetVersionInfo())

	Version, Commit, Date = "1.2.0", "abc123", "2026-10-01"
	info := GetVersionInfo()
	assert.Contains(t, info, "timetracker 1.2.0")
	assert.Contains(t, info, "commit: abc123")
	assert.Contains(t, info, "built: 2026-10-01")
}
