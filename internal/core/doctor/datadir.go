package doctor

import (
	"context"
	"os"
	"path/filepath"
)

// DataDirCheck verifies the data directory, where logs are written, is usable.
type DataDirCheck struct {
	dir string
	fix bool
}

// NewDataDirCheck creates a data directory check. With fix set, a missing
// directory is created.
func NewDataDirCheck(dir string, fix bool) *DataDirCheck {
	return &DataDirCheck{dir: dir, fix: fix}
}

func (c *DataDirCheck) Name() string {
	return "Data Directory"
}

func (c *DataDirCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	info, err := os.Stat(c.dir)
	switch {
	case os.IsNotExist(err) && c.fix:
		if err := os.MkdirAll(c.dir, 0o755); err != nil {
			result.Items = append(result.Items, CheckItem{Label: c.dir, Status: StatusFail, Detail: err.Error()})
			return result
		}
		result.Items = append(result.Items, CheckItem{Label: c.dir, Status: StatusPass, Detail: "created"})
		return result
	case os.IsNotExist(err):
		result.Items = append(result.Items, CheckItem{
			Label:   c.dir,
			Status:  StatusWarn,
			Detail:  "does not exist",
			Fixable: true,
		})
		return result
	case err != nil:
		result.Items = append(result.Items, CheckItem{Label: c.dir, Status: StatusFail, Detail: err.Error()})
		return result
	case !info.IsDir():
		result.Items = append(result.Items, CheckItem{Label: c.dir, Status: StatusFail, Detail: "not a directory"})
		return result
	}

	probe, err := os.CreateTemp(c.dir, ".khatt-doctor-*")
	if err != nil {
		result.Items = append(result.Items, CheckItem{Label: c.dir, Status: StatusFail, Detail: "not writable"})
		return result
	}
	_ = probe.Close()
	_ = os.Remove(filepath.Clean(probe.Name()))

	result.Items = append(result.Items, CheckItem{Label: c.dir, Status: StatusPass, Detail: "writable"})
	return result
}
