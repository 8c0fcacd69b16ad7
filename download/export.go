package download

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sanjacob/kangaroo/errors"
)

// DefaultFilenameFormat names output files by batch number.
const DefaultFilenameFormat = "certificate_data_%03d.json"

// Result describes a saved batch file.
type Result struct {
	Path  string `json:"path"`
	Bytes int64  `json:"bytes"`
	MD5   string `json:"md5"`
	SHA1  string `json:"sha1"`
}

// Save writes the task's records to a JSON file under folder, named by
// formatting the batch number into format. The folder must already
// exist, and an existing file is not overwritten unless overwrite is
// set. On success the task moves to the saved state.
func (t *Task) Save(folder, format string, overwrite bool) (*Result, error) {
	if format == "" {
		format = DefaultFilenameFormat
	}
	if !strings.Contains(format, "%") {
		return nil, errors.Newf("filename format has no batch placeholder: %q", format)
	}

	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		return nil, errors.Wrapf(errors.ErrFolderMissing, "%s", folder)
	}

	path := filepath.Join(folder, fmt.Sprintf(format, t.Batch))
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return nil, errors.Wrapf(errors.ErrFileExists, "%s", path)
		}
	}

	data, err := json.MarshalIndent(t.Records(), "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode records")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, errors.Wrapf(err, "failed to write %s", path)
	}

	result := &Result{
		Path:  path,
		Bytes: int64(len(data)),
		MD5:   fmt.Sprintf("%x", md5.Sum(data)),
		SHA1:  fmt.Sprintf("%x", sha1.Sum(data)),
	}

	t.mu.Lock()
	if t.state == StateCompleted || t.state == StateStopped {
		t.state = StateSaved
	}
	t.mu.Unlock()

	t.log.Infow("Saved batch file",
		"task", t.ID,
		"path", result.Path,
		"bytes", result.Bytes,
		"md5", result.MD5,
		"sha1", result.SHA1)

	return result, nil
}
