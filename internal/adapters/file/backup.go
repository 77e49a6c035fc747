package file

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/crank/pkg/domain"
)

// maxBackups bounds the 3-digit suffix space.
const maxBackups = 1000

// BackupName returns path with a zero-padded 3-digit sequence suffix.
func BackupName(path string, seq int) string {
	return fmt.Sprintf("%s.%03d", path, seq)
}

// Backup copies path to the first unused BackupName and returns it.
func Backup(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &domain.FileError{File: path, Op: "backup", Err: err}
	}
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	for seq := 0; seq < maxBackups; seq++ {
		name := BackupName(path, seq)
		f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", &domain.FileError{File: path, Op: "backup", Err: err}
		}
		if _, err := f.Write(data); err != nil {
			_ = f.Close()
			return "", &domain.FileError{File: path, Op: "backup", Err: err}
		}
		if err := f.Close(); err != nil {
			return "", &domain.FileError{File: path, Op: "backup", Err: err}
		}
		return name, nil
	}
	return "", &domain.FileError{File: path, Op: "backup", Err: fmt.Errorf("all %d backup names are taken", maxBackups)}
}
