package attachment

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spec-kit/helpdesk-request/internal/domain"
)

// CandidateFromFile builds a candidate from a local file. Files over the size
// limit are described but not read.
func CandidateFromFile(path string) (domain.FileCandidate, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.FileCandidate{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return domain.FileCandidate{}, fmt.Errorf("%s is a directory", path)
	}

	name := filepath.Base(path)
	candidate := domain.FileCandidate{
		Name:      name,
		SizeBytes: info.Size(),
		MimeType:  DetectMIME(name),
	}
	if info.Size() > MaxFileBytes {
		return candidate, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return domain.FileCandidate{}, fmt.Errorf("read %s: %w", path, err)
	}
	candidate.Content = content
	candidate.SizeBytes = int64(len(content))
	return candidate, nil
}
