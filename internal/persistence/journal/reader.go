package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/klauspost/compress/zstd"

	"skirmish.ai/internal/session"
)

// Files lists journal files under dir in chronological order.
func Files(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+fileExt))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// ReadFile decodes every turn in one journal file. Appended zstd frames are read as one
// stream.
func ReadFile(path string, fn func(session.TurnRecord) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var r session.TurnRecord
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			return fmt.Errorf("%s:%d: %w", filepath.Base(path), line, err)
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	return sc.Err()
}

// ReadDir reads all journal files under dir, oldest first.
func ReadDir(dir string, fn func(session.TurnRecord) error) error {
	paths, err := Files(dir)
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := ReadFile(p, fn); err != nil {
			return err
		}
	}
	return nil
}
