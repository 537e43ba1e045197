package smartfarm

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// LoadError reports a farm list file that could not be used.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading farms from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ReadFarms reads a farm list previously saved from FarmRecords.
func ReadFarms(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	farms, err := ParseRecords(data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return farms, nil
}

// LoadUserIDs returns the userId of every farm in the farm list at path,
// in file order. A farm without a userId makes the whole file unusable.
func LoadUserIDs(path string) ([]string, error) {
	farms, err := ReadFarms(path)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(farms))
	for i, f := range farms {
		id := f.UserID()
		if id == "" {
			return nil, &LoadError{Path: path, Err: errors.Errorf("farm %d has no %s", i, UserIDField)}
		}
		ids = append(ids, id)
	}
	return ids, nil
}
