package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"todo/internal/logging"
)

// Gateway loads and saves the whole store as one unit.
type Gateway interface {
	// Load returns the persisted store, or an empty store if none exists yet.
	Load(ctx context.Context) (*Store, error)

	// Save replaces the persisted store with s.
	Save(ctx context.Context, s *Store) error
}

const schemaURL = "todo-store.schema.json"

const schemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "propertyNames": {"minLength": 1},
  "additionalProperties": {
    "type": ["array", "null"],
    "items": {
      "type": "object",
      "required": ["name", "checked"],
      "additionalProperties": false,
      "properties": {
        "name": {"type": "string", "minLength": 1},
        "checked": {"type": "boolean"}
      }
    }
  }
}`

var storeSchema = jsonschema.MustCompileString(schemaURL, schemaJSON)

// FileGateway persists the store as a single JSON file.
type FileGateway struct {
	path   string
	logger *log.Logger
}

// NewFileGateway returns a gateway backed by the JSON file at path.
func NewFileGateway(path string, logger *log.Logger) *FileGateway {
	if logger == nil {
		logger = logging.Discard()
	}
	return &FileGateway{path: path, logger: logger}
}

// Path returns the backing file path.
func (g *FileGateway) Path() string {
	return g.path
}

// Init creates the backing file holding one empty list named defaultList if
// the file does not exist yet. An existing file is left untouched.
func (g *FileGateway) Init(ctx context.Context, defaultList string) error {
	if _, err := os.Stat(g.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return &StorageError{Op: "load", Path: g.path, Err: err}
	}

	s := New()
	if defaultList != "" {
		if err := s.CreateList(defaultList); err != nil {
			return err
		}
	}
	g.logger.Debug("initializing store", "path", g.path, "list", defaultList)
	return g.Save(ctx, s)
}

// Load reads and validates the store file. A missing file yields an empty
// store; anything unparseable is a StorageError.
func (g *FileGateway) Load(ctx context.Context) (*Store, error) {
	data, err := os.ReadFile(g.path)
	if err != nil {
		if os.IsNotExist(err) {
			g.logger.Debug("store file missing, starting empty", "path", g.path)
			return New(), nil
		}
		return nil, &StorageError{Op: "load", Path: g.path, Err: err}
	}

	if err := validateDocument(data); err != nil {
		return nil, &StorageError{Op: "load", Path: g.path, Err: err}
	}

	s := New()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, &StorageError{Op: "load", Path: g.path, Err: err}
	}
	g.logger.Debug("loaded store", "path", g.path, "lists", s.Len())
	return s, nil
}

// Save writes the store to a temp file next to the target and renames it
// into place, so a reader never sees a partial file.
func (g *FileGateway) Save(ctx context.Context, s *Store) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return &StorageError{Op: "save", Path: g.path, Err: err}
	}
	data = append(data, '\n')

	if err := writeFileAtomic(g.path, data, 0600); err != nil {
		return &StorageError{Op: "save", Path: g.path, Err: err}
	}
	g.logger.Debug("saved store", "path", g.path, "lists", s.Len())
	return nil
}

// validateDocument checks raw JSON against the store schema.
func validateDocument(data []byte) error {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if err := storeSchema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("invalid store: %s", firstSchemaError(ve))
		}
		return err
	}
	return nil
}

// firstSchemaError returns the first leaf cause as "location: message".
func firstSchemaError(ve *jsonschema.ValidationError) string {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	if ve.InstanceLocation == "" {
		return ve.Message
	}
	return ve.InstanceLocation + ": " + ve.Message
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
