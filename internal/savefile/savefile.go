package savefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"

	"factorybook/internal/accounting"
)

// FormatVersion is the current save file format. Version 1 predates
// copy counts on groups and is upgraded on read; absent counts already
// default to 1 during document validation.
const FormatVersion = 2

// Extension is the conventional save file suffix.
const Extension = ".fbw"

// ErrNotSaveFile is returned when the input is not a save file at all:
// malformed JSON or no format_version field.
var ErrNotSaveFile = errors.New("not a factorybook save file")

// TooNewError is returned for save files written by a later release.
type TooNewError struct {
	Version int64
}

func (e *TooNewError) Error() string {
	return fmt.Sprintf("save file format %d is newer than supported %d", e.Version, FormatVersion)
}

// File is the on-disk save format.
type File struct {
	FormatVersion  int                `json:"format_version"`
	Name           string             `json:"name,omitempty"`
	CatalogVersion string             `json:"catalog_version,omitempty"`
	Root           accounting.NodeDoc `json:"root"`
}

// Tree validates the file's document and builds a tree from it.
func (f *File) Tree() (*accounting.Tree, error) {
	return accounting.FromDocument(accounting.Document{
		FormatVersion: accounting.DocumentVersion,
		Root:          f.Root,
	})
}

// Decode parses and validates save file bytes. The format_version field is
// sniffed before full decoding; version problems surface as version errors,
// not field-level JSON errors.
func Decode(data []byte) (*File, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrNotSaveFile)
	}
	version := gjson.GetBytes(data, "format_version")
	if !version.Exists() {
		return nil, fmt.Errorf("%w: missing format_version", ErrNotSaveFile)
	}

	switch v := version.Int(); {
	case v == FormatVersion:
	case v == 1:
		// Upgraded below after parsing.
	case v > FormatVersion:
		return nil, &TooNewError{Version: v}
	default:
		return nil, fmt.Errorf("%w: unrecognized format_version %s", ErrNotSaveFile, version.Raw)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing save file: %w", err)
	}
	f.FormatVersion = FormatVersion

	if _, err := f.Tree(); err != nil {
		return nil, fmt.Errorf("invalid save file: %w", err)
	}
	return &f, nil
}

// Read loads and validates the save file at path.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading save file: %w", err)
	}
	f, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return f, nil
}

// Encode serializes the file, stamping the current format version.
func Encode(f *File) ([]byte, error) {
	f.FormatVersion = FormatVersion
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding save file: %w", err)
	}
	return append(data, '\n'), nil
}

// Write stores the save file at path atomically via temp file and rename.
// A partial write never replaces an existing save.
func Write(path string, f *File) error {
	data, err := Encode(f)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating save directory: %w", err)
		}
	}
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("writing save file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("replacing save file: %w", err)
	}
	return nil
}
