package repository

import (
	"context"
	"fmt"
	"strings"
)

// Backend is the raw record layout a Store persists into: a set of named
// records, each holding named files. ReadFile errors for a missing file wrap
// fs.ErrNotExist.
type Backend interface {
	CreateRecord(ctx context.Context, id string) error
	RecordExists(ctx context.Context, id string) (bool, error)
	WriteFile(ctx context.Context, id, name string, data []byte) error
	ReadFile(ctx context.Context, id, name string) ([]byte, error)
	ListRecords(ctx context.Context) ([]string, error)
}

// checkName rejects names that would escape or alias a record.
func checkName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`+"\x00"):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	return nil
}

func checkFileName(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if name == MetadataFileName {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidName, name)
	}
	return nil
}

// objectKey names a file in flat key spaces: "<id>/<name>".
func objectKey(id, name string) string {
	return id + "/" + name
}

// recordPrefix is the key prefix shared by every file of a record.
func recordPrefix(id string) string {
	return id + "/"
}
