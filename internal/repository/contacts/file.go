package contacts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/dhivyapriya/sos-guardian/internal/config"
	"github.com/dhivyapriya/sos-guardian/internal/domain/sos"
)

// Repository defines persistence operations for the trusted contact list.
type Repository interface {
	List(ctx context.Context) ([]sos.Contact, error)
	Add(ctx context.Context, contact sos.Contact) error
}

// FileRepository persists contacts to a YAML file on disk.
type FileRepository struct {
	// path is the filesystem location of the YAML contacts file.
	path string
	// mu protects concurrent access to the contacts file.
	mu sync.Mutex
}

// ErrEmptyName is returned when a contact is added without a name.
var ErrEmptyName = errors.New("contact name is empty")

// contactsFile is the on-disk document shape.
type contactsFile struct {
	Contacts []sos.Contact `yaml:"contacts"`
}

// NewFileRepository creates a repository that reads/writes YAML at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// List reads the contact list from disk. A missing file yields an empty list.
func (r *FileRepository) List(_ context.Context) ([]sos.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load()
}

// Add appends a contact and writes the whole list back.
func (r *FileRepository) Add(_ context.Context, contact sos.Contact) error {
	if contact.Name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load()
	if err != nil {
		return err
	}

	list = append(list, contact)

	data, err := yaml.Marshal(&contactsFile{Contacts: list})
	if err != nil {
		return fmt.Errorf("encode contacts: %w", err)
	}

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write contacts file: %w", err)
	}

	return nil
}

// load reads and decodes the file. Callers hold the mutex.
func (r *FileRepository) load() ([]sos.Contact, error) {
	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("read contacts file: %w", err)
	}

	var file contactsFile
	if err = yaml.Unmarshal(contents, &file); err != nil {
		return nil, fmt.Errorf("decode contacts file: %w", err)
	}

	return file.Contacts, nil
}

// StaticRepository serves a fixed contact list, typically one embedded in the
// application configuration.
type StaticRepository struct {
	// contacts is the fixed list served to every caller.
	contacts []sos.Contact
}

// NewStaticRepository wraps a fixed list of contacts.
func NewStaticRepository(list []sos.Contact) *StaticRepository {
	return &StaticRepository{contacts: list}
}

// List returns a copy of the fixed list.
func (r *StaticRepository) List(_ context.Context) ([]sos.Contact, error) {
	out := make([]sos.Contact, len(r.contacts))
	copy(out, r.contacts)

	return out, nil
}

// Add is not supported for a configuration-embedded list.
func (r *StaticRepository) Add(_ context.Context, _ sos.Contact) error {
	return errors.New("static contact list is read-only")
}
