package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"ecommerce_automation/domain/entities"
	"ecommerce_automation/domain/interfaces"
)

var (
	// ErrUnknownPage is returned when the document has no page with that name
	ErrUnknownPage = errors.New("unknown page")
	// ErrUnknownUser is returned when the document has no user with that key
	ErrUnknownUser = errors.New("unknown user")
)

// document mirrors the YAML locators file
type document struct {
	BaseURL string                              `yaml:"base_url" validate:"required,url"`
	Users   map[string]entities.User            `yaml:"users"`
	Pages   map[string]*entities.PageDescriptor `yaml:"pages" validate:"required,dive,required"`
}

// LocatorStore serves page locator tables read from a YAML document
type LocatorStore struct {
	mu      sync.RWMutex
	doc     document
	baseURL string
}

// LoadLocatorFile - reads and validates a YAML locators file
func LoadLocatorFile(path string) (*LocatorStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open locators file: %w", err)
	}
	defer f.Close()

	store, err := LoadLocators(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return store, nil
}

// LoadLocators - reads and validates a YAML locators document
func LoadLocators(r io.Reader) (*LocatorStore, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse locators: %w", err)
	}

	if err := validator.New().Struct(doc); err != nil {
		return nil, fmt.Errorf("invalid locators: %w", err)
	}

	for name, page := range doc.Pages {
		page.Name = name
		if page.Elements == nil {
			page.Elements = map[string]entities.Locator{}
		}
	}

	return &LocatorStore{doc: doc, baseURL: doc.BaseURL}, nil
}

// OverrideBaseURL - points every page at another deployment of the site
func (s *LocatorStore) OverrideBaseURL(url string) {
	if url == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseURL = url
}

// BaseURL - returns the site root, always ending with a slash
func (s *LocatorStore) BaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if strings.HasSuffix(s.baseURL, "/") {
		return s.baseURL
	}
	return s.baseURL + "/"
}

// Page - returns a copy of a page descriptor so callers cannot alter the store
func (s *LocatorStore) Page(name string) (*entities.PageDescriptor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	page, ok := s.doc.Pages[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPage, name)
	}

	elements := make(map[string]entities.Locator, len(page.Elements))
	for k, v := range page.Elements {
		elements[k] = v
	}
	return &entities.PageDescriptor{
		Name:     page.Name,
		Path:     page.Path,
		Steps:    append([]string(nil), page.Steps...),
		Elements: elements,
	}, nil
}

// User - returns a seed user by key
func (s *LocatorStore) User(name string) (entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.doc.Users[name]
	if !ok {
		return entities.User{}, fmt.Errorf("%w: %q", ErrUnknownUser, name)
	}
	return u, nil
}

// Ensure LocatorStore implements LocatorSource interface
var _ interfaces.LocatorSource = (*LocatorStore)(nil)
