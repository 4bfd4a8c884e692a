package store

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// AutoCreateKey is the preference key holding the auto-create list
const AutoCreateKey = "autoCreate"

const autoCreateVersion = 1

// AutoCreateEntry is one volume recreated at every start
type AutoCreateEntry struct {
	Name        string     `json:"name"`
	Size        int        `json:"size"`
	SpotLight   bool       `json:"spotLight"`
	WarnOnEject bool       `json:"warnOnEject"`
	Folders     FolderList `json:"folders"`
}

func (e AutoCreateEntry) valid() bool {
	return e.Name != "" && e.Size >= 1
}

type autoCreateDocument struct {
	Version int               `json:"version"`
	Volumes []json.RawMessage `json:"volumes"`
}

// FolderList decodes either a JSON list of strings or a single comma
// separated string, as written by early versions.
type FolderList []string

// MarshalJSON implements json.Marshaler. A nil list is written as [].
func (f FolderList) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(f))
}

// UnmarshalJSON implements json.Unmarshaler. An empty list decodes to nil.
func (f *FolderList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*f = nil
		if len(list) > 0 {
			*f = list
		}
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return errors.New("folders must be a list of strings or a comma separated string")
	}
	*f = nil
	for _, part := range strings.Split(joined, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*f = append(*f, part)
		}
	}
	return nil
}

// LoadAutoCreateList returns the persisted auto-create entries. Invalid
// entries are skipped one by one; an error means the list as a whole could
// not be read and must not be overwritten.
func (s *Store) LoadAutoCreateList() ([]AutoCreateEntry, error) {
	data, err := s.prefs.Get(AutoCreateKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read auto-create list")
	}
	if len(data) == 0 {
		return nil, nil
	}

	raw, err := decodeAutoCreateDocument(data)
	if err != nil {
		return nil, errors.Wrap(err, "unreadable auto-create list")
	}

	entries := make([]AutoCreateEntry, 0, len(raw))
	for i, item := range raw {
		var entry AutoCreateEntry
		if err := json.Unmarshal(item, &entry); err != nil {
			logrus.WithError(err).WithField("index", i).Warn("skipping malformed auto-create entry")
			continue
		}
		if !entry.valid() {
			logrus.WithField("index", i).Warn("skipping incomplete auto-create entry")
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// decodeAutoCreateDocument accepts the versioned document and the bare
// list used before versioning.
func decodeAutoCreateDocument(data []byte) ([]json.RawMessage, error) {
	var legacy []json.RawMessage
	if err := json.Unmarshal(data, &legacy); err == nil {
		return legacy, nil
	}

	var doc autoCreateDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Version > autoCreateVersion {
		return nil, errors.Errorf("unsupported auto-create list version %d", doc.Version)
	}
	return doc.Volumes, nil
}

// SaveAutoCreateList overwrites the persisted auto-create list
func (s *Store) SaveAutoCreateList(entries []AutoCreateEntry) error {
	doc := autoCreateDocument{Version: autoCreateVersion, Volumes: make([]json.RawMessage, 0, len(entries))}
	for _, entry := range entries {
		item, err := json.Marshal(entry)
		if err != nil {
			return errors.Wrapf(err, "failed to encode auto-create entry %q", entry.Name)
		}
		doc.Volumes = append(doc.Volumes, item)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "failed to encode auto-create list")
	}
	return s.prefs.Set(AutoCreateKey, data)
}
