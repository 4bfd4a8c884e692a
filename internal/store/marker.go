package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/moby/sys/atomicwriter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultMarkerFile is the file name identifying a managed volume
const DefaultMarkerFile = ".speedydisk"

// Marker is the configuration written into the root of a mounted volume
type Marker struct {
	Name        string     `json:"name"`
	Size        int        `json:"size"`
	AutoCreate  bool       `json:"autoCreate"`
	SpotLight   bool       `json:"spotLight"`
	WarnOnEject bool       `json:"warnOnEject"`
	Folders     FolderList `json:"folders"`
}

// Store combines the preference store and the per-volume marker files
type Store struct {
	prefs      *Preferences
	markerFile string
}

// New creates a store using prefs for the auto-create list and
// markerFile as the marker file name inside each volume.
func New(prefs *Preferences, markerFile string) *Store {
	if markerFile == "" {
		markerFile = DefaultMarkerFile
	}
	return &Store{
		prefs:      prefs,
		markerFile: markerFile,
	}
}

// MarkerFileName returns the marker file name
func (s *Store) MarkerFileName() string {
	return s.markerFile
}

// ReadMarker parses the marker file inside mountPath.
// The second result is false when there is no valid marker.
func (s *Store) ReadMarker(mountPath string) (Marker, bool) {
	path := filepath.Join(mountPath, s.markerFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logrus.WithError(err).WithField("path", path).Warn("failed to read marker")
		}
		return Marker{}, false
	}

	var m Marker
	if err := json.Unmarshal(data, &m); err != nil {
		logrus.WithError(err).WithField("path", path).Warn("ignoring malformed marker")
		return Marker{}, false
	}
	if m.Name == "" || m.Size < 1 {
		logrus.WithField("path", path).Warn("ignoring incomplete marker")
		return Marker{}, false
	}
	return m, true
}

// WriteMarker replaces the marker file inside mountPath
func (s *Store) WriteMarker(mountPath string, m Marker) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode marker")
	}
	path := filepath.Join(mountPath, s.markerFile)
	if err := atomicwriter.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write marker %s", path)
	}
	return nil
}
