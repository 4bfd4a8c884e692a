package volume

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/nace/speedydisk/internal/system"
	"github.com/sirupsen/logrus"
)

// Field names an editable volume setting
type Field string

const (
	FieldSize        Field = "size"
	FieldFolders     Field = "folders"
	FieldAutoCreate  Field = "autocreate"
	FieldSpotlight   Field = "spotlight"
	FieldWarnOnEject Field = "warnoneject"
)

// Fields lists every editable setting
var Fields = []Field{FieldSize, FieldFolders, FieldAutoCreate, FieldSpotlight, FieldWarnOnEject}

// update applies fn to the volume with id and returns the updated copy
func (r *Registry) update(id uuid.UUID, fn func(d *Descriptor)) (Descriptor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range r.volumes {
		if d.ID == id {
			fn(d)
			return d.Clone(), nil
		}
	}
	return Descriptor{}, opErr("update", id.String(), ErrNotFound, nil)
}

// SetSize sets the size used by the next recreate; values below MinSizeMB are clamped
func (r *Registry) SetSize(id uuid.UUID, sizeMB int) error {
	if _, err := r.update(id, func(d *Descriptor) { d.SizeMB = ClampSize(sizeMB) }); err != nil {
		return err
	}
	r.persistAutoCreate("")
	return nil
}

// SetFolders sets the folders created on the next recreate
func (r *Registry) SetFolders(id uuid.UUID, folders []string) error {
	_, err := r.update(id, func(d *Descriptor) {
		d.Folders = append([]string(nil), folders...)
	})
	return err
}

// SetAutoCreate adds the volume to, or removes it from, the auto-create list
func (r *Registry) SetAutoCreate(id uuid.UUID, enabled bool) error {
	if _, err := r.update(id, func(d *Descriptor) { d.AutoCreate = enabled }); err != nil {
		return err
	}
	r.persistAutoCreate("")
	return nil
}

// SetSpotlight toggles search indexing on the mounted volume
func (r *Registry) SetSpotlight(id uuid.UUID, enabled bool) error {
	d, err := r.update(id, func(d *Descriptor) { d.SpotlightIndexed = enabled })
	if err != nil {
		return err
	}
	r.runner.SetIndexing(r.MountPath(d.Name), enabled)
	r.persistAutoCreate("")
	return nil
}

// SetWarnOnEject toggles the confirmation required before ejecting a volume with files
func (r *Registry) SetWarnOnEject(id uuid.UUID, enabled bool) error {
	if _, err := r.update(id, func(d *Descriptor) { d.WarnOnEject = enabled }); err != nil {
		return err
	}
	r.persistAutoCreate("")
	return nil
}

// SetField parses value for field and applies it to the volume with id
func (r *Registry) SetField(id uuid.UUID, field Field, value string) error {
	switch Field(strings.ToLower(string(field))) {
	case FieldSize:
		mb, err := system.ParseSizeMB(value)
		if err != nil {
			return opErr("set", id.String(), ErrInvalidSize, err)
		}
		return r.SetSize(id, mb)
	case FieldFolders:
		return r.SetFolders(id, system.SplitFolders(value))
	case FieldAutoCreate, FieldSpotlight, FieldWarnOnEject:
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %q", field, value)
		}
		switch Field(strings.ToLower(string(field))) {
		case FieldAutoCreate:
			return r.SetAutoCreate(id, enabled)
		case FieldSpotlight:
			return r.SetSpotlight(id, enabled)
		default:
			return r.SetWarnOnEject(id, enabled)
		}
	default:
		return fmt.Errorf("unknown field: %s", field)
	}
}

// SyncMarker rewrites the marker file of a mounted volume from its
// registered settings.
func (r *Registry) SyncMarker(name string) error {
	d, ok := r.Get(name)
	if !ok {
		return opErr("sync", name, ErrNotFound, nil)
	}
	if err := r.store.WriteMarker(r.MountPath(name), d.marker()); err != nil {
		logrus.WithError(err).WithField("volume", name).Warn("failed to write marker")
		return err
	}
	return nil
}
