package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

type StoreTestSuite struct {
	suite.Suite
	dir   string
	prefs *Preferences
	store *Store
}

func (s *StoreTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.prefs = NewPreferences(filepath.Join(s.dir, "prefs", "preferences.db"), "com.speedydisk.test")
	s.store = New(s.prefs, "")
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) TestGetOnMissingDatabase() {
	value, err := s.prefs.Get("anything")
	s.Require().NoError(err)
	s.Nil(value)
}

func (s *StoreTestSuite) TestPreferencesSetGetDelete() {
	s.Require().NoError(s.prefs.Set("k", []byte("v1")))
	s.Require().NoError(s.prefs.Set("k", []byte("v2")))

	value, err := s.prefs.Get("k")
	s.Require().NoError(err)
	s.Equal([]byte("v2"), value)

	s.Require().NoError(s.prefs.Delete("k"))
	value, err = s.prefs.Get("k")
	s.Require().NoError(err)
	s.Nil(value)
}

func (s *StoreTestSuite) TestAutoCreateRoundTrip() {
	entries := []AutoCreateEntry{
		{Name: "Scratch", Size: 64, SpotLight: true, Folders: FolderList{"tmp"}},
		{Name: "Cache", Size: 512, WarnOnEject: true},
	}
	s.Require().NoError(s.store.SaveAutoCreateList(entries))
	loaded, err := s.store.LoadAutoCreateList()
	s.Require().NoError(err)
	s.Equal(entries, loaded)

	s.Require().NoError(s.store.SaveAutoCreateList(entries[1:]))
	loaded, err = s.store.LoadAutoCreateList()
	s.Require().NoError(err)
	s.Equal(entries[1:], loaded)
}

func (s *StoreTestSuite) TestAutoCreateWritesEmptyFolderList() {
	s.Require().NoError(s.store.SaveAutoCreateList([]AutoCreateEntry{{Name: "Bare", Size: 8}}))

	data, err := s.prefs.Get(AutoCreateKey)
	s.Require().NoError(err)
	s.Contains(string(data), `"folders":[]`)
	s.NotContains(string(data), "null")
}

func (s *StoreTestSuite) TestAutoCreateMissingListIsEmpty() {
	entries, err := s.store.LoadAutoCreateList()
	s.NoError(err)
	s.Empty(entries)
}

func (s *StoreTestSuite) TestAutoCreateSkipsBadEntries() {
	doc := `{"version":1,"volumes":[
		{"name":"Good","size":64,"spotLight":false},
		{"name":"","size":64},
		{"name":"ZeroSize","size":0},
		{"name":"WrongType","size":"64"},
		"not an object",
		{"name":"Legacy","size":32,"spotLight":true,"folders":"a, b"}
	]}`
	s.Require().NoError(s.prefs.Set(AutoCreateKey, []byte(doc)))

	entries, err := s.store.LoadAutoCreateList()
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal("Good", entries[0].Name)
	s.Equal("Legacy", entries[1].Name)
	s.Equal(FolderList{"a", "b"}, entries[1].Folders)
}

func (s *StoreTestSuite) TestAutoCreateAcceptsUnversionedList() {
	s.Require().NoError(s.prefs.Set(AutoCreateKey, []byte(`[{"name":"Old","size":16,"spotLight":false}]`)))
	entries, err := s.store.LoadAutoCreateList()
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("Old", entries[0].Name)
}

func (s *StoreTestSuite) TestAutoCreateRejectsGarbageAndFutureVersions() {
	s.Require().NoError(s.prefs.Set(AutoCreateKey, []byte(`garbage`)))
	entries, err := s.store.LoadAutoCreateList()
	s.Error(err)
	s.Empty(entries)

	s.Require().NoError(s.prefs.Set(AutoCreateKey, []byte(`{"version":99,"volumes":[{"name":"X","size":1}]}`)))
	_, err = s.store.LoadAutoCreateList()
	s.ErrorContains(err, "version 99")
}

func (s *StoreTestSuite) TestMarkerRoundTrip() {
	mount := filepath.Join(s.dir, "Scratch")
	s.Require().NoError(os.MkdirAll(mount, 0755))

	m := Marker{Name: "Scratch", Size: 64, AutoCreate: true, WarnOnEject: true, Folders: FolderList{"tmp", "cache/go"}}
	s.Require().NoError(s.store.WriteMarker(mount, m))
	s.FileExists(filepath.Join(mount, DefaultMarkerFile))

	got, ok := s.store.ReadMarker(mount)
	s.Require().True(ok)
	s.Equal(m, got)
}

func (s *StoreTestSuite) TestMarkerWithoutFolders() {
	mount := filepath.Join(s.dir, "Bare")
	s.Require().NoError(os.MkdirAll(mount, 0755))
	s.Require().NoError(s.store.WriteMarker(mount, Marker{Name: "Bare", Size: 8}))

	data, err := os.ReadFile(filepath.Join(mount, DefaultMarkerFile))
	s.Require().NoError(err)
	s.Contains(string(data), `"folders": []`)

	got, ok := s.store.ReadMarker(mount)
	s.Require().True(ok)
	s.Nil(got.Folders)
}

func (s *StoreTestSuite) TestReadMarkerMissingOrInvalid() {
	mount := filepath.Join(s.dir, "Empty")
	s.Require().NoError(os.MkdirAll(mount, 0755))

	_, ok := s.store.ReadMarker(mount)
	s.False(ok)

	s.Require().NoError(os.WriteFile(filepath.Join(mount, DefaultMarkerFile), []byte("{"), 0644))
	_, ok = s.store.ReadMarker(mount)
	s.False(ok)

	s.Require().NoError(os.WriteFile(filepath.Join(mount, DefaultMarkerFile), []byte(`{"name":"x","size":0}`), 0644))
	_, ok = s.store.ReadMarker(mount)
	s.False(ok)
}

func (s *StoreTestSuite) TestWriteMarkerIntoMissingVolumeFails() {
	err := s.store.WriteMarker(filepath.Join(s.dir, "gone"), Marker{Name: "gone", Size: 1})
	s.Error(err)
}

func (s *StoreTestSuite) TestCustomMarkerFileName() {
	st := New(s.prefs, ".managed")
	s.Equal(".managed", st.MarkerFileName())
}
