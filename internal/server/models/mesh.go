package models

import "time"

// Mesh is an asset owned by a user and backed by one or more stored files.
type Mesh struct {
	ID        string
	OwnerID   string
	Name      string
	ShortDesc string
	LongDesc  string
	Files     []MeshFile
	CreatedAt time.Time
}

// MeshFile describes one uploaded file. The content lives in blob storage
// under StorageKey.
type MeshFile struct {
	ID           string
	OriginalName string
	MimeType     string
	Size         int64
	StorageKey   string
}

// File finds a file of the mesh by id.
func (m *Mesh) File(id string) (MeshFile, bool) {
	for _, f := range m.Files {
		if f.ID == id {
			return f, true
		}
	}
	return MeshFile{}, false
}
