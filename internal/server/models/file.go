package models

// StoredFile describes an upload written to the upload directory.
type StoredFile struct {
	// OriginalName is the client-supplied file name, reduced to its base.
	OriginalName string
	// Name is the name on disk: a UUID prefix plus OriginalName.
	Name string
	// Location is the path the file was written to.
	Location string
	// Size is the number of bytes written.
	Size int64
	// ContentType is the sniffed MIME type.
	ContentType string
}

// PostImage is one image echoed back by the create-post endpoint.
type PostImage struct {
	FileSize int    `json:"file_size"`
	Data     string `json:"data"`
}
