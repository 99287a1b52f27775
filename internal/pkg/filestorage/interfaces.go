package filestorage

import "mime/multipart"

// FileStorage abstracts where protected resource files live.
type FileStorage interface {
	// Resolve maps a resource slug and relative file path to an absolute
	// filesystem path, guarding against path traversal.
	Resolve(resourceSlug, relPath string) (string, error)
	// SaveFile stores an uploaded file under the resource's directory and
	// returns its relative path.
	SaveFile(fileHeader *multipart.FileHeader, resourceSlug string) (string, error)
	// DeleteFile removes a stored file. Missing files are not an error.
	DeleteFile(resourceSlug, relPath string) error
}
