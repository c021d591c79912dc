package storage

import "context"

// Archive keeps a copy of every uploaded workbook so a bad publish can be
// replayed from the exact file that produced it.
type Archive interface {
	ArchiveWorkbook(ctx context.Context, localPath string, objectName string) error
}

// NoopArchive discards workbooks. Used when no object storage is configured.
type NoopArchive struct{}

func (NoopArchive) ArchiveWorkbook(ctx context.Context, localPath string, objectName string) error {
	return nil
}
