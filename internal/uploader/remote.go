package uploader

import (
	"context"

	"github.com/teemow/drivepush/internal/drive"
)

// RemoteClient is the remote storage the uploader writes to. Both calls
// return the id of the object they created.
type RemoteClient interface {
	CreateFolder(ctx context.Context, name, parentID string) (string, error)
	UploadFile(ctx context.Context, localPath, parentID string) (string, error)
}

// ProgressFunc reports bytes sent for the file at localPath.
type ProgressFunc func(localPath string, sent, total int64)

// DriveRemote adapts a *drive.Client to RemoteClient.
type DriveRemote struct {
	client   *drive.Client
	progress ProgressFunc
}

var _ RemoteClient = (*DriveRemote)(nil)

// NewDriveRemote wraps client. progress may be nil.
func NewDriveRemote(client *drive.Client, progress ProgressFunc) *DriveRemote {
	return &DriveRemote{client: client, progress: progress}
}

func (d *DriveRemote) CreateFolder(ctx context.Context, name, parentID string) (string, error) {
	info, err := d.client.CreateFolder(ctx, name, parentID)
	if err != nil {
		return "", err
	}
	return info.ID, nil
}

func (d *DriveRemote) UploadFile(ctx context.Context, localPath, parentID string) (string, error) {
	var progress drive.ProgressFunc
	if d.progress != nil {
		progress = func(sent, total int64) { d.progress(localPath, sent, total) }
	}

	info, err := d.client.UploadFile(ctx, localPath, parentID, progress)
	if err != nil {
		return "", err
	}
	return info.ID, nil
}
