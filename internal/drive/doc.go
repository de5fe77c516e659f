// Package drive provides a client for the Google Drive API operations that
// drivepush needs: creating folders and uploading files.
//
// Uploads stream the file through the SDK's media upload. Files larger than
// one chunk go through the resumable protocol; smaller ones are sent as a
// single multipart request. Neither call is idempotent: creating the same
// folder twice yields two folders, since Drive does not enforce unique names.
//
// Every remote failure is returned as an *apperr.RemoteAPIError wrapping one
// of the sentinel errors in this package, so callers can write
//
//	if errors.Is(err, drive.ErrQuotaExceeded) { ... }
//
// Example usage:
//
//	client, err := drive.NewClient(ctx, session.HTTPClient())
//	if err != nil {
//	    return err
//	}
//
//	folder, err := client.CreateFolder(ctx, "reports", parentID)
//	if err != nil {
//	    return err
//	}
//
//	file, err := client.UploadFile(ctx, "reports/q3.pdf", folder.ID, nil)
package drive
