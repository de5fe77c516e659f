package google

import drive "google.golang.org/api/drive/v3"

// DefaultScopes are the OAuth scopes drivepush requests when none are
// configured. Full Drive access is needed to create folders and files under
// an arbitrary parent folder shared with the service account.
var DefaultScopes = []string{
	drive.DriveScope,
}
