package apperr

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "credential with path",
			err:  &CredentialError{Path: "sa.json", Err: errors.New("bad json")},
			want: "credential sa.json: bad json",
		},
		{
			name: "credential without path",
			err:  &CredentialError{Err: errors.New("token rejected")},
			want: "credential: token rejected",
		},
		{
			name: "remote with status",
			err:  &RemoteAPIError{Op: "create_folder", Name: "docs", StatusCode: 403, Err: errors.New("forbidden")},
			want: `remote create_folder "docs": HTTP 403: forbidden`,
		},
		{
			name: "remote without status",
			err:  &RemoteAPIError{Op: "upload_file", Err: errors.New("connection reset")},
			want: "remote upload_file: connection reset",
		},
		{
			name: "local io",
			err:  &LocalIOError{Op: "open", Path: "/tmp/x", Err: fs.ErrPermission},
			want: "open /tmp/x: permission denied",
		},
		{
			name: "usage",
			err:  Usagef("accepts 1 arg(s), received %d", 2),
			want: "accepts 1 arg(s), received 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestKindHelpersSeeThroughWrapping(t *testing.T) {
	local := &LocalIOError{Op: "read", Path: "a", Err: fs.ErrPermission}
	wrapped := fmt.Errorf("walking tree: %w", local)

	assert.True(t, IsLocalIO(wrapped))
	assert.False(t, IsRemote(wrapped))
	assert.False(t, IsCredential(wrapped))
	assert.False(t, IsUsage(wrapped))
	assert.ErrorIs(t, wrapped, fs.ErrPermission)

	remote := fmt.Errorf("uploading: %w", &RemoteAPIError{Op: "upload_file", Err: errors.New("quota")})
	assert.True(t, IsRemote(remote))

	cred := fmt.Errorf("auth: %w", &CredentialError{Err: errors.New("x")})
	assert.True(t, IsCredential(cred))

	assert.True(t, IsUsage(fmt.Errorf("cli: %w", Usagef("bad"))))
}
