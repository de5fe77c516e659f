package cmd

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/drivepush/internal/config"
	"github.com/teemow/drivepush/internal/logging"
)

const accessToken = "ya29.a-very-secret-access-token"

// writeServiceAccount writes a freshly generated key whose token endpoint
// is tokenURL and returns its path.
func writeServiceAccount(t *testing.T, tokenURL string) string {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	data, err := json.Marshal(map[string]string{
		"type":           "service_account",
		"private_key_id": "key-1",
		"private_key":    string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})),
		"client_email":   "uploader@test.iam.gserviceaccount.com",
		"client_id":      "1234567890",
		"token_uri":      tokenURL,
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "sa.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestAuthenticate_LogsMaskedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"` + accessToken + `","token_type":"Bearer","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.CredentialsFile = writeServiceAccount(t, srv.URL)

	var logs bytes.Buffer
	client, account, err := authenticate(context.Background(), cfg, logging.New(&logs, "debug"))
	require.NoError(t, err)

	assert.NotNil(t, client)
	assert.Equal(t, "uploader@test.iam.gserviceaccount.com", account)

	out := logs.String()
	assert.Contains(t, out, "msg=authenticated")
	assert.Contains(t, out, logging.SanitizeToken(accessToken))
	assert.NotContains(t, out, accessToken)
}
